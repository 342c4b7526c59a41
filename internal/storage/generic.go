package storage

import (
	"reflect"

	"github.com/eternalApril/keyfile/internal/value"
)

// Numeric lists the number types served by the float64 slot representation
type Numeric interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Scalar is any type Get and Set accept
type Scalar interface {
	Numeric | ~string
}

// Get reads a setting as T, registering def when the slot is empty.
// Numeric types are stored as float64 and converted on the way out, so a
// value outside T's range is truncated the way a Go conversion does.
// index defaults to 0
func Get[T Scalar](s *Store, name string, def T, index ...int) (T, error) {
	v, err := s.GetValue(name, toValue(def), slotIndex(index))
	if err != nil {
		var zero T
		return zero, err
	}
	return fromValue[T](v), nil
}

// Set writes v as the setting's slot and returns what was stored.
// index defaults to 0
func Set[T Scalar](s *Store, name string, v T, index ...int) (T, error) {
	stored, err := s.SetValue(name, toValue(v), slotIndex(index))
	if err != nil {
		var zero T
		return zero, err
	}
	return fromValue[T](stored), nil
}

func slotIndex(index []int) int {
	if len(index) == 0 {
		return 0
	}
	return index[0]
}

func toValue[T Scalar](x T) value.Value {
	rv := reflect.ValueOf(x)

	switch rv.Kind() {
	case reflect.String:
		return value.String(rv.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return value.Number(float64(rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return value.Number(float64(rv.Uint()))
	default:
		return value.Number(rv.Float())
	}
}

func fromValue[T Scalar](v value.Value) T {
	var out T
	rv := reflect.ValueOf(&out).Elem()

	switch rv.Kind() {
	case reflect.String:
		rv.SetString(v.Str)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		rv.SetInt(int64(v.Num))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		rv.SetUint(uint64(v.Num))
	default:
		rv.SetFloat(v.Num)
	}

	return out
}
