package storage

import (
	"slices"

	"github.com/eternalApril/keyfile/internal/value"
	"go.uber.org/zap"
)

// MaxSlots caps how far Get and Set grow a setting's value list
const MaxSlots = 1 << 16

// Store maps setting names to ordered lists of scalar values.
// Store is not safe for concurrent use; callers synchronize access
type Store struct {
	data   map[string][]value.Value // name - value slots
	logger *zap.Logger
}

// New creates an empty Store. A nil logger disables logging
func New(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Store{
		data:   make(map[string][]value.Value),
		logger: logger,
	}
}

// GetValue returns the slot at index when it holds a value of def's kind.
// A missing name, an index past the end or an unset gap registers def in
// that slot and returns it
func (s *Store) GetValue(name string, def value.Value, index int) (value.Value, error) {
	list := s.data[name]
	if err := checkSlot(def, index, len(list)); err != nil {
		return value.Value{}, err
	}

	if index < len(list) && list[index].IsSet() {
		got := list[index]
		if got.Kind != def.Kind {
			return value.Value{}, &TypeMismatchError{
				Name:  name,
				Index: index,
				Want:  def.Kind,
				Got:   got.Kind,
			}
		}
		return got, nil
	}

	return s.put(name, def, index), nil
}

// SetValue writes v at index, creating the setting and gap slots as needed.
// Returns the stored value
func (s *Store) SetValue(name string, v value.Value, index int) (value.Value, error) {
	if err := checkSlot(v, index, len(s.data[name])); err != nil {
		return value.Value{}, err
	}

	return s.put(name, v, index), nil
}

// GetNumber is GetValue for numeric settings
func (s *Store) GetNumber(name string, def float64, index int) (float64, error) {
	v, err := s.GetValue(name, value.Number(def), index)
	return v.Num, err
}

// SetNumber is SetValue for numeric settings
func (s *Store) SetNumber(name string, f float64, index int) (float64, error) {
	v, err := s.SetValue(name, value.Number(f), index)
	return v.Num, err
}

// GetString is GetValue for string settings
func (s *Store) GetString(name string, def string, index int) (string, error) {
	v, err := s.GetValue(name, value.String(def), index)
	return v.Str, err
}

// SetString is SetValue for string settings
func (s *Store) SetString(name string, str string, index int) (string, error) {
	v, err := s.SetValue(name, value.String(str), index)
	return v.Str, err
}

// Lookup returns the slot at index without registering anything.
// Gap slots report false
func (s *Store) Lookup(name string, index int) (value.Value, bool) {
	list, ok := s.data[name]
	if !ok || index < 0 || index >= len(list) || !list[index].IsSet() {
		return value.Value{}, false
	}
	return list[index], true
}

// Len returns the number of slots of the setting, 0 if it does not exist
func (s *Store) Len(name string) int {
	return len(s.data[name])
}

// Values returns a copy of the setting's slots
func (s *Store) Values(name string) []value.Value {
	return slices.Clone(s.data[name])
}

// Names returns all setting names in lexicographic order
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// put grows the list with unset gaps up to index and stores v there
func (s *Store) put(name string, v value.Value, index int) value.Value {
	list := s.data[name]
	if index >= len(list) {
		list = append(list, make([]value.Value, index+1-len(list))...)
	}

	list[index] = v
	s.data[name] = list

	return v
}

// checkSlot validates index against a list of n slots. Slots that already
// exist are always addressable, growth stops at MaxSlots
func checkSlot(v value.Value, index, n int) error {
	if index < 0 {
		return ErrNegativeIndex
	}
	if index >= n && index >= MaxSlots {
		return ErrIndexOutOfRange
	}
	if !v.IsSet() {
		return ErrUnsetValue
	}
	return nil
}
