package value

import (
	"strconv"
	"strings"
)

// Kind tags the payload held by a Value
type Kind byte

const (
	// KindUnset marks a gap slot created by growing a value list
	KindUnset Kind = iota
	KindNumber
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	default:
		return "unset"
	}
}

// Value is a single scalar slot of a setting: either a number or a string
type Value struct {
	Str  string  // KindString
	Num  float64 // KindNumber
	Kind Kind
}

// Number construct number Value from float64
func Number(f float64) Value {
	return Value{
		Kind: KindNumber,
		Num:  f,
	}
}

// String construct string Value
func String(s string) Value {
	return Value{
		Kind: KindString,
		Str:  s,
	}
}

// Parse turns a file token into a Value. The whole token must be a decimal
// float for a number, anything else is kept verbatim as a string.
// Go literal forms such as hex or digit separators are strings
func Parse(token string) Value {
	if !isDecimal(token) {
		return String(token)
	}
	f, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return String(token)
	}
	return Number(f)
}

// isDecimal reports whether s is [sign] digits [. digits] [e [sign] digits]
// with at least one mantissa digit, or a signed inf, infinity or nan
func isDecimal(s string) bool {
	if s != "" && (s[0] == '+' || s[0] == '-') {
		s = s[1:]
	}

	switch strings.ToLower(s) {
	case "inf", "infinity", "nan":
		return true
	}

	i, digits := 0, 0
	for ; i < len(s) && isDigit(s[i]); i++ {
		digits++
	}
	if i < len(s) && s[i] == '.' {
		for i++; i < len(s) && isDigit(s[i]); i++ {
			digits++
		}
	}
	if digits == 0 {
		return false
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		exp := i
		for ; i < len(s) && isDigit(s[i]); i++ {
		}
		if i == exp {
			return false
		}
	}

	return i == len(s)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// IsSet reports whether the slot holds a number or a string
func (v Value) IsSet() bool {
	return v.Kind != KindUnset
}

// Text returns the file representation of the value.
// Unset slots are written as numeric zero
func (v Value) Text() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case KindString:
		return v.Str
	default:
		return "0"
	}
}
