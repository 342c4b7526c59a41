package codec

import "github.com/eternalApril/keyfile/internal/value"

// Separator is the token that must follow the setting name
const Separator = "="

// Assignment is one line of a settings file: a name and its ordered values
type Assignment struct {
	Name   string
	Values []value.Value
}
