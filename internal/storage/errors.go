package storage

import (
	"errors"
	"fmt"

	"github.com/eternalApril/keyfile/internal/value"
)

var (
	// ErrTypeMismatch is matched by every *TypeMismatchError
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrNegativeIndex is returned for slot indices below zero
	ErrNegativeIndex = errors.New("negative slot index")
	// ErrIndexOutOfRange is returned when growing a list past MaxSlots
	ErrIndexOutOfRange = errors.New("slot index out of range")
	// ErrUnsetValue is returned when an unset value is used as a default or written
	ErrUnsetValue = errors.New("value is unset")
)

// TypeMismatchError reports a read whose requested kind differs from the stored one
type TypeMismatchError struct {
	Name  string
	Index int
	Want  value.Kind
	Got   value.Kind
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("setting %q[%d] holds a %s, requested %s", e.Name, e.Index, e.Got, e.Want)
}

func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}
