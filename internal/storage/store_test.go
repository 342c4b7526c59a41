package storage

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/eternalApril/keyfile/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_GetDefaultRegisters(t *testing.T) {
	s := New(nil)

	got, err := s.GetNumber("missing", 42, 0)
	require.NoError(t, err)
	assert.Equal(t, 42.0, got)

	// first default sticks
	got, err = s.GetNumber("missing", 99, 0)
	require.NoError(t, err)
	assert.Equal(t, 42.0, got)
	assert.Equal(t, 1, s.Len("missing"))
}

func TestStore_GetIdempotent(t *testing.T) {
	s := New(nil)

	first, err := s.GetString("name", "Alice", 2)
	require.NoError(t, err)
	before := s.Values("name")

	second, err := s.GetString("name", "Alice", 2)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, before, s.Values("name"))
	assert.Equal(t, 3, s.Len("name"))
}

func TestStore_SetGrowsWithGaps(t *testing.T) {
	s := New(nil)

	stored, err := s.SetString("k", "x", 3)
	require.NoError(t, err)
	assert.Equal(t, "x", stored)
	assert.Equal(t, 4, s.Len("k"))

	// gap slots accept any kind
	n, err := s.GetNumber("k", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, n)

	str, err := s.GetString("k", "fill", 1)
	require.NoError(t, err)
	assert.Equal(t, "fill", str)

	got, ok := s.Lookup("k", 3)
	require.True(t, ok)
	assert.Equal(t, value.String("x"), got)
	assert.Equal(t, 4, s.Len("k"))
}

func TestStore_GrowthNeverTruncates(t *testing.T) {
	s := New(nil)

	_, err := s.SetNumber("list", 1, 0)
	require.NoError(t, err)
	_, err = s.SetNumber("list", 2, 1)
	require.NoError(t, err)
	_, err = s.SetNumber("list", 9, 5)
	require.NoError(t, err)

	assert.Equal(t, 6, s.Len("list"))
	v, _ := s.Lookup("list", 0)
	assert.Equal(t, 1.0, v.Num)
	v, _ = s.Lookup("list", 1)
	assert.Equal(t, 2.0, v.Num)

	_, ok := s.Lookup("list", 3)
	assert.False(t, ok, "gap slot must not report a value")
}

func TestStore_SetOverwritesKind(t *testing.T) {
	s := New(nil)

	_, err := s.SetNumber("mode", 1, 0)
	require.NoError(t, err)
	_, err = s.SetString("mode", "fast", 0)
	require.NoError(t, err)

	got, err := s.GetString("mode", "", 0)
	require.NoError(t, err)
	assert.Equal(t, "fast", got)
}

func TestStore_TypeMismatch(t *testing.T) {
	s := New(nil)
	_, err := s.SetString("player", "Alice", 0)
	require.NoError(t, err)

	_, err = s.GetNumber("player", 0, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTypeMismatch))

	var mismatch *TypeMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "player", mismatch.Name)
	assert.Equal(t, 0, mismatch.Index)
	assert.Equal(t, value.KindNumber, mismatch.Want)
	assert.Equal(t, value.KindString, mismatch.Got)

	// a failed read leaves the slot alone
	v, ok := s.Lookup("player", 0)
	require.True(t, ok)
	assert.Equal(t, value.String("Alice"), v)
}

func TestStore_InvalidSlot(t *testing.T) {
	s := New(nil)

	tests := []struct {
		name    string
		run     func() error
		wantErr error
	}{
		{"Get negative index", func() error {
			_, err := s.GetNumber("a", 1, -1)
			return err
		}, ErrNegativeIndex},
		{"Set negative index", func() error {
			_, err := s.SetString("a", "x", -2)
			return err
		}, ErrNegativeIndex},
		{"Get unset default", func() error {
			_, err := s.GetValue("a", value.Value{}, 0)
			return err
		}, ErrUnsetValue},
		{"Set unset value", func() error {
			_, err := s.SetValue("a", value.Value{}, 0)
			return err
		}, ErrUnsetValue},
		{"Set past slot limit", func() error {
			_, err := s.SetNumber("a", 1, MaxSlots)
			return err
		}, ErrIndexOutOfRange},
		{"Set max int index", func() error {
			_, err := s.SetNumber("a", 1, math.MaxInt)
			return err
		}, ErrIndexOutOfRange},
		{"Get past slot limit", func() error {
			_, err := s.GetString("a", "x", MaxSlots+1)
			return err
		}, ErrIndexOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.run(), tt.wantErr)
		})
	}

	assert.Empty(t, s.Names(), "invalid calls must not register settings")
}

func TestStore_SlotLimit(t *testing.T) {
	s := New(nil)

	_, err := s.SetNumber("k", 1, MaxSlots-1)
	require.NoError(t, err)
	assert.Equal(t, MaxSlots, s.Len("k"))

	// lists read from a file may be longer than the growth limit
	require.NoError(t, s.Restore(strings.NewReader("long = "+strings.Repeat("7 ", MaxSlots+2)+"\n")))
	got, err := s.GetNumber("long", 0, MaxSlots+1)
	require.NoError(t, err)
	assert.Equal(t, 7.0, got)

	_, err = s.SetNumber("long", 1, MaxSlots+2)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.Equal(t, MaxSlots+2, s.Len("long"))
}

func TestStore_NamesSorted(t *testing.T) {
	s := New(nil)
	for _, name := range []string{"zeta", "Alpha", "alpha", "beta"} {
		_, err := s.SetNumber(name, 1, 0)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"Alpha", "alpha", "beta", "zeta"}, s.Names())
}

func TestStore_ValuesIsCopy(t *testing.T) {
	s := New(nil)
	_, err := s.SetNumber("n", 1, 0)
	require.NoError(t, err)

	vals := s.Values("n")
	vals[0] = value.Number(100)

	v, _ := s.Lookup("n", 0)
	assert.Equal(t, 1.0, v.Num)
	assert.Nil(t, s.Values("absent"))
}
