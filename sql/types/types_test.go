package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWiden(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Type
		expected Type
	}{
		{"same type", Integer, Integer, Integer},
		{"byte widens to short", Byte, Short, Short},
		{"long widens over integer", Integer, Long, Long},
		{"double is wider than long operand order irrelevant", Double, Long, Double},
		{"decimal is the top of the lattice", Decimal, Double, Decimal},
		{"null widens to the concrete peer", Null, Integer, Integer},
		{"null on the right also widens", Integer, Null, Integer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Widen(tt.a, tt.b)
			require.NoError(t, err)
			require.True(t, tt.expected.Equals(got), "expected %s, got %s", tt.expected, got)
		})
	}
}

func TestWidenIncompatible(t *testing.T) {
	_, err := Widen(String, Integer)
	require.Error(t, err)
	require.True(t, ErrIncompatibleTypes.Is(err))
}

func TestIsNumeric(t *testing.T) {
	require.True(t, IsNumeric(Integer))
	require.True(t, IsNumeric(Decimal))
	require.False(t, IsNumeric(String))
	require.False(t, IsNumeric(Boolean))
}

func TestIsComparable(t *testing.T) {
	require.True(t, IsComparable(Integer))
	require.True(t, IsComparable(String))
	require.False(t, IsComparable(NewArrayType(Integer, false)))
}

func TestArrayTypeEquals(t *testing.T) {
	a := NewArrayType(Integer, true)
	b := NewArrayType(Integer, true)
	c := NewArrayType(Integer, false)
	require.True(t, a.Equals(b))
	require.False(t, a.Equals(c))
}

func TestNullableJoin(t *testing.T) {
	require.False(t, NullableJoin(false, false))
	require.True(t, NullableJoin(false, true))
	require.True(t, NullableJoin(true, false))
}

func TestDecimalConvert(t *testing.T) {
	v, err := Decimal.Convert("3.14")
	require.NoError(t, err)
	require.Equal(t, "3.14", v.(interface{ String() string }).String())

	_, err = Decimal.Convert("not-a-number")
	require.Error(t, err)
}
