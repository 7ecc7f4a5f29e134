// Package types implements the closed data-type lattice described by
// spec.md §3.3 (C2): primitive numerics, String, Binary, Null, and the
// composite Array/Map/Struct families, plus the numeric promotion order.
package types

import "fmt"

// Type is a member of the closed data-type lattice. Implementations are
// comparable by value (no pointer identity required) so that plan/
// expression structural equality can compare Types with ==/reflect.
type Type interface {
	fmt.Stringer
	// Name is the lattice member's name, e.g. "INTEGER", "ARRAY<STRING>".
	Name() string
	// Equals reports whether o is the same lattice member (composite
	// types compare element/key/value/field types recursively).
	Equals(o Type) bool
	// Zero is this type's default value (§4.2 default_value).
	Zero() interface{}
	// Convert coerces v to this type's Go representation, or fails with
	// ErrCastFailed.
	Convert(v interface{}) (interface{}, error)
	// Compare returns a negative number, zero, or a positive number
	// comparing two non-nil values of this type. Comparing with a nil is the caller's responsibility (three-
	// valued logic lives in the expression layer, not here).
	Compare(a, b interface{}) (int, error)
}

// promotionRank orders the numeric primitives per spec.md §3.3:
// Byte ≺ Short ≺ Integer ≺ Long ≺ Float ≺ Double ≺ Decimal.
var promotionRank = map[string]int{
	byteTypeName:    0,
	shortTypeName:   1,
	integerTypeName: 2,
	longTypeName:    3,
	floatTypeName:   4,
	doubleTypeName:  5,
	decimalTypeName: 6,
}

// IsNumeric reports whether t is one of the numeric primitives or Decimal.
func IsNumeric(t Type) bool {
	_, ok := promotionRank[t.Name()]
	return ok
}

// IsComparable reports whether two values of type t can be ordered by
// Compare. Every lattice member except composites is comparable; String
// and Binary compare lexicographically, Boolean compares false < true.
func IsComparable(t Type) bool {
	switch t.(type) {
	case *ArrayType, *MapType, *StructType:
		return false
	default:
		return true
	}
}

// Widen returns the least upper bound of t1 and t2 in the numeric
// promotion lattice, or ErrIncompatibleTypes if neither is numeric or
// they are unrelated non-numeric types that nonetheless differ.
func Widen(t1, t2 Type) (Type, error) {
	if t1.Equals(t2) {
		return t1, nil
	}

	r1, ok1 := promotionRank[t1.Name()]
	r2, ok2 := promotionRank[t2.Name()]
	if ok1 && ok2 {
		if r1 >= r2 {
			return t1, nil
		}
		return t2, nil
	}

	if t1.Name() == NullTypeName {
		return t2, nil
	}
	if t2.Name() == NullTypeName {
		return t1, nil
	}

	return nil, ErrIncompatibleTypes.New(t1, t2)
}

// NullableJoin computes the nullability of a column on the non-preserving
// side of an outer join (spec.md §3.4): an outer join always makes the
// other side's columns nullable, regardless of their original
// nullability.
func NullableJoin(nullable bool, outer bool) bool {
	return nullable || outer
}

// DefaultValue returns t's zero value; an alias for Type.Zero kept for
// readability at call sites that don't already have a Type value in hand.
func DefaultValue(t Type) interface{} {
	return t.Zero()
}
