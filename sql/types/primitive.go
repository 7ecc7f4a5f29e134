package types

import (
	"fmt"
	"strconv"

	"github.com/spf13/cast"
)

// numeric kind tags, also used as the promotionRank map keys.
const (
	byteTypeName    = "BYTE"
	shortTypeName   = "SHORT"
	integerTypeName = "INTEGER"
	longTypeName    = "LONG"
	floatTypeName   = "FLOAT"
	doubleTypeName  = "DOUBLE"
	decimalTypeName = "DECIMAL"

	// NullTypeName is the name of the Null lattice member.
	NullTypeName = "NULL"
)

// numberType implements every integral and floating-point primitive in the
// lattice. There is exactly one instance per kind; callers compare types
// with Equals, never pointer identity.
type numberType struct {
	name    string
	isFloat bool
	bits    int
	signed  bool
}

var (
	// Byte is an 8-bit signed integer.
	Byte Type = &numberType{name: byteTypeName, bits: 8, signed: true}
	// Short is a 16-bit signed integer.
	Short Type = &numberType{name: shortTypeName, bits: 16, signed: true}
	// Integer is a 32-bit signed integer.
	Integer Type = &numberType{name: integerTypeName, bits: 32, signed: true}
	// Long is a 64-bit signed integer.
	Long Type = &numberType{name: longTypeName, bits: 64, signed: true}
	// Float is a 32-bit IEEE float.
	Float Type = &numberType{name: floatTypeName, isFloat: true, bits: 32, signed: true}
	// Double is a 64-bit IEEE float.
	Double Type = &numberType{name: doubleTypeName, isFloat: true, bits: 64, signed: true}
)

func (t *numberType) Name() string   { return t.name }
func (t *numberType) String() string { return t.name }

func (t *numberType) Equals(o Type) bool {
	other, ok := o.(*numberType)
	return ok && other.name == t.name
}

func (t *numberType) Zero() interface{} {
	if t.isFloat {
		return float64(0)
	}
	return int64(0)
}

// Convert coerces v to an int64 or float64 Go representation depending on
// the receiver's kind, using spf13/cast for permissive numeric/string
// parsing.
func (t *numberType) Convert(v interface{}) (interface{}, error) {
	if t.isFloat {
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return nil, ErrCastFailed.New(v, v, t.name)
		}
		return f, nil
	}

	i, err := cast.ToInt64E(v)
	if err != nil {
		return nil, ErrCastFailed.New(v, v, t.name)
	}
	return i, nil
}

func (t *numberType) Compare(a, b interface{}) (int, error) {
	af, err := cast.ToFloat64E(a)
	if err != nil {
		return 0, ErrCastFailed.New(a, a, t.name)
	}
	bf, err := cast.ToFloat64E(b)
	if err != nil {
		return 0, ErrCastFailed.New(b, b, t.name)
	}
	switch {
	case af < bf:
		return -1, nil
	case af > bf:
		return 1, nil
	default:
		return 0, nil
	}
}

// booleanType is the Boolean lattice member. It is kept outside the
// numeric promotion chain per spec.md §3.3.
type booleanType struct{}

// Boolean is the sole instance of the Boolean type.
var Boolean Type = booleanType{}

func (booleanType) Name() string   { return "BOOLEAN" }
func (booleanType) String() string { return "BOOLEAN" }
func (booleanType) Equals(o Type) bool {
	_, ok := o.(booleanType)
	return ok
}
func (booleanType) Zero() interface{} { return false }
func (booleanType) Convert(v interface{}) (interface{}, error) {
	b, err := cast.ToBoolE(v)
	if err != nil {
		return nil, ErrCastFailed.New(v, v, "BOOLEAN")
	}
	return b, nil
}
func (booleanType) Compare(a, b interface{}) (int, error) {
	av, bv := a.(bool), b.(bool)
	if av == bv {
		return 0, nil
	}
	if !av && bv {
		return -1, nil
	}
	return 1, nil
}

// stringType is the String lattice member.
type stringType struct{}

// String is the sole instance of the String type.
var String Type = stringType{}

func (stringType) Name() string   { return "STRING" }
func (stringType) String() string { return "STRING" }
func (stringType) Equals(o Type) bool {
	_, ok := o.(stringType)
	return ok
}
func (stringType) Zero() interface{} { return "" }
func (stringType) Convert(v interface{}) (interface{}, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	case []byte:
		return string(v), nil
	default:
		s, err := cast.ToStringE(v)
		if err != nil {
			return nil, ErrCastFailed.New(v, v, "STRING")
		}
		return s, nil
	}
}
func (stringType) Compare(a, b interface{}) (int, error) {
	as, bs := a.(string), b.(string)
	switch {
	case as < bs:
		return -1, nil
	case as > bs:
		return 1, nil
	default:
		return 0, nil
	}
}

// binaryType is the Binary lattice member: a raw byte string.
type binaryType struct{}

// Binary is the sole instance of the Binary type.
var Binary Type = binaryType{}

func (binaryType) Name() string   { return "BINARY" }
func (binaryType) String() string { return "BINARY" }
func (binaryType) Equals(o Type) bool {
	_, ok := o.(binaryType)
	return ok
}
func (binaryType) Zero() interface{} { return []byte(nil) }
func (binaryType) Convert(v interface{}) (interface{}, error) {
	switch v := v.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, ErrCastFailed.New(v, v, "BINARY")
	}
}
func (binaryType) Compare(a, b interface{}) (int, error) {
	ab, bb := a.([]byte), b.([]byte)
	for i := 0; i < len(ab) && i < len(bb); i++ {
		if ab[i] != bb[i] {
			return int(ab[i]) - int(bb[i]), nil
		}
	}
	return len(ab) - len(bb), nil
}

// nullType is the Null lattice member: the type of a literal NULL before
// it's widened against a concrete peer.
type nullType struct{}

// Null is the sole instance of the Null type.
var Null Type = nullType{}

func (nullType) Name() string   { return NullTypeName }
func (nullType) String() string { return NullTypeName }
func (nullType) Equals(o Type) bool {
	_, ok := o.(nullType)
	return ok
}
func (nullType) Zero() interface{} { return nil }
func (nullType) Convert(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	return nil, ErrCastFailed.New(v, v, NullTypeName)
}
func (nullType) Compare(interface{}, interface{}) (int, error) {
	return 0, nil
}

// NumericUnaryValue returns the value 1 in t's Go representation:
// float64 for Float/Double, int64 for every other type.
func NumericUnaryValue(t Type) interface{} {
	nt, ok := t.(*numberType)
	if !ok {
		return int64(1)
	}
	if nt.isFloat {
		return float64(1)
	}
	return int64(1)
}

// IsInteger reports whether t is one of Byte/Short/Integer/Long.
func IsInteger(t Type) bool {
	nt, ok := t.(*numberType)
	return ok && !nt.isFloat
}

// IsFloat reports whether t is Float or Double.
func IsFloat(t Type) bool {
	nt, ok := t.(*numberType)
	return ok && nt.isFloat
}

// MustParseInt64 parses s as a base-10 integer, used by Cast's
// String->Integer/Long kernels when spf13/cast's looser grammar would
// accept inputs the stable cast grammar (spec.md §4.9) must reject.
func MustParseInt64(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}
