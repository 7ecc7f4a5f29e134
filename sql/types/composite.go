package types

import (
	"fmt"
	"reflect"
)

// ArrayType is the Array(element) lattice member.
type ArrayType struct {
	Element         Type
	ElementNullable bool
}

// NewArrayType constructs an Array(element) type.
func NewArrayType(element Type, elementNullable bool) *ArrayType {
	return &ArrayType{Element: element, ElementNullable: elementNullable}
}

func (t *ArrayType) Name() string   { return fmt.Sprintf("ARRAY<%s>", t.Element.Name()) }
func (t *ArrayType) String() string { return t.Name() }

func (t *ArrayType) Equals(o Type) bool {
	other, ok := o.(*ArrayType)
	return ok && t.ElementNullable == other.ElementNullable && t.Element.Equals(other.Element)
}

func (t *ArrayType) Zero() interface{} { return []interface{}(nil) }

func (t *ArrayType) Convert(v interface{}) (interface{}, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return nil, ErrCastFailed.New(v, v, t.Name())
	}
	out := make([]interface{}, rv.Len())
	for i := range out {
		elem := rv.Index(i).Interface()
		if elem == nil {
			out[i] = nil
			continue
		}
		c, err := t.Element.Convert(elem)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

func (t *ArrayType) Compare(a, b interface{}) (int, error) {
	av, bv := a.([]interface{}), b.([]interface{})
	for i := 0; i < len(av) && i < len(bv); i++ {
		c, err := t.Element.Compare(av[i], bv[i])
		if err != nil {
			return 0, err
		}
		if c != 0 {
			return c, nil
		}
	}
	return len(av) - len(bv), nil
}

// MapType is the Map(key, value) lattice member.
type MapType struct {
	Key           Type
	Value         Type
	ValueNullable bool
}

// NewMapType constructs a Map(key, value) type.
func NewMapType(key, value Type, valueNullable bool) *MapType {
	return &MapType{Key: key, Value: value, ValueNullable: valueNullable}
}

func (t *MapType) Name() string {
	return fmt.Sprintf("MAP<%s,%s>", t.Key.Name(), t.Value.Name())
}
func (t *MapType) String() string { return t.Name() }

func (t *MapType) Equals(o Type) bool {
	other, ok := o.(*MapType)
	return ok && t.ValueNullable == other.ValueNullable &&
		t.Key.Equals(other.Key) && t.Value.Equals(other.Value)
}

func (t *MapType) Zero() interface{} { return map[interface{}]interface{}(nil) }

func (t *MapType) Convert(v interface{}) (interface{}, error) {
	m, ok := v.(map[interface{}]interface{})
	if !ok {
		return nil, ErrCastFailed.New(v, v, t.Name())
	}
	return m, nil
}

func (t *MapType) Compare(interface{}, interface{}) (int, error) {
	return 0, ErrCastFailed.New("map", "map", "maps are not orderable")
}

// StructField names and types one field of a StructType.
type StructField struct {
	Name     string
	Type     Type
	Nullable bool
}

// StructType is the Struct(field*) lattice member.
type StructType struct {
	Fields []StructField
}

// NewStructType constructs a Struct(field*) type.
func NewStructType(fields ...StructField) *StructType {
	return &StructType{Fields: fields}
}

func (t *StructType) Name() string {
	s := "STRUCT<"
	for i, f := range t.Fields {
		if i > 0 {
			s += ","
		}
		s += f.Name + ":" + f.Type.Name()
	}
	return s + ">"
}
func (t *StructType) String() string { return t.Name() }

func (t *StructType) Equals(o Type) bool {
	other, ok := o.(*StructType)
	if !ok || len(t.Fields) != len(other.Fields) {
		return false
	}
	for i, f := range t.Fields {
		of := other.Fields[i]
		if f.Name != of.Name || f.Nullable != of.Nullable || !f.Type.Equals(of.Type) {
			return false
		}
	}
	return true
}

func (t *StructType) Zero() interface{} { return map[string]interface{}(nil) }

func (t *StructType) Convert(v interface{}) (interface{}, error) {
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, ErrCastFailed.New(v, v, t.Name())
	}
	return m, nil
}

func (t *StructType) Compare(interface{}, interface{}) (int, error) {
	return 0, ErrCastFailed.New("struct", "struct", "structs are not orderable")
}
