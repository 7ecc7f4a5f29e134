package sql

import "github.com/relcore/queryengine/sql/types"

// Column is a named, typed component of a Schema. Unlike an Attribute, a
// Column carries no identifier: it describes a position in a row shape, not
// a specific resolved reference to one.
type Column struct {
	// Name of the column.
	Name string
	// Type of the column's values.
	Type types.Type
	// Nullable reports whether the column may hold a null value.
	Nullable bool
	// Source is the name (or alias) of the relation this column came from.
	Source string
}

// Equals reports whether two columns describe the same shape.
func (c *Column) Equals(o *Column) bool {
	return c.Name == o.Name &&
		c.Source == o.Source &&
		c.Nullable == o.Nullable &&
		c.Type.Equals(o.Type)
}

// Schema is the ordered shape of a Node's output.
type Schema []*Column

// Equals reports whether two schemas have the same shape, in order.
func (s Schema) Equals(o Schema) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if !s[i].Equals(o[i]) {
			return false
		}
	}
	return true
}

// IndexOf returns the position of the named column sourced from source, or
// -1 if none matches.
func (s Schema) IndexOf(name, source string) int {
	for i, c := range s {
		if c.Name == name && c.Source == source {
			return i
		}
	}
	return -1
}
