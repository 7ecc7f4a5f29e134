package expression

import (
	"fmt"

	"github.com/relcore/queryengine/sql"
	"github.com/relcore/queryengine/sql/types"
)

// UnresolvedAttribute is a bare column reference as written by a caller
// building an unresolved plan: a qualifier (possibly empty) and a name,
// with no type or attribute id until the analyzer resolves it (§3.2,
// §4.3).
type UnresolvedAttribute struct {
	Qualifier string
	ColName   string
}

// NewUnresolvedAttribute constructs an unqualified column reference.
func NewUnresolvedAttribute(name string) *UnresolvedAttribute {
	return &UnresolvedAttribute{ColName: name}
}

// NewUnresolvedQualifiedAttribute constructs a relation-qualified column
// reference, e.g. "orders.id".
func NewUnresolvedQualifiedAttribute(qualifier, name string) *UnresolvedAttribute {
	return &UnresolvedAttribute{Qualifier: qualifier, ColName: name}
}

func (a *UnresolvedAttribute) Resolved() bool    { return false }
func (a *UnresolvedAttribute) Name() string      { return a.ColName }
func (a *UnresolvedAttribute) Table() string     { return a.Qualifier }
func (a *UnresolvedAttribute) IsNullable() bool  { return true }
func (a *UnresolvedAttribute) Children() []sql.Expression { return nil }

func (a *UnresolvedAttribute) Type() types.Type {
	panic("UnresolvedAttribute has no type until resolved")
}

func (a *UnresolvedAttribute) String() string {
	if a.Qualifier == "" {
		return a.ColName
	}
	return fmt.Sprintf("%s.%s", a.Qualifier, a.ColName)
}

func (a *UnresolvedAttribute) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	return nil, sql.ErrUnresolvedAttribute.New(a.String())
}

func (a *UnresolvedAttribute) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 0 {
		return nil, sql.ErrTreeShapeMismatch.New(a, len(children), 0)
	}
	return a, nil
}

// AttributeReference is a resolved column: a name carried for display
// purposes plus the globally unique AttributeID that is the sole basis
// for equality and lookup (§3.2). Analyzer-produced, never constructed
// directly by plan builders.
type AttributeReference struct {
	QualifiedName string
	ColName       string
	Typ           types.Type
	Nullable      bool
	ID            sql.AttributeID
}

// NewAttributeReference mints a brand-new resolved attribute with a
// fresh AttributeID, the way plan.NewRelation does for each column of a
// relation the analyzer's resolve-relations batch looks up.
func NewAttributeReference(qualifiedName, name string, t types.Type, nullable bool) *AttributeReference {
	return &AttributeReference{
		QualifiedName: qualifiedName,
		ColName:       name,
		Typ:           t,
		Nullable:      nullable,
		ID:            sql.NewAttributeID(),
	}
}

// WithID returns a copy of a carrying a specific AttributeID, used when
// re-binding a reference to an attribute minted elsewhere (e.g. resolving
// a reference to a relation's existing output column instead of minting
// a new one).
func (a *AttributeReference) WithID(id sql.AttributeID) *AttributeReference {
	na := *a
	na.ID = id
	return &na
}

// WithNullable returns a copy of a with nullability overridden, used by
// outer joins to mark the non-preserved side's attributes nullable
// (§3.3's NullableJoin rule applied at the plan level).
func (a *AttributeReference) WithNullable(nullable bool) *AttributeReference {
	na := *a
	na.Nullable = nullable
	return &na
}

func (a *AttributeReference) Resolved() bool   { return true }
func (a *AttributeReference) Name() string     { return a.ColName }
func (a *AttributeReference) Type() types.Type { return a.Typ }
func (a *AttributeReference) IsNullable() bool { return a.Nullable }
func (a *AttributeReference) Children() []sql.Expression { return nil }

func (a *AttributeReference) String() string {
	if a.QualifiedName == "" {
		return a.ColName
	}
	return a.QualifiedName
}

// Eval always returns ErrUnsupportedOperation: AttributeReference must be
// lowered to a BoundReference by the physical planner before any row is
// evaluated (§4.3).
func (a *AttributeReference) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	return nil, sql.ErrUnsupportedOperation.New("AttributeReference.Eval: must be bound first")
}

func (a *AttributeReference) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 0 {
		return nil, sql.ErrTreeShapeMismatch.New(a, len(children), 0)
	}
	return a, nil
}

// Equal reports whether two AttributeReferences name the same attribute,
// by id alone — names are never authoritative (§3.2).
func (a *AttributeReference) Equal(o sql.Expression) bool {
	other, ok := o.(*AttributeReference)
	return ok && a.ID == other.ID
}

// BoundReference is a resolved attribute lowered to a physical tuple
// position: the index of the source tuple in a (possibly joined) row and
// the field offset within that tuple (§4.3, §8 invariant 7). Only the
// physical planner constructs these.
type BoundReference struct {
	ColName      string
	Typ          types.Type
	Nullable     bool
	TupleOrdinal int
	FieldOrdinal int
}

// NewBoundReference constructs a reference bound to a specific
// tuple/field ordinal pair.
func NewBoundReference(name string, t types.Type, nullable bool, tupleOrdinal, fieldOrdinal int) *BoundReference {
	return &BoundReference{
		ColName:      name,
		Typ:          t,
		Nullable:     nullable,
		TupleOrdinal: tupleOrdinal,
		FieldOrdinal: fieldOrdinal,
	}
}

func (b *BoundReference) Resolved() bool   { return true }
func (b *BoundReference) Name() string     { return b.ColName }
func (b *BoundReference) Type() types.Type { return b.Typ }
func (b *BoundReference) IsNullable() bool { return b.Nullable }
func (b *BoundReference) Children() []sql.Expression { return nil }

func (b *BoundReference) String() string {
	return fmt.Sprintf("#%d.%d", b.TupleOrdinal, b.FieldOrdinal)
}

// Eval indexes into row at FieldOrdinal. Multi-tuple (joined) rows are
// flattened by the row builder before evaluation, so TupleOrdinal is only
// consulted when building the bound tree, not at Eval time.
func (b *BoundReference) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	if b.FieldOrdinal < 0 || b.FieldOrdinal >= len(row) {
		return nil, sql.ErrIndexOutOfBounds.New(b.FieldOrdinal, len(row))
	}
	return row[b.FieldOrdinal], nil
}

func (b *BoundReference) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 0 {
		return nil, sql.ErrTreeShapeMismatch.New(b, len(children), 0)
	}
	return b, nil
}
