package plan

import (
	"github.com/relcore/queryengine/sql"
	"github.com/relcore/queryengine/sql/expression"
)

// UnresolvedRelation is a bare table-name reference as written by a
// caller building an unresolved plan. The resolve-relations analyzer
// batch (§4.5 step 2) looks the name up in the sql.Catalog and replaces
// it with a Relation carrying freshly minted AttributeReferences.
type UnresolvedRelation struct {
	LeafNode
	RelationName string
}

// NewUnresolvedRelation constructs a bare table-name reference.
func NewUnresolvedRelation(name string) *UnresolvedRelation {
	return &UnresolvedRelation{RelationName: name}
}

func (r *UnresolvedRelation) Resolved() bool  { return false }
func (r *UnresolvedRelation) Name() string    { return r.RelationName }
func (r *UnresolvedRelation) String() string  { return r.RelationName }
func (r *UnresolvedRelation) Schema() sql.Schema { return nil }

func (r *UnresolvedRelation) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 0 {
		return nil, sql.ErrTreeShapeMismatch.New(r, len(children), 0)
	}
	return r, nil
}

// Relation is a resolved base-table reference: a list of freshly minted
// AttributeReferences, one per catalog column, and an opaque catalog
// Handle the physical planner's TableScan strategy turns into a scan
// leaf (§3.2, §6.2). Carrying the References themselves (not just a
// Schema of Columns) is what lets every expression built downstream
// refer back to a specific relation column by AttributeID rather than by
// name (§3.2's "names alone are never authoritative").
type Relation struct {
	LeafNode
	RelationName  string
	Attrs         []*expression.AttributeReference
	Handle        interface{}
	PartitionKeys []string
}

// NewRelation mints a fresh AttributeReference per column of schema and
// constructs a resolved base-table reference; this is what the
// resolve-relations analyzer batch calls on a successful catalog lookup.
func NewRelation(name string, schema sql.Schema, handle interface{}) *Relation {
	attrs := make([]*expression.AttributeReference, len(schema))
	for i, c := range schema {
		attrs[i] = expression.NewAttributeReference(name+"."+c.Name, c.Name, c.Type, c.Nullable)
	}
	return &Relation{RelationName: name, Attrs: attrs, Handle: handle}
}

// WithPartitionKeys returns a copy of r carrying the catalog's partition
// key column names, letting the physical planner's PartitionPruning
// strategy (§4.7 strategy 3) recognize it.
func (r *Relation) WithPartitionKeys(keys []string) *Relation {
	nr := *r
	nr.PartitionKeys = keys
	return &nr
}

func (r *Relation) Resolved() bool { return true }
func (r *Relation) Name() string   { return r.RelationName }
func (r *Relation) String() string { return r.RelationName }

func (r *Relation) Schema() sql.Schema {
	schema := make(sql.Schema, len(r.Attrs))
	for i, a := range r.Attrs {
		schema[i] = &sql.Column{Name: a.Name(), Type: a.Type(), Nullable: a.IsNullable(), Source: r.RelationName}
	}
	return schema
}

// Output returns this relation's column references in order, the base
// case every other operator's Output computation bottoms out at.
func (r *Relation) Output() []*expression.AttributeReference { return r.Attrs }

func (r *Relation) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 0 {
		return nil, sql.ErrTreeShapeMismatch.New(r, len(children), 0)
	}
	return r, nil
}

// Subquery wraps a nested plan and gives it a name, the way a derived
// table `(SELECT ...) AS alias` appears in a FROM clause. The
// substitute-subqueries analyzer batch (§4.5 step 1) inlines it before
// reference resolution runs, discarding the alias with the wrapper.
type Subquery struct {
	UnaryNode
	Alias string
}

// NewSubquery constructs a named derived-table wrapper.
func NewSubquery(child sql.Node, alias string) *Subquery {
	return &Subquery{UnaryNode: UnaryNode{Child: child}, Alias: alias}
}

func (s *Subquery) Name() string       { return s.Alias }
func (s *Subquery) String() string     { return "(" + s.Child.String() + ") AS " + s.Alias }
func (s *Subquery) Schema() sql.Schema { return s.Child.Schema() }

// Output passes the child's output references through unchanged; the
// Alias only affects how outer references qualify a column by name, not
// the underlying AttributeID.
func (s *Subquery) Output() []*expression.AttributeReference { return childOutput(s.Child) }

func (s *Subquery) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrTreeShapeMismatch.New(s, len(children), 1)
	}
	ns := *s
	ns.Child = children[0]
	return &ns, nil
}
