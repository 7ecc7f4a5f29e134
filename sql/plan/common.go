// Package plan implements the logical (and, once lowered, physical)
// plan operator family (C4): Relation, Project, Filter, Join, Aggregate,
// Sort, Limit/Offset, Union, Generate, InsertInto, Distinct, CrossJoin,
// Subquery.
package plan

import (
	"github.com/relcore/queryengine/sql"
	"github.com/relcore/queryengine/sql/expression"
)

// Outputter is implemented by every resolved plan operator in this
// package: it reports the AttributeReferences that make up its output,
// in order, matching Schema()'s shape but carrying attribute identity
// rather than just name/type/nullability. The analyzer and optimizer
// use Output (not Schema) whenever they need to check "does this
// expression reference a column actually produced by this subtree"
// (§3.4's references(e) ⊆ output(child(O)) invariant, §8 invariant 2).
type Outputter interface {
	Output() []*expression.AttributeReference
}

// childOutput returns n's Output() if n implements Outputter, or nil
// otherwise (true only for still-unresolved nodes, which have no stable
// output to report yet).
func childOutput(n sql.Node) []*expression.AttributeReference {
	if o, ok := n.(Outputter); ok {
		return o.Output()
	}
	return nil
}

// UnaryNode is embedded by plan operators with exactly one child.
type UnaryNode struct {
	Child sql.Node
}

// Children returns the single child.
func (n *UnaryNode) Children() []sql.Node { return []sql.Node{n.Child} }

// Resolved reports whether the child is resolved; operators that also
// carry expressions must additionally check those.
func (n *UnaryNode) Resolved() bool { return n.Child.Resolved() }

// BinaryNode is embedded by plan operators with exactly two children
// (the Join family, Union, set operators).
type BinaryNode struct {
	Left, Right sql.Node
}

// Children returns [Left, Right].
func (n *BinaryNode) Children() []sql.Node { return []sql.Node{n.Left, n.Right} }

// Resolved reports whether both children are resolved.
func (n *BinaryNode) Resolved() bool { return n.Left.Resolved() && n.Right.Resolved() }

// LeafNode is embedded by plan operators with no children (Relation,
// UnresolvedRelation).
type LeafNode struct{}

// Children returns nil.
func (LeafNode) Children() []sql.Node { return nil }
