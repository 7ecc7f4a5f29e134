package sql

import (
	"sync/atomic"

	"github.com/relcore/queryengine/sql/types"
)

// Nameable is implemented by nodes and expressions that carry a name.
type Nameable interface {
	Name() string
}

// Tableable is implemented by expressions qualified by a relation name.
type Tableable interface {
	Table() string
}

// Resolvable reports whether a node or expression still contains
// placeholders (Unresolved*, Star) that the analyzer must replace.
type Resolvable interface {
	Resolved() bool
}

// Node is a node of the logical (or physical) plan tree: the operator
// family of the tree kernel described by C1. Every Node is immutable;
// WithChildren returns a new value rather than mutating in place.
type Node interface {
	Resolvable
	// String renders the node for diagnostics and structural-equality
	// error messages.
	String() string
	// Schema is this node's output shape. Calling Schema on an unresolved
	// node is undefined; callers should check Resolved first.
	Schema() Schema
	// Children returns this node's direct children, in order.
	Children() []Node
	// WithChildren returns a copy of this node with its children replaced.
	// len(children) must equal len(Children()) or it returns
	// ErrTreeShapeMismatch.
	WithChildren(children ...Node) (Node, error)
}

// Expressioner is implemented by Nodes that carry their own expressions
// (Project's projections, Filter's predicate, Aggregate's grouping and
// aggregate expressions, ...) separately from their child Nodes.
type Expressioner interface {
	Expressions() []Expression
	WithExpressions(exprs ...Expression) (Node, error)
}

// Expression is a node of the expression tree: the expression family of
// the tree kernel described by C1.
type Expression interface {
	Resolvable
	String() string
	// Type is this expression's data type. Calling Type on an unresolved
	// expression is undefined.
	Type() types.Type
	// IsNullable conservatively reports whether Eval may return nil.
	IsNullable() bool
	// Eval evaluates this expression against row under ctx.
	Eval(ctx *Context, row Row) (interface{}, error)
	Children() []Expression
	WithChildren(children ...Expression) (Expression, error)
}

// AttributeID uniquely identifies a resolved column. Two AttributeIDs
// compare equal iff they were issued by the same increment of the
// process-wide counter; names alone are never authoritative (§3.2).
type AttributeID uint64

var attributeIDCounter uint64

// NewAttributeID issues the next globally unique attribute id. It is the
// only mutable global state in the core: a monotonic, thread-safe counter.
func NewAttributeID() AttributeID {
	return AttributeID(atomic.AddUint64(&attributeIDCounter, 1))
}
