// Package expression implements the expression algebra (C3): literals,
// attribute references, arithmetic/comparison/logical operators, casts,
// null-handling, aggregates (in the aggregation subpackage) and
// generators, built on the UnaryExpression/BinaryExpression embeds below
// and their resolved-children bookkeeping.
package expression

import (
	"github.com/relcore/queryengine/sql"
)

// UnaryExpression is embedded by expressions with exactly one child, e.g.
// Not, IsNull, Cast.
type UnaryExpression struct {
	Child sql.Expression
}

// Children returns the single child.
func (e *UnaryExpression) Children() []sql.Expression {
	return []sql.Expression{e.Child}
}

// Resolved reports whether the child is resolved.
func (e *UnaryExpression) Resolved() bool {
	return e.Child.Resolved()
}

// IsNullable defers to the child by default; most unary expressions that
// propagate null override this only when they don't.
func (e *UnaryExpression) IsNullable() bool {
	return e.Child.IsNullable()
}

// BinaryExpression is embedded by expressions with exactly two children,
// e.g. Arithmetic and the comparisons.
type BinaryExpression struct {
	Left, Right sql.Expression
}

// Children returns [Left, Right].
func (e *BinaryExpression) Children() []sql.Expression {
	return []sql.Expression{e.Left, e.Right}
}

// Resolved reports whether both operands are resolved.
func (e *BinaryExpression) Resolved() bool {
	return e.Left.Resolved() && e.Right.Resolved()
}

// IsNullable reports whether either operand may be null, the default
// null-propagation rule for arithmetic and comparisons.
func (e *BinaryExpression) IsNullable() bool {
	return e.Left.IsNullable() || e.Right.IsNullable()
}

// ExpressionsResolved reports whether every expression in exprs is
// resolved; used by operators to decide Resolved() over their own
// expression lists.
func ExpressionsResolved(exprs ...sql.Expression) bool {
	for _, e := range exprs {
		if !e.Resolved() {
			return false
		}
	}
	return true
}

// nullableAware is implemented by expressions needing to override the
// embed's conservative IsNullable default (e.g. Coalesce, IsNull).
type nullableAware interface {
	IsNullable() bool
}

var _ nullableAware = (*UnaryExpression)(nil)
var _ nullableAware = (*BinaryExpression)(nil)

// Foldable reports whether e can be evaluated at analysis time without a
// row: every leaf is a Literal and no descendant is nondeterministic
// (Rand is the sole nondeterministic builtin, §4.11).
func Foldable(e sql.Expression) bool {
	if !e.Resolved() {
		return false
	}
	if nd, ok := e.(interface{ IsNondeterministic() bool }); ok && nd.IsNondeterministic() {
		return false
	}
	children := e.Children()
	if len(children) == 0 {
		_, isLiteral := e.(*Literal)
		return isLiteral
	}
	for _, c := range children {
		if !Foldable(c) {
			return false
		}
	}
	return true
}

// References collects every resolved AttributeReference reachable from e.
func References(e sql.Expression) []*AttributeReference {
	var out []*AttributeReference
	var walk func(sql.Expression)
	walk = func(x sql.Expression) {
		if ar, ok := x.(*AttributeReference); ok {
			out = append(out, ar)
		}
		for _, c := range x.Children() {
			walk(c)
		}
	}
	walk(e)
	return out
}
