package transform

import (
	"reflect"

	"github.com/relcore/queryengine/sql"
)

// ExprFunc is a partial function from an Expression to its replacement.
type ExprFunc func(sql.Expression) (sql.Expression, TreeIdentity, error)

// Expr applies f post-order over an expression tree: children first,
// then f on the node with its (possibly replaced) children in place.
func Expr(e sql.Expression, f ExprFunc) (sql.Expression, TreeIdentity, error) {
	children := e.Children()
	if len(children) == 0 {
		return f(e)
	}

	newChildren := make([]sql.Expression, len(children))
	allSame := true
	for i, c := range children {
		nc, same, err := Expr(c, f)
		if err != nil {
			return nil, SameTree, err
		}
		newChildren[i] = nc
		if same == NewTree {
			allSame = false
		}
	}

	cur := e
	sameC := SameTree
	if !allSame {
		sameC = NewTree
		var err error
		cur, err = e.WithChildren(newChildren...)
		if err != nil {
			return nil, SameTree, err
		}
	}

	result, sameN, err := f(cur)
	if err != nil {
		return nil, SameTree, err
	}
	return result, sameC && sameN, nil
}

// ExprDown applies f pre-order over an expression tree.
func ExprDown(e sql.Expression, f ExprFunc) (sql.Expression, TreeIdentity, error) {
	cur, curSame, err := f(e)
	if err != nil {
		return nil, SameTree, err
	}

	children := cur.Children()
	if len(children) == 0 {
		return cur, curSame, nil
	}

	newChildren := make([]sql.Expression, len(children))
	allSame := true
	for i, c := range children {
		nc, same, err := ExprDown(c, f)
		if err != nil {
			return nil, SameTree, err
		}
		newChildren[i] = nc
		if same == NewTree {
			allSame = false
		}
	}

	if allSame {
		return cur, curSame, nil
	}
	result, err := cur.WithChildren(newChildren...)
	if err != nil {
		return nil, SameTree, err
	}
	return result, NewTree, nil
}

// CollectExpr gathers pf(x) for every subexpression of e, pre-order.
func CollectExpr[T any](e sql.Expression, pf func(sql.Expression) (T, bool)) []T {
	var out []T
	var walk func(sql.Expression)
	walk = func(x sql.Expression) {
		if v, ok := pf(x); ok {
			out = append(out, v)
		}
		for _, c := range x.Children() {
			walk(c)
		}
	}
	walk(e)
	return out
}

// ForeachExpr visits every subexpression of e, pre-order, for side
// effects.
func ForeachExpr(e sql.Expression, f func(sql.Expression)) {
	f(e)
	for _, c := range e.Children() {
		ForeachExpr(c, f)
	}
}

// TransformExpressionsInNode rewrites every expression carried by a node
// (as reported by n's Expressioner facet, if any) using f, rebuilding the
// node only if something actually changed. Used pervasively by the
// analyzer/optimizer rule families to rewrite Project/Filter/Aggregate
// expression lists without hand-unwrapping each operator.
func TransformExpressionsInNode(n sql.Node, f ExprFunc) (sql.Node, TreeIdentity, error) {
	en, ok := n.(sql.Expressioner)
	if !ok {
		return n, SameTree, nil
	}

	exprs := en.Expressions()
	if len(exprs) == 0 {
		return n, SameTree, nil
	}

	newExprs := make([]sql.Expression, len(exprs))
	allSame := true
	for i, e := range exprs {
		ne, same, err := Expr(e, f)
		if err != nil {
			return nil, SameTree, err
		}
		newExprs[i] = ne
		if same == NewTree {
			allSame = false
		}
	}

	if allSame {
		return n, SameTree, nil
	}
	newNode, err := en.WithExpressions(newExprs...)
	if err != nil {
		return nil, SameTree, err
	}
	return newNode, NewTree, nil
}

type exprEqualer interface {
	Equal(sql.Expression) bool
}

// ExprsEqual reports whether a and b are the same expression by value.
func ExprsEqual(a, b sql.Expression) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if e, ok := a.(exprEqualer); ok {
		return e.Equal(b)
	}
	return reflect.DeepEqual(a, b)
}
