package optimizer

import (
	"github.com/relcore/queryengine/sql"
	"github.com/relcore/queryengine/sql/expression"
	"github.com/relcore/queryengine/sql/transform"
)

// foldConstantsRule replaces every maximally-foldable expression with a
// Literal of its evaluated value, then simplifies boolean And/Or/Not
// against a literal operand (§4.6). It runs inside a FixedPoint batch:
// each pass strictly decreases the count of non-literal nodes or leaves
// the tree unchanged, so the batch always converges.
var foldConstantsRule = func(ctx *sql.Context, n sql.Node) (sql.Node, error) {
	result, _, err := transform.Node(n, func(node sql.Node) (sql.Node, transform.TreeIdentity, error) {
		if _, ok := node.(sql.Expressioner); !ok {
			return node, transform.SameTree, nil
		}
		return transform.TransformExpressionsInNode(node, foldOneExpr(ctx))
	})
	return result, err
}

func foldOneExpr(ctx *sql.Context) transform.ExprFunc {
	return func(e sql.Expression) (sql.Expression, transform.TreeIdentity, error) {
		if simplified, changed, err := simplifyBoolean(e); err != nil {
			return nil, transform.SameTree, err
		} else if changed {
			return simplified, transform.NewTree, nil
		}

		if _, isLiteral := e.(*expression.Literal); isLiteral {
			return e, transform.SameTree, nil
		}
		if !expression.Foldable(e) {
			return e, transform.SameTree, nil
		}

		v, err := e.Eval(ctx, nil)
		if err != nil {
			return nil, transform.SameTree, err
		}
		return expression.NewLiteral(v, e.Type()), transform.NewTree, nil
	}
}

// literalBool reports e's boolean value if e is a non-null Boolean
// Literal.
func literalBool(e sql.Expression) (bool, bool) {
	lit, ok := e.(*expression.Literal)
	if !ok || lit.Value == nil {
		return false, false
	}
	b, ok := lit.Value.(bool)
	return b, ok
}

// simplifyBoolean applies the short-circuit identities §4.6 requires:
// `true AND x -> x`, `false AND x -> false` and duals for OR, plus
// double-negation elimination. It never needs to Eval anything, so it
// applies even to expressions that aren't otherwise Foldable (x need
// not itself be a literal).
func simplifyBoolean(e sql.Expression) (sql.Expression, bool, error) {
	switch ex := e.(type) {
	case *expression.And:
		if b, ok := literalBool(ex.Left); ok {
			if !b {
				return expression.NewLiteral(false, ex.Type()), true, nil
			}
			return ex.Right, true, nil
		}
		if b, ok := literalBool(ex.Right); ok {
			if !b {
				return expression.NewLiteral(false, ex.Type()), true, nil
			}
			return ex.Left, true, nil
		}
	case *expression.Or:
		if b, ok := literalBool(ex.Left); ok {
			if b {
				return expression.NewLiteral(true, ex.Type()), true, nil
			}
			return ex.Right, true, nil
		}
		if b, ok := literalBool(ex.Right); ok {
			if b {
				return expression.NewLiteral(true, ex.Type()), true, nil
			}
			return ex.Left, true, nil
		}
	case *expression.Not:
		if inner, ok := ex.Child.(*expression.Not); ok {
			return inner.Child, true, nil
		}
	}
	return e, false, nil
}
