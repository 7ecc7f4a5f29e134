package analyzer

import (
	"github.com/relcore/queryengine/sql"
	"github.com/relcore/queryengine/sql/expression"
	"github.com/relcore/queryengine/sql/plan"
	"github.com/relcore/queryengine/sql/transform"
	"github.com/relcore/queryengine/sql/types"
)

// castIfNeeded wraps e in a Cast to target unless it already has that
// type, so repeated passes of the FixedPoint batch this rule runs in
// converge instead of wrapping Cast(Cast(Cast(...))) indefinitely.
func castIfNeeded(e sql.Expression, target types.Type) sql.Expression {
	if e.Type().Equals(target) {
		return e
	}
	return expression.NewCast(e, target)
}

// coerceExpressionTypesRule widens Arithmetic and Comparison operands to
// their common type via Cast, following §4.5 step 6's numeric-lattice
// coercion. It runs inside a FixedPoint batch: each pass only inserts a
// Cast where one isn't already present, so the batch converges as soon
// as every binary numeric expression's operands match.
var coerceExpressionTypesRule = func(ctx *sql.Context, n sql.Node) (sql.Node, error) {
	result, _, err := transform.Node(n, func(node sql.Node) (sql.Node, transform.TreeIdentity, error) {
		if _, ok := node.(sql.Expressioner); !ok {
			return node, transform.SameTree, nil
		}
		return transform.TransformExpressionsInNode(node, coerceOneExpr)
	})
	return result, err
}

func coerceOneExpr(e sql.Expression) (sql.Expression, transform.TreeIdentity, error) {
	switch ex := e.(type) {
	case *expression.Arithmetic:
		lt, rt := ex.Left.Type(), ex.Right.Type()
		if lt.Equals(rt) || !types.IsNumeric(lt) || !types.IsNumeric(rt) {
			return e, transform.SameTree, nil
		}
		wt, err := types.Widen(lt, rt)
		if err != nil {
			return nil, transform.SameTree, err
		}
		nl, nr := castIfNeeded(ex.Left, wt), castIfNeeded(ex.Right, wt)
		rebuilt, err := ex.WithChildren(nl, nr)
		if err != nil {
			return nil, transform.SameTree, err
		}
		return rebuilt, transform.NewTree, nil
	case *expression.Comparison:
		lt, rt := ex.Left.Type(), ex.Right.Type()
		if lt.Equals(rt) || !types.IsNumeric(lt) || !types.IsNumeric(rt) {
			return e, transform.SameTree, nil
		}
		wt, err := types.Widen(lt, rt)
		if err != nil {
			return nil, transform.SameTree, err
		}
		nl, nr := castIfNeeded(ex.Left, wt), castIfNeeded(ex.Right, wt)
		rebuilt, err := ex.WithChildren(nl, nr)
		if err != nil {
			return nil, transform.SameTree, err
		}
		return rebuilt, transform.NewTree, nil
	default:
		return e, transform.SameTree, nil
	}
}

// coerceUnionTypesRule casts every column of a Union's right branch to the
// corresponding left-branch column's type, since Union deliberately
// performs no implicit cross-branch coercion on its own (§6 Union
// Non-goal) — the analyzer, not the operator, is responsible for making
// both branches line up before the planner ever sees a Union.
var coerceUnionTypesRule = func(ctx *sql.Context, n sql.Node) (sql.Node, error) {
	result, _, err := transform.Node(n, func(node sql.Node) (sql.Node, transform.TreeIdentity, error) {
		u, ok := node.(*plan.Union)
		if !ok {
			return node, transform.SameTree, nil
		}
		leftOut, rightOut := candidatesOf(u.Left), candidatesOf(u.Right)
		if len(leftOut) != len(rightOut) {
			return node, transform.SameTree, nil
		}
		projections := make([]sql.Expression, len(rightOut))
		changed := false
		for i, r := range rightOut {
			if r.Type().Equals(leftOut[i].Type()) {
				projections[i] = r
				continue
			}
			changed = true
			projections[i] = expression.NewAlias(expression.NewCast(r, leftOut[i].Type()), r.Name())
		}
		if !changed {
			return node, transform.SameTree, nil
		}
		newRight := plan.NewProject(projections, u.Right)
		rebuilt, err := u.WithChildren(u.Left, newRight)
		if err != nil {
			return nil, transform.SameTree, err
		}
		return rebuilt, transform.NewTree, nil
	})
	return result, err
}
