package analyzer

import (
	"github.com/relcore/queryengine/sql"
	"github.com/relcore/queryengine/sql/plan"
	"github.com/relcore/queryengine/sql/transform"
)

// substituteSubqueriesRule unwraps every Subquery node into its child,
// dropping the alias wrapper (§4.5 step 1). It runs in the first batch,
// before reference resolution, and does not rewrite the child's column
// qualifiers: afterwards each column keeps the qualifier of its
// underlying relation, so a reference qualified by the Subquery's alias
// does not match it.
var substituteSubqueriesRule = func(ctx *sql.Context, n sql.Node) (sql.Node, error) {
	result, _, err := transform.Node(n, func(node sql.Node) (sql.Node, transform.TreeIdentity, error) {
		sq, ok := node.(*plan.Subquery)
		if !ok {
			return node, transform.SameTree, nil
		}
		return sq.Child, transform.NewTree, nil
	})
	return result, err
}

// lowerCrossJoinsRule rewrites every CrossJoin into the equivalent InnerJoin
// with a literal-true condition, so every later batch (type coercion,
// aggregate rewrite) and the planner only ever see the four Join types
// (§6 CrossJoin sugar).
var lowerCrossJoinsRule = func(ctx *sql.Context, n sql.Node) (sql.Node, error) {
	result, _, err := transform.Node(n, func(node sql.Node) (sql.Node, transform.TreeIdentity, error) {
		cj, ok := node.(*plan.CrossJoin)
		if !ok {
			return node, transform.SameTree, nil
		}
		return cj.AsJoin(), transform.NewTree, nil
	})
	return result, err
}
