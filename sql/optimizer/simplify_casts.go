package optimizer

import (
	"github.com/relcore/queryengine/sql"
	"github.com/relcore/queryengine/sql/expression"
	"github.com/relcore/queryengine/sql/transform"
)

// simplifyCastsRule drops a Cast whose child already has the target
// type: Cast(x, T) -> x when x.Type().Equals(T) (§4.6). Dropping a node
// strictly reduces subtree size.
var simplifyCastsRule = func(ctx *sql.Context, n sql.Node) (sql.Node, error) {
	result, _, err := transform.Node(n, func(node sql.Node) (sql.Node, transform.TreeIdentity, error) {
		if _, ok := node.(sql.Expressioner); !ok {
			return node, transform.SameTree, nil
		}
		return transform.TransformExpressionsInNode(node, simplifyOneCast)
	})
	return result, err
}

func simplifyOneCast(e sql.Expression) (sql.Expression, transform.TreeIdentity, error) {
	cast, ok := e.(*expression.Cast)
	if !ok {
		return e, transform.SameTree, nil
	}
	if !cast.Child.Type().Equals(cast.Target) {
		return e, transform.SameTree, nil
	}
	return cast.Child, transform.NewTree, nil
}
