package optimizer

import (
	"github.com/relcore/queryengine/sql"
	"github.com/relcore/queryengine/sql/expression"
	"github.com/relcore/queryengine/sql/plan"
	"github.com/relcore/queryengine/sql/transform"
)

// combineFiltersRule merges Filter(Filter(child, inner), outer) into a
// single Filter(child, outer AND inner) (§4.6). Collapsing two Filter
// nodes into one strictly reduces subtree size, so repeated application
// terminates.
var combineFiltersRule = func(ctx *sql.Context, n sql.Node) (sql.Node, error) {
	result, _, err := transform.Node(n, func(node sql.Node) (sql.Node, transform.TreeIdentity, error) {
		outer, ok := node.(*plan.Filter)
		if !ok {
			return node, transform.SameTree, nil
		}
		inner, ok := outer.Child.(*plan.Filter)
		if !ok {
			return node, transform.SameTree, nil
		}
		combined := expression.NewAnd(outer.Predicate, inner.Predicate)
		return plan.NewFilter(combined, inner.Child), transform.NewTree, nil
	})
	return result, err
}
