// Package optimizer implements the semantics-preserving rewrite batches
// of §4.6 (C7): eliminate subqueries, constant folding (including
// boolean-literal short-circuit simplification), combine adjacent
// filters, and simplify no-op casts, reusing the C5 rule.Executor the
// analyzer already runs on, over the resolved plan the analyzer hands
// off.
package optimizer

import (
	"github.com/relcore/queryengine/sql"
	"github.com/relcore/queryengine/sql/plan"
	"github.com/relcore/queryengine/sql/transform"
)

// eliminateSubqueriesRule replaces any surviving Subquery(_, child) with
// child. The analyzer's substitute-subqueries batch already does this
// during analysis (§4.5 step 1); this rule is the optimizer's own
// defense so a plan built directly against the optimizer (bypassing
// analysis, e.g. a hand-built test plan) still normalizes away the
// wrapper, per §4.6's first listed rewrite.
var eliminateSubqueriesRule = func(ctx *sql.Context, n sql.Node) (sql.Node, error) {
	result, _, err := transform.Node(n, func(node sql.Node) (sql.Node, transform.TreeIdentity, error) {
		sq, ok := node.(*plan.Subquery)
		if !ok {
			return node, transform.SameTree, nil
		}
		return sq.Child, transform.NewTree, nil
	})
	return result, err
}
