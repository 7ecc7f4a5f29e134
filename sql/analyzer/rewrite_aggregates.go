package analyzer

import (
	"github.com/relcore/queryengine/sql"
	"github.com/relcore/queryengine/sql/expression"
	"github.com/relcore/queryengine/sql/plan"
	"github.com/relcore/queryengine/sql/transform"
)

// validateAggregateRule rejects a SelectedExprs entry that references an
// output column which is neither an aggregate nor one of the grouping
// expressions (§4.5 step 7, NonGroupingReference in §6 Supplemented
// features). An AttributeReference nested inside an Aggregation's own
// argument is exempt: it is evaluated once per input row as that
// aggregate's input, not as a bare per-group output column, so it need
// not itself be a grouping key.
var validateAggregateRule = func(ctx *sql.Context, n sql.Node) (sql.Node, error) {
	aggs := transform.Collect(n, func(node sql.Node) (*plan.Aggregate, bool) {
		agg, ok := node.(*plan.Aggregate)
		return agg, ok
	})
	for _, agg := range aggs {
		for _, e := range agg.SelectedExprs {
			if err := validateSelectedExpr(agg, e); err != nil {
				return nil, err
			}
		}
	}
	return n, nil
}

func validateSelectedExpr(agg *plan.Aggregate, e sql.Expression) error {
	if _, ok := e.(sql.Aggregation); ok {
		return nil
	}
	if agg.IsGroupingKey(e) {
		return nil
	}
	if _, ok := e.(*expression.AttributeReference); ok {
		return sql.ErrNonGroupingReference.New(e.String(), agg.String())
	}
	for _, c := range e.Children() {
		if err := validateSelectedExpr(agg, c); err != nil {
			return err
		}
	}
	return nil
}
