// Package aggregation implements the closed aggregate-expression family
// (§4.8): Count, Sum, Average, CountDistinct. Every aggregate implements
// the NewBuffer/Update/Merge/EvalBuffer split sql.Aggregation declares;
// Count, Sum and Average also implement sql.PartialAggregation, the
// two-phase partial/final decomposition the physical planner's
// PartialAggregation strategy relies on (§3.5, §4.7 strategy 5).
// CountDistinct does not.
package aggregation

import (
	"github.com/relcore/queryengine/sql"
)

// unaryAgg is embedded by every aggregate here: all of Count(*) aside,
// they take exactly one argument expression and optionally dedupe on it.
type unaryAgg struct {
	Arg      sql.Expression
	Distinct bool
}

func (a *unaryAgg) Resolved() bool {
	return a.Arg == nil || a.Arg.Resolved()
}

func (a *unaryAgg) Children() []sql.Expression {
	if a.Arg == nil {
		return nil
	}
	return []sql.Expression{a.Arg}
}

func (a *unaryAgg) IsNullable() bool { return true }

func distinctPrefix(distinct bool) string {
	if distinct {
		return "DISTINCT "
	}
	return ""
}
