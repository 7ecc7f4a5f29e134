package planner

import (
	"github.com/relcore/queryengine/sql"
	"github.com/relcore/queryengine/sql/expression"
	"github.com/relcore/queryengine/sql/plan"
	"github.com/relcore/queryengine/sql/transform"
)

type ordinal struct {
	tuple, field int
}

// attributePositions flattens children's Output() into one combined row
// shape: field is the position in that flattened row, tuple is which
// child it came from. A physical operator with N logical children (a
// join's two sides, most operators' one) binds against exactly this
// layout, matching the row each rowexec iterator actually produces
// (§4.3, §4.9: "multi-tuple rows are flattened by the row builder before
// evaluation").
func attributePositions(children ...sql.Node) map[sql.AttributeID]ordinal {
	positions := make(map[sql.AttributeID]ordinal)
	field := 0
	for tupleIdx, c := range children {
		o, ok := c.(plan.Outputter)
		if !ok {
			continue
		}
		for _, ref := range o.Output() {
			positions[ref.ID] = ordinal{tuple: tupleIdx, field: field}
			field++
		}
	}
	return positions
}

// bindExpression rewrites every AttributeReference reachable in e into a
// BoundReference positioned against children's flattened output; it is
// the only place AttributeReference identity is resolved down to a
// concrete row position (§4.3).
func bindExpression(e sql.Expression, children ...sql.Node) (sql.Expression, error) {
	positions := attributePositions(children...)
	bound, _, err := transform.Expr(e, func(ex sql.Expression) (sql.Expression, transform.TreeIdentity, error) {
		ref, ok := ex.(*expression.AttributeReference)
		if !ok {
			return ex, transform.SameTree, nil
		}
		pos, ok := positions[ref.ID]
		if !ok {
			return nil, transform.SameTree, sql.ErrUnresolvedAttribute.New(ref.String())
		}
		return expression.NewBoundReference(ref.Name(), ref.Type(), ref.IsNullable(), pos.tuple, pos.field), transform.NewTree, nil
	})
	return bound, err
}

// bindExpressions binds every expression in exprs against children.
func bindExpressions(exprs []sql.Expression, children ...sql.Node) ([]sql.Expression, error) {
	out := make([]sql.Expression, len(exprs))
	for i, e := range exprs {
		b, err := bindExpression(e, children...)
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}
