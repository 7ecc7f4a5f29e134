package optimizer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relcore/queryengine/sql"
	"github.com/relcore/queryengine/sql/expression"
	"github.com/relcore/queryengine/sql/plan"
	"github.com/relcore/queryengine/sql/transform"
	"github.com/relcore/queryengine/sql/types"
)

func newTestOptimizer() *Optimizer {
	return NewBuilder().Build()
}

func baseRelation() sql.Node {
	return plan.NewRelation("t", sql.Schema{
		{Name: "a", Type: types.Integer, Nullable: false},
		{Name: "b", Type: types.Integer, Nullable: false},
	}, nil)
}

func TestOptimizeEliminatesSubquery(t *testing.T) {
	ctx := sql.NewEmptyContext()
	o := newTestOptimizer()

	in := plan.NewFilter(
		expression.NewLiteral(true, types.Boolean),
		plan.NewSubquery(baseRelation(), "sub"),
	)
	out, err := o.Optimize(ctx, in)
	require.NoError(t, err)

	f := out.(*plan.Filter)
	_, isSubquery := f.Child.(*plan.Subquery)
	require.False(t, isSubquery)
}

func TestOptimizeFoldsArithmeticLiterals(t *testing.T) {
	ctx := sql.NewEmptyContext()
	o := newTestOptimizer()

	sum := expression.NewAdd(
		expression.NewLiteral(int64(2), types.Integer),
		expression.NewLiteral(int64(3), types.Integer),
	)
	in := plan.NewProject([]sql.Expression{sum}, baseRelation())

	out, err := o.Optimize(ctx, in)
	require.NoError(t, err)

	p := out.(*plan.Project)
	lit, ok := p.Projections[0].(*expression.Literal)
	require.True(t, ok)
	require.Equal(t, int64(5), lit.Value)
}

func TestOptimizeShortCircuitsAndWithFalseLiteral(t *testing.T) {
	ctx := sql.NewEmptyContext()
	o := newTestOptimizer()

	pred := expression.NewAnd(
		expression.NewLiteral(false, types.Boolean),
		expression.NewUnresolvedAttribute("a"),
	)
	in := plan.NewFilter(pred, baseRelation())

	out, err := o.Optimize(ctx, in)
	require.NoError(t, err)

	f := out.(*plan.Filter)
	lit, ok := f.Predicate.(*expression.Literal)
	require.True(t, ok)
	require.Equal(t, false, lit.Value)
}

func TestOptimizeEliminatesDoubleNegation(t *testing.T) {
	ctx := sql.NewEmptyContext()
	o := newTestOptimizer()

	pred := expression.NewNot(expression.NewNot(expression.NewUnresolvedAttribute("a")))
	in := plan.NewFilter(pred, baseRelation())

	out, err := o.Optimize(ctx, in)
	require.NoError(t, err)

	f := out.(*plan.Filter)
	_, stillNot := f.Predicate.(*expression.Not)
	require.False(t, stillNot)
}

func TestOptimizeCombinesAdjacentFilters(t *testing.T) {
	ctx := sql.NewEmptyContext()
	o := newTestOptimizer()

	inner := plan.NewFilter(expression.NewUnresolvedAttribute("a"), baseRelation())
	outer := plan.NewFilter(expression.NewUnresolvedAttribute("b"), inner)

	out, err := o.Optimize(ctx, outer)
	require.NoError(t, err)

	f := out.(*plan.Filter)
	_, childIsFilter := f.Child.(*plan.Filter)
	require.False(t, childIsFilter)
	_, ok := f.Predicate.(*expression.And)
	require.True(t, ok)
}

func TestOptimizeSimplifiesNoOpCast(t *testing.T) {
	ctx := sql.NewEmptyContext()
	o := newTestOptimizer()

	ref := expression.NewAttributeReference("t.a", "a", types.Integer, false)
	in := plan.NewProject([]sql.Expression{expression.NewCast(ref, types.Integer)}, baseRelation())

	out, err := o.Optimize(ctx, in)
	require.NoError(t, err)

	p := out.(*plan.Project)
	_, stillCast := p.Projections[0].(*expression.Cast)
	require.False(t, stillCast)
}

func TestOptimizeIsIdempotent(t *testing.T) {
	ctx := sql.NewEmptyContext()
	o := newTestOptimizer()

	inner := plan.NewFilter(expression.NewUnresolvedAttribute("a"), baseRelation())
	outer := plan.NewFilter(expression.NewUnresolvedAttribute("b"), inner)
	in := plan.NewProject([]sql.Expression{expression.NewCast(expression.NewAttributeReference("t.a", "a", types.Integer, false), types.Integer)}, outer)

	once, err := o.Optimize(ctx, in)
	require.NoError(t, err)

	twice, err := o.Optimize(ctx, once)
	require.NoError(t, err)

	require.True(t, transform.NodesEqual(once, twice))
}
