package aggregation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relcore/queryengine/sql"
	"github.com/relcore/queryengine/sql/expression"
	"github.com/relcore/queryengine/sql/types"
)

func runAgg(t *testing.T, ctx *sql.Context, agg sql.Aggregation, rows []sql.Row) interface{} {
	buf := agg.NewBuffer()
	for _, r := range rows {
		require.NoError(t, agg.Update(ctx, buf, r))
	}
	v, err := agg.EvalBuffer(ctx, buf)
	require.NoError(t, err)
	return v
}

func TestCountStar(t *testing.T) {
	ctx := sql.NewEmptyContext()
	c := NewCount(nil)
	v := runAgg(t, ctx, c, []sql.Row{sql.NewRow(int64(1)), sql.NewRow(int64(2)), sql.NewRow(int64(3))})
	require.Equal(t, int64(3), v)
}

func TestCountExcludesNull(t *testing.T) {
	ctx := sql.NewEmptyContext()
	arg := expression.NewBoundReference("a", types.Integer, true, 0, 0)
	c := NewCount(arg)
	v := runAgg(t, ctx, c, []sql.Row{sql.NewRow(int64(1)), sql.NewRow(nil), sql.NewRow(int64(3))})
	require.Equal(t, int64(2), v)
}

func TestCountMergePartials(t *testing.T) {
	ctx := sql.NewEmptyContext()
	c := NewCount(nil)
	bufA := c.NewBuffer()
	require.NoError(t, c.Update(ctx, bufA, sql.NewRow()))
	require.NoError(t, c.Update(ctx, bufA, sql.NewRow()))
	bufB := c.NewBuffer()
	require.NoError(t, c.Update(ctx, bufB, sql.NewRow()))
	require.NoError(t, c.Merge(ctx, bufA, bufB))
	v, err := c.EvalBuffer(ctx, bufA)
	require.NoError(t, err)
	require.Equal(t, int64(3), v)
}

func TestSumOfEmptyGroupIsNull(t *testing.T) {
	ctx := sql.NewEmptyContext()
	arg := expression.NewBoundReference("a", types.Integer, true, 0, 0)
	s := NewSum(arg)
	v := runAgg(t, ctx, s, nil)
	require.Nil(t, v)
}

func TestSumAccumulates(t *testing.T) {
	ctx := sql.NewEmptyContext()
	arg := expression.NewBoundReference("a", types.Integer, false, 0, 0)
	s := NewSum(arg)
	v := runAgg(t, ctx, s, []sql.Row{sql.NewRow(int64(1)), sql.NewRow(int64(2)), sql.NewRow(int64(3))})
	require.Equal(t, int64(6), v)
}

func TestAverageDividesSumByCount(t *testing.T) {
	ctx := sql.NewEmptyContext()
	arg := expression.NewBoundReference("a", types.Integer, false, 0, 0)
	avg := NewAverage(arg)
	v := runAgg(t, ctx, avg, []sql.Row{sql.NewRow(int64(2)), sql.NewRow(int64(4))})
	require.Equal(t, float64(3), v)
}

func TestAverageOfEmptyGroupIsNull(t *testing.T) {
	ctx := sql.NewEmptyContext()
	arg := expression.NewBoundReference("a", types.Integer, true, 0, 0)
	avg := NewAverage(arg)
	v := runAgg(t, ctx, avg, nil)
	require.Nil(t, v)
}

func TestCountDistinctDedupesValues(t *testing.T) {
	ctx := sql.NewEmptyContext()
	arg := expression.NewBoundReference("a", types.Integer, false, 0, 0)
	cd := NewCountDistinct(arg)
	v := runAgg(t, ctx, cd, []sql.Row{
		sql.NewRow(int64(1)),
		sql.NewRow(int64(2)),
		sql.NewRow(int64(1)),
	})
	require.Equal(t, int64(2), v)
}

func TestCountDistinctDoesNotImplementPartialAggregation(t *testing.T) {
	var agg sql.Aggregation = NewCountDistinct(expression.NewBoundReference("a", types.Integer, false, 0, 0))
	_, ok := agg.(sql.PartialAggregation)
	require.False(t, ok)
}
