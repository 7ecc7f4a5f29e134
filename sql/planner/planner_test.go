package planner

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relcore/queryengine/sql"
	"github.com/relcore/queryengine/sql/analyzer"
	"github.com/relcore/queryengine/sql/expression"
	"github.com/relcore/queryengine/sql/expression/aggregation"
	"github.com/relcore/queryengine/sql/plan"
	"github.com/relcore/queryengine/sql/types"
	"github.com/relcore/queryengine/testutil/memcatalog"
)

func ordersRelation() *plan.Relation {
	schema := sql.Schema{
		{Name: "id", Type: types.Integer, Nullable: false},
		{Name: "customer_id", Type: types.Integer, Nullable: false},
		{Name: "amount", Type: types.Double, Nullable: false},
	}
	table := memcatalog.NewTable("orders", schema,
		sql.NewRow(int32(1), int32(1), 10.0),
		sql.NewRow(int32(2), int32(1), 5.0),
		sql.NewRow(int32(3), int32(2), 7.0),
	)
	return plan.NewRelation("orders", schema, table)
}

func customersRelation() *plan.Relation {
	schema := sql.Schema{
		{Name: "id", Type: types.Integer, Nullable: false},
		{Name: "name", Type: types.String, Nullable: false},
	}
	table := memcatalog.NewTable("customers", schema,
		sql.NewRow(int32(1), "ava"),
		sql.NewRow(int32(2), "bo"),
	)
	return plan.NewRelation("customers", schema, table)
}

func collectRows(t *testing.T, ctx *sql.Context, node Node) []sql.Row {
	t.Helper()
	iter, err := node.Execute(ctx)
	require.NoError(t, err)
	rows, err := sql.RowIterToRows(iter)
	require.NoError(t, err)
	return rows
}

func TestPlanBareRelationIsTableScan(t *testing.T) {
	ctx := sql.NewEmptyContext()
	node, err := Plan(ctx, ordersRelation())
	require.NoError(t, err)

	scan, ok := node.(*TableScanExec)
	require.True(t, ok)
	require.Equal(t, "orders", scan.RelationName)
	require.Len(t, collectRows(t, ctx, node), 3)
}

func TestPlanProjectOfBareColumnsPushesIntoScan(t *testing.T) {
	ctx := sql.NewEmptyContext()
	rel := ordersRelation()
	logical := plan.NewProject([]sql.Expression{rel.Attrs[0], rel.Attrs[2]}, rel)

	node, err := Plan(ctx, logical)
	require.NoError(t, err)

	scan, ok := node.(*TableScanExec)
	require.True(t, ok)
	require.Equal(t, []int{0, 2}, scan.Projection)

	rows := collectRows(t, ctx, node)
	require.Len(t, rows, 3)
	require.Len(t, rows[0], 2)
}

func TestPlanFilterBindsPredicateAgainstChild(t *testing.T) {
	ctx := sql.NewEmptyContext()
	rel := ordersRelation()
	logical := plan.NewFilter(
		expression.NewGreaterThan(rel.Attrs[2], expression.NewLiteral(6.0, types.Double)),
		rel,
	)

	node, err := Plan(ctx, logical)
	require.NoError(t, err)

	filter, ok := node.(*FilterExec)
	require.True(t, ok)
	_, ok = filter.Predicate.(*expression.Comparison)
	require.True(t, ok)

	rows := collectRows(t, ctx, node)
	require.Len(t, rows, 2)
}

func TestPlanEquiJoinSelectsHashJoin(t *testing.T) {
	ctx := sql.NewEmptyContext()
	orders := ordersRelation()
	customers := customersRelation()

	cond := expression.NewEquals(orders.Attrs[1], customers.Attrs[0])
	logical := plan.NewInnerJoin(orders, customers, cond)

	node, err := Plan(ctx, logical)
	require.NoError(t, err)

	join, ok := node.(*HashEquiJoinExec)
	require.True(t, ok)
	require.Len(t, join.LeftKeys, 1)
	require.Len(t, join.RightKeys, 1)
	require.Nil(t, join.Residual)

	rows := collectRows(t, ctx, node)
	require.Len(t, rows, 3)
}

func TestPlanNonEquiJoinFallsBackToBroadcast(t *testing.T) {
	ctx := sql.NewEmptyContext()
	orders := ordersRelation()
	customers := customersRelation()

	cond := expression.NewGreaterThan(orders.Attrs[1], customers.Attrs[0])
	logical := plan.NewInnerJoin(orders, customers, cond)

	node, err := Plan(ctx, logical)
	require.NoError(t, err)

	_, ok := node.(*BroadcastNestedLoopJoinExec)
	require.True(t, ok)
}

func TestPlanCrossJoinIsCartesianProduct(t *testing.T) {
	ctx := sql.NewEmptyContext()
	orders := ordersRelation()
	customers := customersRelation()

	logical := plan.NewCrossJoin(orders, customers).AsJoin()

	node, err := Plan(ctx, logical)
	require.NoError(t, err)

	_, ok := node.(*CartesianProductExec)
	require.True(t, ok)

	rows := collectRows(t, ctx, node)
	require.Len(t, rows, 6)
}

func TestPlanAggregateWithPartialAggregationsDecomposes(t *testing.T) {
	ctx := sql.NewEmptyContext()
	rel := ordersRelation()

	groupBy := []sql.Expression{rel.Attrs[1]}
	sum := aggregation.NewSum(rel.Attrs[2])
	selected := []sql.Expression{rel.Attrs[1], sum}
	logical := plan.NewAggregate(groupBy, selected, rel)

	node, err := Plan(ctx, logical)
	require.NoError(t, err)

	final, ok := node.(*FinalAggregateExec)
	require.True(t, ok)
	_, ok = final.Child.(*PartialAggregateExec)
	require.True(t, ok)

	rows := collectRows(t, ctx, node)
	require.Len(t, rows, 2)

	totals := map[int32]float64{}
	for _, r := range rows {
		totals[r[0].(int32)] = r[1].(float64)
	}
	require.InDelta(t, 15.0, totals[int32(1)], 0.0001)
	require.InDelta(t, 7.0, totals[int32(2)], 0.0001)
}

func TestPlanAggregateWithNonPartialFallsBackToGroupAggregate(t *testing.T) {
	ctx := sql.NewEmptyContext()
	rel := ordersRelation()

	groupBy := []sql.Expression{rel.Attrs[1]}
	countDistinct := aggregation.NewCountDistinct(rel.Attrs[2])
	selected := []sql.Expression{rel.Attrs[1], countDistinct}
	logical := plan.NewAggregate(groupBy, selected, rel)

	node, err := Plan(ctx, logical)
	require.NoError(t, err)

	_, ok := node.(*GroupAggregateExec)
	require.True(t, ok)
}

func TestPlanDistinctDispatchesThroughAggregateStrategies(t *testing.T) {
	ctx := sql.NewEmptyContext()
	rel := customersRelation()
	logical := plan.NewDistinct(rel)

	node, err := Plan(ctx, logical)
	require.NoError(t, err)

	_, ok := node.(*GroupAggregateExec)
	require.True(t, ok)

	rows := collectRows(t, ctx, node)
	require.Len(t, rows, 2)
}

func TestPlanFilterOverPartitionedRelationSplitsPruningFromResidual(t *testing.T) {
	ctx := sql.NewEmptyContext()
	schema := sql.Schema{
		{Name: "region", Type: types.String, Nullable: false},
		{Name: "amount", Type: types.Double, Nullable: false},
	}
	table := memcatalog.NewTable("sales", schema,
		sql.NewRow("east", 10.0),
		sql.NewRow("east", 1.0),
		sql.NewRow("west", 100.0),
		sql.NewRow("west", 2.0),
	).WithPartitionKeys("region")
	rel := plan.NewRelation("sales", schema, table).WithPartitionKeys([]string{"region"})

	logical := plan.NewFilter(
		expression.NewAnd(
			expression.NewEquals(rel.Attrs[0], expression.NewLiteral("east", types.String)),
			expression.NewGreaterThan(rel.Attrs[1], expression.NewLiteral(5.0, types.Double)),
		),
		rel,
	)

	node, err := Plan(ctx, logical)
	require.NoError(t, err)

	filter, ok := node.(*FilterExec)
	require.True(t, ok)
	scan, ok := filter.Child.(*TableScanExec)
	require.True(t, ok)
	require.NotNil(t, scan.PartitionFilter)

	rows := collectRows(t, ctx, node)
	require.Len(t, rows, 1)
	require.Equal(t, "east", rows[0][0])
	require.Equal(t, 10.0, rows[0][1])
}

func TestPlanFilterOverPartitionedRelationWithNoResidualIsBareScan(t *testing.T) {
	ctx := sql.NewEmptyContext()
	schema := sql.Schema{
		{Name: "region", Type: types.String, Nullable: false},
		{Name: "amount", Type: types.Double, Nullable: false},
	}
	table := memcatalog.NewTable("sales", schema,
		sql.NewRow("east", 10.0),
		sql.NewRow("west", 100.0),
	).WithPartitionKeys("region")
	rel := plan.NewRelation("sales", schema, table).WithPartitionKeys([]string{"region"})

	logical := plan.NewFilter(
		expression.NewEquals(rel.Attrs[0], expression.NewLiteral("west", types.String)),
		rel,
	)

	node, err := Plan(ctx, logical)
	require.NoError(t, err)

	scan, ok := node.(*TableScanExec)
	require.True(t, ok)
	require.NotNil(t, scan.PartitionFilter)

	rows := collectRows(t, ctx, node)
	require.Len(t, rows, 1)
	require.Equal(t, "west", rows[0][0])
}

func TestPlanFilterOverUnpartitionedRelationIgnoresPruningStrategy(t *testing.T) {
	ctx := sql.NewEmptyContext()
	rel := ordersRelation()
	logical := plan.NewFilter(
		expression.NewGreaterThan(rel.Attrs[2], expression.NewLiteral(6.0, types.Double)),
		rel,
	)

	node, err := Plan(ctx, logical)
	require.NoError(t, err)

	filter, ok := node.(*FilterExec)
	require.True(t, ok)
	scan, ok := filter.Child.(*TableScanExec)
	require.True(t, ok)
	require.Nil(t, scan.PartitionFilter)
}

func TestPlanInsertIntoWritesRowsAndReportsCount(t *testing.T) {
	ctx := sql.NewEmptyContext()
	schema := sql.Schema{
		{Name: "id", Type: types.Integer, Nullable: false},
		{Name: "name", Type: types.String, Nullable: false},
	}
	target := memcatalog.NewTable("customers", schema)
	targetRel := plan.NewRelation("customers", schema, target)

	sourceRows := plan.NewRelation("staging", schema, memcatalog.NewTable("staging", schema,
		sql.NewRow(int32(3), "cy"),
		sql.NewRow(int32(4), "dex"),
	))

	logical := plan.NewInsertInto(targetRel, sourceRows, nil)

	node, err := Plan(ctx, logical)
	require.NoError(t, err)

	rows := collectRows(t, ctx, node)
	require.Len(t, rows, 1)
	require.Equal(t, int64(2), rows[0][0])
	require.Len(t, target.Rows, 2)
}

// TestPlanFilterAboveAliasedProjectBindsConsistently covers the case
// where resolve-references (run by the analyzer) and bindExpression (run
// by the planner) each call the same Project's Output() independently.
// Before Alias carried its own stable AttributeID, the two calls minted
// different ids for the same "total" column and the second bind failed
// with ErrUnresolvedAttribute even though the analyzer had already fully
// resolved the plan.
func TestPlanFilterAboveAliasedProjectBindsConsistently(t *testing.T) {
	ctx := sql.NewEmptyContext()
	cat := memcatalog.NewCatalog(memcatalog.NewTable("orders", sql.Schema{
		{Name: "id", Type: types.Integer, Nullable: false},
		{Name: "customer_id", Type: types.Integer, Nullable: false},
		{Name: "amount", Type: types.Double, Nullable: false},
	},
		sql.NewRow(int32(1), int32(1), 10.0),
		sql.NewRow(int32(2), int32(1), 5.0),
		sql.NewRow(int32(3), int32(2), 7.0),
	))

	aliased := plan.NewProject(
		[]sql.Expression{expression.NewAlias(expression.NewUnresolvedAttribute("amount"), "total")},
		plan.NewUnresolvedRelation("orders"),
	)
	logical := plan.NewFilter(
		expression.NewGreaterThan(expression.NewUnresolvedAttribute("total"), expression.NewLiteral(6.0, types.Double)),
		aliased,
	)

	a := analyzer.NewBuilder(cat, memcatalog.NewRegistry()).Build()
	resolved, err := a.Analyze(ctx, logical)
	require.NoError(t, err)

	node, err := Plan(ctx, resolved)
	require.NoError(t, err)

	rows := collectRows(t, ctx, node)
	require.Len(t, rows, 2)
}

// TestPlanSortAboveAliasedAggregateBindsConsistently is the Aggregate
// analogue: a Sort referencing an Aggregate's aliased SUM output column
// ("ORDER BY total") must bind against the same AttributeID the analyzer
// resolved it to, even though the physical planner calls the Aggregate's
// Output() a second time while binding the Sort above it.
func TestPlanSortAboveAliasedAggregateBindsConsistently(t *testing.T) {
	ctx := sql.NewEmptyContext()
	cat := memcatalog.NewCatalog(memcatalog.NewTable("orders", sql.Schema{
		{Name: "id", Type: types.Integer, Nullable: false},
		{Name: "customer_id", Type: types.Integer, Nullable: false},
		{Name: "amount", Type: types.Double, Nullable: false},
	},
		sql.NewRow(int32(1), int32(1), 10.0),
		sql.NewRow(int32(2), int32(1), 5.0),
		sql.NewRow(int32(3), int32(2), 7.0),
	))

	agg := plan.NewAggregate(
		[]sql.Expression{expression.NewUnresolvedAttribute("customer_id")},
		[]sql.Expression{
			expression.NewUnresolvedAttribute("customer_id"),
			expression.NewAlias(aggregation.NewSum(expression.NewUnresolvedAttribute("amount")), "total"),
		},
		plan.NewUnresolvedRelation("orders"),
	)
	logical := plan.NewSort(
		[]plan.SortOrder{{Expr: expression.NewUnresolvedAttribute("total"), Descending: true}},
		agg,
	)

	a := analyzer.NewBuilder(cat, memcatalog.NewRegistry()).Build()
	resolved, err := a.Analyze(ctx, logical)
	require.NoError(t, err)

	node, err := Plan(ctx, resolved)
	require.NoError(t, err)

	rows := collectRows(t, ctx, node)
	require.Len(t, rows, 2)
	require.InDelta(t, 15.0, rows[0][1].(float64), 0.0001)
	require.InDelta(t, 7.0, rows[1][1].(float64), 0.0001)
}
