package analyzer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relcore/queryengine/sql"
	"github.com/relcore/queryengine/sql/expression"
	"github.com/relcore/queryengine/sql/plan"
	"github.com/relcore/queryengine/sql/types"
)

type fakeCatalog struct {
	relations map[string]*sql.RelationInfo
}

func (c *fakeCatalog) LookupRelation(ctx *sql.Context, name string) (*sql.RelationInfo, error) {
	info, ok := c.relations[name]
	if !ok {
		return nil, sql.ErrRelationNotFound.New(name)
	}
	return info, nil
}

type fakeRegistry struct{}

func (fakeRegistry) ResolveFunction(ctx *sql.Context, name string, args []sql.Expression) (sql.Expression, error) {
	return nil, sql.ErrFunctionNotFound.New(name)
}

func newFixtureCatalog() *fakeCatalog {
	return &fakeCatalog{relations: map[string]*sql.RelationInfo{
		"orders": {
			Name: "orders",
			Schema: sql.Schema{
				{Name: "id", Type: types.Integer, Nullable: false},
				{Name: "amount", Type: types.Double, Nullable: false},
				{Name: "customer_id", Type: types.Integer, Nullable: false},
			},
		},
		"customers": {
			Name: "customers",
			Schema: sql.Schema{
				{Name: "id", Type: types.Integer, Nullable: false},
				{Name: "name", Type: types.String, Nullable: true},
			},
		},
	}}
}

func newTestAnalyzer(cat sql.Catalog) *Analyzer {
	return NewBuilder(cat, fakeRegistry{}).Build()
}

func TestAnalyzeResolvesRelationAndStar(t *testing.T) {
	ctx := sql.NewEmptyContext()
	a := newTestAnalyzer(newFixtureCatalog())

	in := plan.NewProject([]sql.Expression{expression.NewStar()}, plan.NewUnresolvedRelation("orders"))
	out, err := a.Analyze(ctx, in)
	require.NoError(t, err)
	require.True(t, out.Resolved())

	p := out.(*plan.Project)
	require.Len(t, p.Projections, 3)
	ref, ok := p.Projections[0].(*expression.AttributeReference)
	require.True(t, ok)
	require.Equal(t, "id", ref.Name())
}

func TestAnalyzeResolvesQualifiedReference(t *testing.T) {
	ctx := sql.NewEmptyContext()
	a := newTestAnalyzer(newFixtureCatalog())

	in := plan.NewProject(
		[]sql.Expression{expression.NewUnresolvedQualifiedAttribute("orders", "amount")},
		plan.NewUnresolvedRelation("orders"),
	)
	out, err := a.Analyze(ctx, in)
	require.NoError(t, err)
	require.True(t, out.Resolved())
}

func TestAnalyzeFailsOnUnknownRelation(t *testing.T) {
	ctx := sql.NewEmptyContext()
	a := newTestAnalyzer(newFixtureCatalog())

	in := plan.NewFilter(expression.NewLiteral(true, types.Boolean), plan.NewUnresolvedRelation("missing"))
	_, err := a.Analyze(ctx, in)
	require.Error(t, err)
	require.True(t, sql.ErrRelationNotFound.Is(err))
}

func TestAnalyzeFailsOnAmbiguousReference(t *testing.T) {
	ctx := sql.NewEmptyContext()
	a := newTestAnalyzer(newFixtureCatalog())

	left := plan.NewUnresolvedRelation("orders")
	right := plan.NewUnresolvedRelation("customers")
	join := plan.NewInnerJoin(left, right, expression.NewLiteral(true, types.Boolean))
	in := plan.NewProject([]sql.Expression{expression.NewUnresolvedAttribute("id")}, join)

	_, err := a.Analyze(ctx, in)
	require.Error(t, err)
	require.True(t, sql.ErrAmbiguousReference.Is(err))
}

func TestAnalyzeCoercesArithmeticOperandTypes(t *testing.T) {
	ctx := sql.NewEmptyContext()
	a := newTestAnalyzer(newFixtureCatalog())

	rel := plan.NewUnresolvedRelation("orders")
	sum := expression.NewAdd(
		expression.NewUnresolvedAttribute("amount"),
		expression.NewUnresolvedAttribute("id"),
	)
	in := plan.NewProject([]sql.Expression{sum}, rel)

	out, err := a.Analyze(ctx, in)
	require.NoError(t, err)

	p := out.(*plan.Project)
	arith := p.Projections[0].(*expression.Arithmetic)
	require.True(t, arith.Left.Type().Equals(types.Double))
	require.True(t, arith.Right.Type().Equals(types.Double))
}

func TestAnalyzeBuiltinAggregateResolution(t *testing.T) {
	ctx := sql.NewEmptyContext()
	a := newTestAnalyzer(newFixtureCatalog())

	rel := plan.NewUnresolvedRelation("orders")
	countStar := expression.NewUnresolvedFunction("count", false)
	agg := plan.NewAggregate(nil, []sql.Expression{countStar}, rel)

	out, err := a.Analyze(ctx, agg)
	require.NoError(t, err)
	require.True(t, out.Resolved())
}

func TestAnalyzeRejectsNonGroupingReference(t *testing.T) {
	ctx := sql.NewEmptyContext()
	a := newTestAnalyzer(newFixtureCatalog())

	rel := plan.NewUnresolvedRelation("orders")
	groupBy := []sql.Expression{expression.NewUnresolvedAttribute("customer_id")}
	selected := []sql.Expression{expression.NewUnresolvedAttribute("amount")}
	agg := plan.NewAggregate(groupBy, selected, rel)

	_, err := a.Analyze(ctx, agg)
	require.Error(t, err)
	require.True(t, sql.ErrNonGroupingReference.Is(err))
}
