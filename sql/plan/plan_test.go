package plan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relcore/queryengine/sql"
	"github.com/relcore/queryengine/sql/expression"
	"github.com/relcore/queryengine/sql/types"
)

func fixtureRelation(name string) *Relation {
	schema := sql.Schema{
		{Name: "id", Type: types.Integer, Nullable: false},
		{Name: "val", Type: types.String, Nullable: true},
	}
	return NewRelation(name, schema, nil)
}

func TestRelationOutputHasStableIdentity(t *testing.T) {
	r := fixtureRelation("t")
	out := r.Output()
	require.Len(t, out, 2)
	require.Equal(t, "id", out[0].Name())
	require.NotEqual(t, out[0].ID, out[1].ID)

	again := r.Output()
	require.Equal(t, out[0].ID, again[0].ID)
	require.Equal(t, out[1].ID, again[1].ID)
}

func TestProjectOutputFromAliasAndReference(t *testing.T) {
	r := fixtureRelation("t")
	idRef := r.Output()[0]
	alias := expression.NewAlias(r.Output()[1], "renamed")
	p := NewProject([]sql.Expression{idRef, alias}, r)

	out := p.Output()
	require.Equal(t, idRef.ID, out[0].ID)
	require.Equal(t, "renamed", out[1].Name())

	// Output() is called independently by the analyzer (resolving a
	// downstream reference to this column) and again by the physical
	// planner (binding that reference to a row position); both calls
	// must mint/return the same AttributeID for the Alias column, or a
	// reference resolved against the first call fails to bind against
	// the second (§3.2, §3.6).
	again := p.Output()
	require.Equal(t, out[1].ID, again[1].ID)
}

func TestFilterPassesThroughOutput(t *testing.T) {
	r := fixtureRelation("t")
	pred := expression.NewEquals(r.Output()[0], expression.NewLiteral(int64(1), types.Integer))
	f := NewFilter(pred, r)
	require.Equal(t, r.Output(), f.Output())
}

func TestLeftOuterJoinMarksRightNullable(t *testing.T) {
	left, right := fixtureRelation("l"), fixtureRelation("r")
	cond := expression.NewEquals(left.Output()[0], right.Output()[0])
	j := NewLeftOuterJoin(left, right, cond)

	out := j.Output()
	require.Len(t, out, 4)
	require.False(t, out[0].IsNullable())  // l.id, preserved side
	require.True(t, out[2].IsNullable())   // r.id, non-preserved side becomes nullable
}

func TestFullOuterJoinMarksBothSidesNullable(t *testing.T) {
	left, right := fixtureRelation("l"), fixtureRelation("r")
	cond := expression.NewEquals(left.Output()[0], right.Output()[0])
	j := NewFullOuterJoin(left, right, cond)

	out := j.Output()
	require.True(t, out[0].IsNullable())
	require.True(t, out[2].IsNullable())
}

func TestCrossJoinAsJoinIsInnerWithTrueCondition(t *testing.T) {
	left, right := fixtureRelation("l"), fixtureRelation("r")
	cj := NewCrossJoin(left, right)
	j := cj.AsJoin()
	require.Equal(t, InnerJoin, j.Type)
	lit, ok := j.Condition.(*expression.Literal)
	require.True(t, ok)
	require.Equal(t, true, lit.Value)
}

func TestDistinctAsAggregateGroupsByEveryColumn(t *testing.T) {
	r := fixtureRelation("t")
	d := NewDistinct(r)
	agg := d.AsAggregate()
	require.Len(t, agg.GroupBy, 2)
	require.Len(t, agg.SelectedExprs, 2)
	require.True(t, agg.IsGroupingKey(r.Output()[0]))
}

func TestAggregateRejectsMismatchedExpressionCount(t *testing.T) {
	r := fixtureRelation("t")
	agg := NewAggregate([]sql.Expression{r.Output()[0]}, []sql.Expression{r.Output()[0]}, r)
	_, err := agg.WithExpressions(r.Output()[0])
	require.Error(t, err)
	require.True(t, sql.ErrTreeShapeMismatch.Is(err))
}

func TestUnresolvedRelationIsNotResolved(t *testing.T) {
	u := NewUnresolvedRelation("t")
	require.False(t, u.Resolved())
}

func TestLimitAndOffsetPassThroughSchema(t *testing.T) {
	r := fixtureRelation("t")
	lim := NewLimit(10, r)
	off := NewOffset(5, lim)
	require.True(t, off.Schema().Equals(r.Schema()))
}

// fakeGenerator is a table-valued generator fixture with no real
// evaluation logic, used only to exercise Generate.Output()'s identity
// bookkeeping.
type fakeGenerator struct {
	cols sql.Schema
}

func (g *fakeGenerator) Resolved() bool             { return true }
func (g *fakeGenerator) Type() types.Type           { return types.Integer }
func (g *fakeGenerator) IsNullable() bool           { return false }
func (g *fakeGenerator) Children() []sql.Expression { return nil }
func (g *fakeGenerator) String() string             { return "fakeGenerator()" }

func (g *fakeGenerator) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	return nil, sql.ErrUnsupportedOperation.New("fakeGenerator.Eval")
}

func (g *fakeGenerator) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 0 {
		return nil, sql.ErrTreeShapeMismatch.New(g, len(children), 0)
	}
	return g, nil
}

func (g *fakeGenerator) MakeOutput() sql.Schema { return g.cols }

func (g *fakeGenerator) EvalGenerator(ctx *sql.Context, row sql.Row) ([]sql.Row, error) {
	return nil, nil
}

func TestGenerateOutputHasStableIdentityAcrossCalls(t *testing.T) {
	r := fixtureRelation("t")
	gen := &fakeGenerator{cols: sql.Schema{
		{Name: "item", Type: types.String, Nullable: true},
	}}
	g := NewGenerate(gen, true, false, r)

	out := g.Output()
	require.Len(t, out, 3)
	require.NotEqual(t, out[0].ID, out[2].ID)

	// Called a second time, as the analyzer and the physical planner
	// each independently do, the generator column must keep the same id.
	again := g.Output()
	require.Equal(t, out[2].ID, again[2].ID)
}
