package expression

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relcore/queryengine/sql"
	"github.com/relcore/queryengine/sql/types"
)

func lit(v interface{}, t types.Type) *Literal { return NewLiteral(v, t) }

func TestArithmeticAdd(t *testing.T) {
	ctx := sql.NewEmptyContext()
	e := NewAdd(lit(int64(2), types.Integer), lit(int64(3), types.Integer))
	v, err := e.Eval(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, int64(5), v)
	require.True(t, types.Integer.Equals(e.Type()))
}

func TestArithmeticWidensToDouble(t *testing.T) {
	ctx := sql.NewEmptyContext()
	e := NewAdd(lit(int64(2), types.Integer), lit(float64(0.5), types.Double))
	v, err := e.Eval(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, 2.5, v)
}

func TestDivisionByZero(t *testing.T) {
	ctx := sql.NewEmptyContext()
	e := NewDiv(lit(int64(1), types.Integer), lit(int64(0), types.Integer))
	_, err := e.Eval(ctx, nil)
	require.Error(t, err)
	require.True(t, sql.ErrDivisionByZero.Is(err))
}

func TestArithmeticNullPropagates(t *testing.T) {
	ctx := sql.NewEmptyContext()
	e := NewAdd(NewNullLiteral(types.Integer), lit(int64(1), types.Integer))
	v, err := e.Eval(ctx, nil)
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestComparisonEquals(t *testing.T) {
	ctx := sql.NewEmptyContext()
	e := NewEquals(lit(int64(1), types.Integer), lit(int64(1), types.Integer))
	v, err := e.Eval(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, true, v)
}

func TestComparisonNullIsNullNotFalse(t *testing.T) {
	ctx := sql.NewEmptyContext()
	e := NewEquals(NewNullLiteral(types.Integer), lit(int64(1), types.Integer))
	v, err := e.Eval(ctx, nil)
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestAndShortCircuitsOnFalseEvenWithNullPeer(t *testing.T) {
	ctx := sql.NewEmptyContext()
	e := NewAnd(lit(false, types.Boolean), NewNullLiteral(types.Boolean))
	v, err := e.Eval(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, false, v)
}

func TestAndNullPropagatesWhenNoFalseOperand(t *testing.T) {
	ctx := sql.NewEmptyContext()
	e := NewAnd(lit(true, types.Boolean), NewNullLiteral(types.Boolean))
	v, err := e.Eval(ctx, nil)
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestOrShortCircuitsOnTrueEvenWithNullPeer(t *testing.T) {
	ctx := sql.NewEmptyContext()
	e := NewOr(lit(true, types.Boolean), NewNullLiteral(types.Boolean))
	v, err := e.Eval(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, true, v)
}

func TestNotOfNullIsNull(t *testing.T) {
	ctx := sql.NewEmptyContext()
	e := NewNot(NewNullLiteral(types.Boolean))
	v, err := e.Eval(ctx, nil)
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestCastStringToIntegerTruncatesGarbageFails(t *testing.T) {
	ctx := sql.NewEmptyContext()
	e := NewCast(lit("12abc", types.String), types.Integer)
	_, err := e.Eval(ctx, nil)
	require.Error(t, err)
	require.True(t, sql.ErrCastFailed.Is(err))
}

func TestCastStringToIntegerParsesCleanly(t *testing.T) {
	ctx := sql.NewEmptyContext()
	e := NewCast(lit("42", types.String), types.Integer)
	v, err := e.Eval(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, int64(42), v)
}

func TestCastFloatToIntegerTruncatesTowardZero(t *testing.T) {
	ctx := sql.NewEmptyContext()
	pos := NewCast(lit(1.9, types.Double), types.Integer)
	v, err := pos.Eval(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, int64(1), v)

	neg := NewCast(lit(-1.9, types.Double), types.Integer)
	v, err = neg.Eval(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, int64(-1), v)
}

func TestIsNullAndIsNotNull(t *testing.T) {
	ctx := sql.NewEmptyContext()
	isNull := NewIsNull(NewNullLiteral(types.Integer))
	v, err := isNull.Eval(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, true, v)

	isNotNull := NewIsNotNull(lit(int64(1), types.Integer))
	v, err = isNotNull.Eval(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, true, v)
}

func TestCoalesceReturnsFirstNonNull(t *testing.T) {
	ctx := sql.NewEmptyContext()
	e := NewCoalesce(NewNullLiteral(types.Integer), NewNullLiteral(types.Integer), lit(int64(7), types.Integer))
	v, err := e.Eval(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, int64(7), v)
}

func TestIfBranchesOnCondition(t *testing.T) {
	ctx := sql.NewEmptyContext()
	e := NewIf(lit(true, types.Boolean), lit(int64(1), types.Integer), lit(int64(2), types.Integer))
	v, err := e.Eval(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, int64(1), v)
}

func TestFoldableLiteralSubtreeIsFoldable(t *testing.T) {
	e := NewAdd(lit(int64(1), types.Integer), lit(int64(2), types.Integer))
	require.True(t, Foldable(e))
}

func TestFoldableAttributeReferenceIsNotFoldable(t *testing.T) {
	ref := NewAttributeReference("t.a", "a", types.Integer, false)
	e := NewAdd(ref, lit(int64(2), types.Integer))
	require.False(t, Foldable(e))
}

func TestFoldableRandIsNeverFoldable(t *testing.T) {
	require.False(t, Foldable(NewRand()))
}

func TestAliasToAttributeReferenceCarriesName(t *testing.T) {
	a := NewAlias(lit(int64(1), types.Integer), "one")
	ref := a.ToAttributeReference()
	require.Equal(t, "one", ref.Name())
	require.True(t, types.Integer.Equals(ref.Type()))
}

func TestAliasToAttributeReferenceIsStableAcrossCalls(t *testing.T) {
	a := NewAlias(lit(int64(1), types.Integer), "one")
	first := a.ToAttributeReference()
	second := a.ToAttributeReference()
	require.Equal(t, first.ID, second.ID, "resolving and later binding an Alias column must agree on its id")
}

func TestAttributeReferenceEqualityIsByID(t *testing.T) {
	a := NewAttributeReference("t.a", "a", types.Integer, false)
	b := NewAttributeReference("t.a", "a", types.Integer, false)
	require.False(t, a.Equal(b), "distinct mints must not compare equal despite identical names/types")
	require.True(t, a.Equal(a))
}

func TestBoundReferenceIndexesRow(t *testing.T) {
	ctx := sql.NewEmptyContext()
	b := NewBoundReference("a", types.Integer, false, 0, 1)
	row := sql.NewRow(int64(10), int64(20))
	v, err := b.Eval(ctx, row)
	require.NoError(t, err)
	require.Equal(t, int64(20), v)
}

func TestUDFShortCircuitsOnNullWhenNotNullAware(t *testing.T) {
	ctx := sql.NewEmptyContext()
	called := false
	u := NewUDF("double", types.Integer, false, func(ctx *sql.Context, args []interface{}) (interface{}, error) {
		called = true
		return args[0].(int64) * 2, nil
	}, NewNullLiteral(types.Integer))
	v, err := u.Eval(ctx, nil)
	require.NoError(t, err)
	require.Nil(t, v)
	require.False(t, called)
}
