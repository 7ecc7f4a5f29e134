package rule

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relcore/queryengine/sql"
)

// countingLeaf is a minimal fixture Node used only by these tests.
type countingLeaf struct {
	n int
}

func (l *countingLeaf) Resolved() bool       { return true }
func (l *countingLeaf) String() string       { return "leaf" }
func (l *countingLeaf) Schema() sql.Schema   { return nil }
func (l *countingLeaf) Children() []sql.Node { return nil }
func (l *countingLeaf) WithChildren(c ...sql.Node) (sql.Node, error) {
	if len(c) != 0 {
		return nil, sql.ErrTreeShapeMismatch.New(l, len(c), 0)
	}
	return l, nil
}

func incrementUpTo(limit int) Func {
	return func(ctx *sql.Context, n sql.Node) (sql.Node, error) {
		l := n.(*countingLeaf)
		if l.n >= limit {
			return l, nil
		}
		return &countingLeaf{n: l.n + 1}, nil
	}
}

func TestOnceBatchRunsExactlyOncePerRule(t *testing.T) {
	ctx := sql.NewEmptyContext()
	batch := NewOnceBatch("increment", NewRule("inc", incrementUpTo(100)))
	exec := NewExecutor(nil, batch)

	result, err := exec.Run(ctx, &countingLeaf{n: 0})
	require.NoError(t, err)
	require.Equal(t, 1, result.(*countingLeaf).n)
}

func TestFixedPointBatchRunsUntilConvergence(t *testing.T) {
	ctx := sql.NewEmptyContext()
	batch := NewFixedPointBatch("increment", 10, NewRule("inc", incrementUpTo(5)))
	exec := NewExecutor(nil, batch)

	result, err := exec.Run(ctx, &countingLeaf{n: 0})
	require.NoError(t, err)
	require.Equal(t, 5, result.(*countingLeaf).n)
}

func TestFixedPointBatchExceedingBudgetErrors(t *testing.T) {
	ctx := sql.NewEmptyContext()
	// The rule never converges (always reports a "change") within budget:
	// incrementUpTo(100) with only 3 iterations available leaves work
	// undone every pass, so the batch should report ErrRuleFixpointExceeded.
	batch := NewFixedPointBatch("increment", 3, NewRule("inc", incrementUpTo(100)))
	exec := NewExecutor(nil, batch)

	_, err := exec.Run(ctx, &countingLeaf{n: 0})
	require.Error(t, err)
	require.True(t, ErrRuleFixpointExceeded.Is(err))
}

func TestInvariantViolationIsReported(t *testing.T) {
	ctx := sql.NewEmptyContext()
	batch := NewOnceBatch("noop", NewRule("noop", func(ctx *sql.Context, n sql.Node) (sql.Node, error) {
		return n, nil
	}))
	invariant := func(n sql.Node) error {
		return sql.ErrUnresolvedAttribute.New("x")
	}
	exec := NewExecutor(invariant, batch)

	_, err := exec.Run(ctx, &countingLeaf{n: 0})
	require.Error(t, err)
	require.True(t, ErrInvariantViolated.Is(err))
}

func TestDebugContextStackPushPop(t *testing.T) {
	exec := NewExecutor(nil)
	exec.PushDebugContext("a")
	exec.PushDebugContext("b")
	require.Equal(t, "a/b/", exec.debugContext())
	exec.PopDebugContext()
	require.Equal(t, "a/", exec.debugContext())
}
