// Package rule implements the rule engine (C5): named rewrite rules,
// batches with a Once or FixedPoint(maxIter) strategy, and an Executor
// that runs a list of batches in order to a structural fixpoint over the
// closed C4 operator family.
package rule

import (
	opentracing "github.com/opentracing/opentracing-go"
	errors "gopkg.in/src-d/go-errors.v1"

	"github.com/relcore/queryengine/sql"
	"github.com/relcore/queryengine/sql/transform"
)

var (
	// ErrInvariantViolated is returned when a rule's rewrite breaks a
	// structural invariant the executor checks after every application
	// (e.g. producing an unresolved node from a rule batch that is
	// documented to only run over resolved plans).
	ErrInvariantViolated = errors.NewKind("rule %q violated invariant: %s")

	// ErrRuleFixpointExceeded is returned when a FixedPoint batch does not
	// converge within its configured iteration budget.
	ErrRuleFixpointExceeded = errors.NewKind("batch %q did not reach a fixpoint within %d iterations")
)

// Func is a single rewrite rule's implementation: given the current plan,
// return the rewritten plan (or the same plan, unchanged, if the rule
// doesn't apply).
type Func func(ctx *sql.Context, n sql.Node) (sql.Node, error)

// Rule pairs a Func with a name used in logging, error messages, and
// EXPLAIN-style diagnostics.
type Rule struct {
	Name string
	Apply Func
}

// NewRule constructs a named rule.
func NewRule(name string, apply Func) Rule {
	return Rule{Name: name, Apply: apply}
}

// Strategy controls how many times a Batch's rules run before the
// executor moves to the next batch.
type Strategy interface {
	// MaxIterations bounds how many passes the executor may make over a
	// batch's rules; a FixedPoint strategy's bound matters only when the
	// plan never stops changing (a buggy rule), since reaching an actual
	// fixpoint ends the batch early regardless of the bound.
	MaxIterations() int
}

// Once runs every rule in the batch exactly one time, in order.
type Once struct{}

// MaxIterations always returns 1 for Once.
func (Once) MaxIterations() int { return 1 }

// FixedPoint runs every rule in the batch repeatedly until no rule in the
// batch changes the plan during a full pass, or maxIter passes have run.
type FixedPoint struct {
	MaxIter int
}

// MaxIterations returns the configured iteration bound.
func (f FixedPoint) MaxIterations() int { return f.MaxIter }

// Batch is a named, ordered list of rules sharing one Strategy.
type Batch struct {
	Name     string
	Strategy Strategy
	Rules    []Rule
}

// NewOnceBatch constructs a batch whose rules each run exactly once.
func NewOnceBatch(name string, rules ...Rule) Batch {
	return Batch{Name: name, Strategy: Once{}, Rules: rules}
}

// NewFixedPointBatch constructs a batch that repeats until convergence
// or maxIter passes.
func NewFixedPointBatch(name string, maxIter int, rules ...Rule) Batch {
	return Batch{Name: name, Strategy: FixedPoint{MaxIter: maxIter}, Rules: rules}
}

// InvariantCheck validates a plan after a batch finishes; the analyzer
// and optimizer pass one appropriate to their own stage (e.g. "every
// rule batch must leave no Unresolved* node behind").
type InvariantCheck func(n sql.Node) error

// Executor runs an ordered list of Batches over a plan, tracing each
// batch as its own opentracing span (§4.1, §4.5, §4.6).
type Executor struct {
	Batches    []Batch
	Invariant  InvariantCheck
	debugStack []string
}

// NewExecutor constructs an Executor over the given batches. invariant
// may be nil to skip the post-batch structural check.
func NewExecutor(invariant InvariantCheck, batches ...Batch) *Executor {
	return &Executor{Batches: batches, Invariant: invariant}
}

// PushDebugContext records a label (e.g. the batch or rule name
// currently executing) on the executor's debug-context stack, which
// debugContext joins into an "a/b/" prefix. No log line in this package
// emits that prefix.
func (e *Executor) PushDebugContext(label string) {
	e.debugStack = append(e.debugStack, label)
}

// PopDebugContext removes the most recently pushed label.
func (e *Executor) PopDebugContext() {
	if len(e.debugStack) > 0 {
		e.debugStack = e.debugStack[:len(e.debugStack)-1]
	}
}

func (e *Executor) debugContext() string {
	ctx := ""
	for _, s := range e.debugStack {
		ctx += s + "/"
	}
	return ctx
}

// Run executes every batch in order, returning the fully rewritten plan.
func (e *Executor) Run(ctx *sql.Context, n sql.Node) (sql.Node, error) {
	span, ctx := ctx.Span("rule.Executor.Run")
	defer span.Finish()

	plan := n
	for _, batch := range e.Batches {
		e.PushDebugContext(batch.Name)
		var err error
		plan, err = e.runBatch(ctx, batch, plan)
		e.PopDebugContext()
		if err != nil {
			return nil, err
		}
		if e.Invariant != nil {
			if verr := e.Invariant(plan); verr != nil {
				return nil, ErrInvariantViolated.New(batch.Name, verr.Error())
			}
		}
	}
	return plan, nil
}

// nodesConverged reports whether a batch iteration left the plan
// unchanged. A hash mismatch proves inequality cheaply without walking
// either tree; a hash match still falls back to transform.NodesEqual,
// since equal hashes never prove equality on their own.
func nodesConverged(a, b sql.Node) bool {
	ha, errA := transform.Hash(a)
	hb, errB := transform.Hash(b)
	if errA == nil && errB == nil && ha != hb {
		return false
	}
	return transform.NodesEqual(a, b)
}

func (e *Executor) runBatch(ctx *sql.Context, batch Batch, n sql.Node) (sql.Node, error) {
	span, ctx := ctx.Span("rule.Executor.runBatch", opentracing.Tags{"batch": batch.Name})
	defer span.Finish()

	_, isFixedPoint := batch.Strategy.(FixedPoint)
	maxIter := batch.Strategy.MaxIterations()

	plan := n
	for i := 1; i <= maxIter; i++ {
		next := plan
		for _, r := range batch.Rules {
			e.PushDebugContext(r.Name)
			var err error
			next, err = r.Apply(ctx, next)
			e.PopDebugContext()
			if err != nil {
				return nil, err
			}
		}

		converged := nodesConverged(next, plan)
		plan = next
		if converged {
			return plan, nil
		}

		if isFixedPoint && i == maxIter {
			return nil, ErrRuleFixpointExceeded.New(batch.Name, maxIter)
		}
	}

	return plan, nil
}
