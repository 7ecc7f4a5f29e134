package optimizer

import (
	opentracing "github.com/opentracing/opentracing-go"

	"github.com/relcore/queryengine/sql"
	"github.com/relcore/queryengine/sql/rule"
)

const defaultMaxPasses = 8

// Builder assembles the optimizer's rule.Executor. MaxPasses bounds the
// single FixedPoint batch all four rewrites share: they are mutually
// reinforcing (a combined filter can expose a foldable predicate, a
// folded predicate can enable another combine) so they iterate together
// until the tree stops changing rather than running as separate batches.
type Builder struct {
	MaxPasses int
}

func NewBuilder() *Builder {
	return &Builder{MaxPasses: defaultMaxPasses}
}

func (b *Builder) Build() *Optimizer {
	passes := b.MaxPasses
	if passes <= 0 {
		passes = defaultMaxPasses
	}
	batch := rule.NewFixedPointBatch("optimize", passes,
		rule.NewRule("eliminate-subqueries", eliminateSubqueriesRule),
		rule.NewRule("fold-constants", foldConstantsRule),
		rule.NewRule("combine-filters", combineFiltersRule),
		rule.NewRule("simplify-casts", simplifyCastsRule),
	)
	return &Optimizer{exec: rule.NewExecutor(nil, batch)}
}

type Optimizer struct {
	exec *rule.Executor
}

// Optimize rewrites a resolved plan into an equivalent, simplified one
// (§4.6). It is idempotent: running it again on its own output is a
// no-op, since every rule either strictly shrinks the tree or leaves it
// unchanged.
func (o *Optimizer) Optimize(ctx *sql.Context, n sql.Node) (sql.Node, error) {
	span, ctx := ctx.Span("optimizer.Optimize", opentracing.Tags{})
	defer span.Finish()

	return o.exec.Run(ctx, n)
}
