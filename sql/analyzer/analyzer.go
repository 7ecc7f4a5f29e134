// Package analyzer implements the analysis phase (§4.5, C6): resolving an
// unresolved logical plan's relations, attribute references, stars, and
// functions, then coercing operand types and validating every aggregate
// expression, in the fixed batch order §4.5 prescribes: an ordered
// rule.Executor over named batches, each traced as its own span, with an
// invariant check after the run confirming nothing unresolved survived.
package analyzer

import (
	opentracing "github.com/opentracing/opentracing-go"

	"github.com/relcore/queryengine/sql"
	"github.com/relcore/queryengine/sql/expression"
	"github.com/relcore/queryengine/sql/rule"
	"github.com/relcore/queryengine/sql/transform"
)

// defaultRelationCacheSize bounds the number of distinct relation names
// a single Analyzer memoizes.
const defaultRelationCacheSize = 256

// Builder assembles an Analyzer from a catalog and function registry,
// the collaborators every batch below is parameterized over.
type Builder struct {
	Catalog           sql.Catalog
	Functions         sql.FunctionRegistry
	RelationCacheSize int
	MaxCoercionPasses int
}

// NewBuilder constructs a Builder with sensible defaults for cache size
// and coercion-batch iteration budget.
func NewBuilder(cat sql.Catalog, funcs sql.FunctionRegistry) *Builder {
	return &Builder{
		Catalog:           cat,
		Functions:         funcs,
		RelationCacheSize: defaultRelationCacheSize,
		MaxCoercionPasses: 8,
	}
}

// Build constructs the Analyzer's rule.Executor over the seven ordered
// batches of §4.5: substitute subqueries, resolve relations, resolve
// references, expand stars, resolve functions, coerce types, validate
// aggregates.
func (b *Builder) Build() *Analyzer {
	cache := newRelationCache(b.Catalog, b.RelationCacheSize)

	batches := []rule.Batch{
		rule.NewOnceBatch("substitute-subqueries",
			rule.NewRule("substitute-subqueries", substituteSubqueriesRule),
			rule.NewRule("lower-cross-joins", lowerCrossJoinsRule),
		),
		rule.NewOnceBatch("resolve-relations",
			rule.NewRule("resolve-relations", resolveRelationsRule(cache)),
		),
		rule.NewFixedPointBatch("resolve-references", 8,
			rule.NewRule("resolve-references", resolveReferencesRule),
		),
		rule.NewFixedPointBatch("expand-stars", 4,
			rule.NewRule("expand-stars", expandStarsRule),
		),
		rule.NewOnceBatch("resolve-functions",
			rule.NewRule("resolve-functions", resolveFunctionsRule(b.Functions)),
		),
		rule.NewFixedPointBatch("coerce-types", b.MaxCoercionPasses,
			rule.NewRule("coerce-expression-types", coerceExpressionTypesRule),
			rule.NewRule("coerce-union-types", coerceUnionTypesRule),
		),
		rule.NewOnceBatch("validate-aggregates",
			rule.NewRule("validate-aggregates", validateAggregateRule),
		),
	}

	return &Analyzer{exec: rule.NewExecutor(nil, batches...)}
}

// resolvedInvariant is checked once analysis finishes (§8 invariants
// 1-3): no Unresolved* placeholder or Star may survive, and the plan
// must report itself Resolved. It is not wired in as the Executor's
// per-batch InvariantCheck, since every batch before resolve-relations
// legitimately still has unresolved nodes in flight.
func resolvedInvariant(n sql.Node) error {
	if !n.Resolved() {
		unresolved := transform.Collect(n, func(node sql.Node) (sql.Node, bool) {
			return node, !node.Resolved()
		})
		if len(unresolved) > 0 {
			return sql.ErrUnresolvedAttribute.New(unresolved[0].String())
		}
		return sql.ErrUnresolvedAttribute.New(n.String())
	}

	var sawStar bool
	transform.Foreach(n, func(node sql.Node) {
		en, ok := node.(sql.Expressioner)
		if !ok {
			return
		}
		for _, e := range en.Expressions() {
			transform.ForeachExpr(e, func(sub sql.Expression) {
				if _, ok := sub.(*expression.Star); ok {
					sawStar = true
				}
			})
		}
	})
	if sawStar {
		return sql.ErrUnresolvedAttribute.New("*")
	}
	return nil
}

// Analyzer runs the ordered analysis batches over an unresolved plan.
type Analyzer struct {
	exec *rule.Executor
}

// Analyze fully resolves plan, returning an error if any batch fails or
// the post-run invariant check finds leftover unresolved state.
func (a *Analyzer) Analyze(ctx *sql.Context, n sql.Node) (sql.Node, error) {
	span, ctx := ctx.Span("analyzer.Analyze", opentracing.Tags{})
	defer span.Finish()

	result, err := a.exec.Run(ctx, n)
	if err != nil {
		return nil, err
	}
	if err := resolvedInvariant(result); err != nil {
		return nil, err
	}
	return result, nil
}
