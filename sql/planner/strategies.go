package planner

import (
	"github.com/relcore/queryengine/sql"
	"github.com/relcore/queryengine/sql/expression"
	"github.com/relcore/queryengine/sql/plan"
	"github.com/relcore/queryengine/sql/transform"
)

// Strategy attempts to lower a single logical node into a physical
// operator, leaving any child it hasn't itself lowered wrapped in a
// PlanLater for Plan to resolve afterward. ok is false when n's shape
// doesn't match what this strategy looks for, letting the next strategy
// in priority order try (§4.7).
type Strategy func(ctx *sql.Context, n sql.Node) (candidate Node, ok bool, err error)

// strategies is every physical strategy in priority order: the first
// match wins, since this planner has no cost model to pick among
// several candidates.
var strategies = []Strategy{
	distinctStrategy,
	insertIntoStrategy,
	partitionPruningStrategy,
	tableScanStrategy,
	equiJoinStrategy,
	cartesianProductStrategy,
	broadcastJoinStrategy,
	partialAggregateStrategy,
	groupAggregateStrategy,
	basicOperatorStrategy,
}

func later(n sql.Node) Node { return NewPlanLater(n) }

func outputWidth(n sql.Node) int {
	if o, ok := n.(plan.Outputter); ok {
		return len(o.Output())
	}
	return len(n.Schema())
}

func outputIDSet(n sql.Node) map[sql.AttributeID]bool {
	set := make(map[sql.AttributeID]bool)
	if o, ok := n.(plan.Outputter); ok {
		for _, a := range o.Output() {
			set[a.ID] = true
		}
	}
	return set
}

// distinctStrategy rewrites Distinct to the equivalent grouping Aggregate
// (§6 Supplemented features) and hands it back to the planner rather than
// building a physical node itself, so the full aggregate-strategy
// priority order — partial decomposition first, non-partial fallback
// second — applies to it exactly as it would to a user-written GROUP BY.
func distinctStrategy(ctx *sql.Context, n sql.Node) (Node, bool, error) {
	d, ok := n.(*plan.Distinct)
	if !ok {
		return nil, false, nil
	}
	return later(d.AsAggregate()), true, nil
}

// insertIntoStrategy lowers a write (§4.4, §4.7 basic operator family).
// PartitionSpec's values must be constant-foldable; they are evaluated
// once here rather than per row.
func insertIntoStrategy(ctx *sql.Context, n sql.Node) (Node, bool, error) {
	ins, ok := n.(*plan.InsertInto)
	if !ok {
		return nil, false, nil
	}
	rel, ok := ins.Target().(*plan.Relation)
	if !ok {
		return nil, false, sql.ErrUnsupportedOperation.New("InsertInto: target is not a resolved Relation")
	}

	var partition map[string]interface{}
	if len(ins.PartitionSpec) > 0 {
		partition = make(map[string]interface{}, len(ins.PartitionSpec))
		for col, expr := range ins.PartitionSpec {
			v, err := expr.Eval(ctx, nil)
			if err != nil {
				return nil, false, err
			}
			partition[col] = v
		}
	}

	return &InsertIntoExec{
		Child:     later(ins.Source()),
		Handle:    rel.Handle,
		Partition: partition,
		schema:    ins.Schema(),
	}, true, nil
}

// tableScanStrategy covers both scan strategies: a Project over a bare
// Relation whose projections are all plain column references pushes down
// into the scan itself (strategy 2); anything else over a bare Relation
// falls back to a full scan (strategy 1).
func tableScanStrategy(ctx *sql.Context, n sql.Node) (Node, bool, error) {
	if proj, ok := n.(*plan.Project); ok {
		if rel, ok := proj.Child.(*plan.Relation); ok {
			if indices, ok := projectionIndices(proj.Projections, rel); ok {
				return &TableScanExec{
					RelationName: rel.Name(),
					Handle:       rel.Handle,
					Projection:   indices,
					schema:       proj.Schema(),
				}, true, nil
			}
		}
	}

	rel, ok := n.(*plan.Relation)
	if !ok {
		return nil, false, nil
	}
	return &TableScanExec{
		RelationName: rel.Name(),
		Handle:       rel.Handle,
		schema:       rel.Schema(),
	}, true, nil
}

func projectionIndices(exprs []sql.Expression, rel *plan.Relation) ([]int, bool) {
	positions := make(map[sql.AttributeID]int, len(rel.Attrs))
	for i, a := range rel.Attrs {
		positions[a.ID] = i
	}
	indices := make([]int, len(exprs))
	for i, e := range exprs {
		ref, ok := e.(*expression.AttributeReference)
		if !ok {
			return nil, false
		}
		idx, ok := positions[ref.ID]
		if !ok {
			return nil, false
		}
		indices[i] = idx
	}
	return indices, true
}

// partitionPruningStrategy lowers a Filter directly over a partitioned
// Relation by splitting its predicate (§4.7 strategy 3): conjuncts that
// reference only partition-key columns become the scan's pruning filter,
// evaluated against whole partitions rather than individual rows when
// Handle supports it; any remaining conjuncts stay a Filter above the
// scan. It declines when the relation carries no partition keys or when
// no conjunct is prunable, leaving tableScanStrategy and
// basicOperatorStrategy to lower the Filter the ordinary way.
func partitionPruningStrategy(ctx *sql.Context, n sql.Node) (Node, bool, error) {
	f, ok := n.(*plan.Filter)
	if !ok {
		return nil, false, nil
	}
	rel, ok := f.Child.(*plan.Relation)
	if !ok || len(rel.PartitionKeys) == 0 {
		return nil, false, nil
	}

	partitionCols := make(map[string]bool, len(rel.PartitionKeys))
	for _, k := range rel.PartitionKeys {
		partitionCols[k] = true
	}

	var pruning, residual []sql.Expression
	for _, conjunct := range splitConjuncts(f.Predicate) {
		if refsOnlyPartitionColumns(conjunct, partitionCols) {
			pruning = append(pruning, conjunct)
		} else {
			residual = append(residual, conjunct)
		}
	}
	if len(pruning) == 0 {
		return nil, false, nil
	}

	boundPruning, err := bindExpression(combineConjuncts(pruning), rel)
	if err != nil {
		return nil, false, err
	}

	scan := &TableScanExec{
		RelationName:    rel.Name(),
		Handle:          rel.Handle,
		PartitionFilter: boundPruning,
		schema:          rel.Schema(),
	}
	if len(residual) == 0 {
		return scan, true, nil
	}

	boundResidual, err := bindExpression(combineConjuncts(residual), rel)
	if err != nil {
		return nil, false, err
	}
	return &FilterExec{Child: scan, Predicate: boundResidual, schema: f.Schema()}, true, nil
}

// refsOnlyPartitionColumns reports whether every AttributeReference in e
// names a column in partitionCols.
func refsOnlyPartitionColumns(e sql.Expression, partitionCols map[string]bool) bool {
	for _, ref := range expression.References(e) {
		if !partitionCols[ref.Name()] {
			return false
		}
	}
	return true
}

// equiJoinStrategy lowers a Join whose Condition contains at least one
// equality conjunct with one side referencing only Left and the other
// only Right, into a HashEquiJoinExec (§4.7 strategy 3). Any remaining
// conjunct becomes a Residual filter applied after the hash probe.
func equiJoinStrategy(ctx *sql.Context, n sql.Node) (Node, bool, error) {
	j, ok := n.(*plan.Join)
	if !ok {
		return nil, false, nil
	}
	leftExprs, rightExprs, residual, ok := extractEquiJoinKeys(j.Condition, j.Left, j.Right)
	if !ok {
		return nil, false, nil
	}

	leftKeys, err := bindExpressions(leftExprs, j.Left)
	if err != nil {
		return nil, false, err
	}
	rightKeys, err := bindExpressions(rightExprs, j.Right)
	if err != nil {
		return nil, false, err
	}
	var boundResidual sql.Expression
	if residual != nil {
		boundResidual, err = bindExpression(residual, j.Left, j.Right)
		if err != nil {
			return nil, false, err
		}
	}

	return &HashEquiJoinExec{
		Left: later(j.Left), Right: later(j.Right),
		LeftKeys: leftKeys, RightKeys: rightKeys,
		Residual:   boundResidual,
		JoinType:   j.Type,
		LeftWidth:  outputWidth(j.Left),
		RightWidth: outputWidth(j.Right),
		schema:     j.Schema(),
	}, true, nil
}

func extractEquiJoinKeys(condition sql.Expression, left, right sql.Node) (leftExprs, rightExprs []sql.Expression, residual sql.Expression, ok bool) {
	leftIDs := outputIDSet(left)
	rightIDs := outputIDSet(right)

	var residuals []sql.Expression
	for _, conjunct := range splitConjuncts(condition) {
		cmp, isCmp := conjunct.(*expression.Comparison)
		if !isCmp || !cmp.IsEquality() {
			residuals = append(residuals, conjunct)
			continue
		}

		l, r := cmp.Left, cmp.Right
		switch {
		case refsSubsetOf(l, leftIDs) && refsSubsetOf(r, rightIDs):
			leftExprs = append(leftExprs, l)
			rightExprs = append(rightExprs, r)
		case refsSubsetOf(l, rightIDs) && refsSubsetOf(r, leftIDs):
			leftExprs = append(leftExprs, r)
			rightExprs = append(rightExprs, l)
		default:
			residuals = append(residuals, conjunct)
		}
	}
	if len(leftExprs) == 0 {
		return nil, nil, nil, false
	}
	return leftExprs, rightExprs, combineConjuncts(residuals), true
}

func splitConjuncts(e sql.Expression) []sql.Expression {
	if and, ok := e.(*expression.And); ok {
		return append(splitConjuncts(and.Left), splitConjuncts(and.Right)...)
	}
	return []sql.Expression{e}
}

func combineConjuncts(exprs []sql.Expression) sql.Expression {
	if len(exprs) == 0 {
		return nil
	}
	out := exprs[0]
	for _, e := range exprs[1:] {
		out = expression.NewAnd(out, e)
	}
	return out
}

func refsSubsetOf(e sql.Expression, ids map[sql.AttributeID]bool) bool {
	for _, ref := range expression.References(e) {
		if !ids[ref.ID] {
			return false
		}
	}
	return true
}

// cartesianProductStrategy lowers a Join whose Condition is the literal
// true (a normalized CrossJoin) into a CartesianProductExec (§4.7
// strategy 7).
func cartesianProductStrategy(ctx *sql.Context, n sql.Node) (Node, bool, error) {
	j, ok := n.(*plan.Join)
	if !ok {
		return nil, false, nil
	}
	lit, ok := j.Condition.(*expression.Literal)
	if !ok || lit.Value != true {
		return nil, false, nil
	}
	return &CartesianProductExec{
		Left: later(j.Left), Right: later(j.Right),
		schema: j.Schema(),
	}, true, nil
}

// broadcastJoinStrategy is the fallback for any Join neither of the two
// strategies above matched: a condition with no extractable equi-conjunct
// (§4.7 strategy 6).
func broadcastJoinStrategy(ctx *sql.Context, n sql.Node) (Node, bool, error) {
	j, ok := n.(*plan.Join)
	if !ok {
		return nil, false, nil
	}
	cond, err := bindExpression(j.Condition, j.Left, j.Right)
	if err != nil {
		return nil, false, err
	}
	return &BroadcastNestedLoopJoinExec{
		Left: later(j.Left), Right: later(j.Right),
		Condition:  cond,
		JoinType:   j.Type,
		LeftWidth:  outputWidth(j.Left),
		RightWidth: outputWidth(j.Right),
		schema:     j.Schema(),
	}, true, nil
}

// collectAggregations gathers every distinct (by identity) Aggregation
// reachable anywhere in selectedExprs, in first-encounter order — the
// fixed order their results occupy in the synthetic group row every
// Aggregate lowering produces.
func collectAggregations(selectedExprs []sql.Expression) []sql.Aggregation {
	var aggs []sql.Aggregation
	seen := make(map[sql.Aggregation]bool)
	for _, e := range selectedExprs {
		found := transform.CollectExpr(e, func(x sql.Expression) (sql.Aggregation, bool) {
			a, ok := x.(sql.Aggregation)
			return a, ok
		})
		for _, a := range found {
			if !seen[a] {
				seen[a] = true
				aggs = append(aggs, a)
			}
		}
	}
	return aggs
}

// rewriteAggregateOutput rebuilds selectedExprs so every GroupBy
// reference and every Aggregation becomes a BoundReference into the
// synthetic group row (group keys at the front, one field per aggs entry
// after, in aggs' order) that GroupAggregateExec and FinalAggregateExec
// both produce. Matching against groupBy must use the original unbound
// expressions — transform.ExprsEqual compares AttributeReferences by id,
// which a BoundReference could never satisfy. ExprDown's pre-order walk,
// recursing only into a replaced node's new (here: childless) children,
// is what keeps this from also rewriting an Aggregation's own Arg.
func rewriteAggregateOutput(selectedExprs, groupBy []sql.Expression, aggs []sql.Aggregation) ([]sql.Expression, error) {
	aggIndex := make(map[sql.Aggregation]int, len(aggs))
	for i, a := range aggs {
		aggIndex[a] = i
	}
	numGroupBy := len(groupBy)

	out := make([]sql.Expression, len(selectedExprs))
	for i, e := range selectedExprs {
		rewritten, _, err := transform.ExprDown(e, func(x sql.Expression) (sql.Expression, transform.TreeIdentity, error) {
			if a, ok := x.(sql.Aggregation); ok {
				if idx, ok := aggIndex[a]; ok {
					return expression.NewBoundReference(a.String(), a.Type(), a.IsNullable(), 0, numGroupBy+idx), transform.NewTree, nil
				}
			}
			for gi, g := range groupBy {
				if transform.ExprsEqual(g, x) {
					return expression.NewBoundReference(x.String(), x.Type(), x.IsNullable(), 0, gi), transform.NewTree, nil
				}
			}
			return x, transform.SameTree, nil
		})
		if err != nil {
			return nil, err
		}
		out[i] = rewritten
	}
	return out, nil
}

// partialAggregateStrategy lowers an Aggregate into the two-phase
// partial/final decomposition (§4.7 strategy 5) when every aggregation it
// selects implements sql.PartialAggregation; otherwise it declines and
// groupAggregateStrategy's non-partial fallback applies.
func partialAggregateStrategy(ctx *sql.Context, n sql.Node) (Node, bool, error) {
	agg, ok := n.(*plan.Aggregate)
	if !ok {
		return nil, false, nil
	}
	rawAggs := collectAggregations(agg.SelectedExprs)
	if len(rawAggs) == 0 {
		return nil, false, nil
	}

	partials := make([]sql.PartialAggregation, len(rawAggs))
	for i, a := range rawAggs {
		p, ok := a.(sql.PartialAggregation)
		if !ok {
			return nil, false, nil
		}
		partials[i] = p
	}

	boundGroupBy, err := bindExpressions(agg.GroupBy, agg.Child)
	if err != nil {
		return nil, false, err
	}

	boundPartials := make([]sql.PartialAggregation, len(partials))
	for i, p := range partials {
		b, err := bindExpression(p, agg.Child)
		if err != nil {
			return nil, false, err
		}
		bp, ok := b.(sql.PartialAggregation)
		if !ok {
			return nil, false, sql.ErrUnsupportedOperation.New("bound aggregation lost its PartialAggregation shape")
		}
		boundPartials[i] = bp
	}

	groupKeyRefs := make([]sql.Expression, len(boundGroupBy))
	partialSchema := make(sql.Schema, 0, len(boundGroupBy))
	for i, g := range boundGroupBy {
		groupKeyRefs[i] = expression.NewBoundReference(g.String(), g.Type(), g.IsNullable(), 0, i)
		partialSchema = append(partialSchema, &sql.Column{Name: g.String(), Type: g.Type(), Nullable: g.IsNullable()})
	}

	offsets := make([]int, len(boundPartials))
	widths := make([]int, len(boundPartials))
	offset := len(boundGroupBy)
	for i, p := range boundPartials {
		offsets[i] = offset
		widths[i] = len(p.PartialSchema())
		offset += widths[i]
		partialSchema = append(partialSchema, p.PartialSchema()...)
	}

	outputExprs, err := rewriteAggregateOutput(agg.SelectedExprs, agg.GroupBy, rawAggs)
	if err != nil {
		return nil, false, err
	}

	partialExec := &PartialAggregateExec{
		Child:        later(agg.Child),
		GroupBy:      boundGroupBy,
		PartialAggs:  boundPartials,
		groupKeyRefs: groupKeyRefs,
		schema:       partialSchema,
	}

	return &FinalAggregateExec{
		Child:        partialExec,
		NumGroupBy:   len(boundGroupBy),
		FinalAggs:    boundPartials,
		Offsets:      offsets,
		Widths:       widths,
		OutputExprs:  outputExprs,
		groupKeyRefs: groupKeyRefs,
		schema:       agg.Schema(),
	}, true, nil
}

// groupAggregateStrategy is the non-partial fallback (§4.7 strategy 5's
// fallback): a single-pass Aggregate requiring its entire child
// collapsed into one partition, used whenever at least one selected
// aggregation (e.g. CountDistinct, by its own design) doesn't support
// the partial/final split.
func groupAggregateStrategy(ctx *sql.Context, n sql.Node) (Node, bool, error) {
	agg, ok := n.(*plan.Aggregate)
	if !ok {
		return nil, false, nil
	}

	rawAggs := collectAggregations(agg.SelectedExprs)
	boundGroupBy, err := bindExpressions(agg.GroupBy, agg.Child)
	if err != nil {
		return nil, false, err
	}

	boundAggs := make([]sql.Aggregation, len(rawAggs))
	for i, a := range rawAggs {
		b, err := bindExpression(a, agg.Child)
		if err != nil {
			return nil, false, err
		}
		ba, ok := b.(sql.Aggregation)
		if !ok {
			return nil, false, sql.ErrUnsupportedOperation.New("bound expression lost its Aggregation shape")
		}
		boundAggs[i] = ba
	}

	outputExprs, err := rewriteAggregateOutput(agg.SelectedExprs, agg.GroupBy, rawAggs)
	if err != nil {
		return nil, false, err
	}

	return &GroupAggregateExec{
		Child:       later(agg.Child),
		GroupBy:     boundGroupBy,
		Aggs:        boundAggs,
		OutputExprs: outputExprs,
		schema:      agg.Schema(),
	}, true, nil
}

// basicOperatorStrategy lowers every operator with no distribution or
// join-decomposition decision to make: it just binds its expressions
// against its child(ren) and wraps the rowexec constructor of the same
// name (§4.7 basic operator family).
func basicOperatorStrategy(ctx *sql.Context, n sql.Node) (Node, bool, error) {
	switch t := n.(type) {
	case *plan.Project:
		exprs, err := bindExpressions(t.Projections, t.Child)
		if err != nil {
			return nil, false, err
		}
		return &ProjectExec{Child: later(t.Child), Exprs: exprs, schema: t.Schema()}, true, nil

	case *plan.Filter:
		pred, err := bindExpression(t.Predicate, t.Child)
		if err != nil {
			return nil, false, err
		}
		return &FilterExec{Child: later(t.Child), Predicate: pred, schema: t.Schema()}, true, nil

	case *plan.Sort:
		orders := make([]plan.SortOrder, len(t.Keys))
		for i, k := range t.Keys {
			bound, err := bindExpression(k.Expr, t.Child)
			if err != nil {
				return nil, false, err
			}
			orders[i] = plan.SortOrder{Expr: bound, Descending: k.Descending}
		}
		return &SortExec{Child: later(t.Child), Orders: orders, schema: t.Schema()}, true, nil

	case *plan.Limit:
		return &LimitExec{Child: later(t.Child), N: t.N, schema: t.Schema()}, true, nil

	case *plan.Offset:
		return &OffsetExec{Child: later(t.Child), N: t.N, schema: t.Schema()}, true, nil

	case *plan.Union:
		return &UnionExec{Left: later(t.Left), Right: later(t.Right), schema: t.Schema()}, true, nil

	case *plan.Generate:
		gen, err := bindExpression(t.Generator, t.Child)
		if err != nil {
			return nil, false, err
		}
		g, ok := gen.(sql.Generator)
		if !ok {
			return nil, false, sql.ErrUnsupportedOperation.New("bound generator lost its Generator shape")
		}
		return &GenerateExec{
			Child: later(t.Child), Generator: g, Join: t.Join, Outer: t.Outer,
			GeneratorWidth: len(g.MakeOutput()), schema: t.Schema(),
		}, true, nil

	default:
		return nil, false, nil
	}
}
