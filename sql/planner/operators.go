package planner

import (
	"strings"

	"github.com/relcore/queryengine/sql"
	"github.com/relcore/queryengine/sql/plan"
	"github.com/relcore/queryengine/sql/planner/rowexec"
)

// Every Exec type below is a leaf/unary/binary physical operator: it
// knows how to run itself (Execute), what it needs of its children's row
// distribution, and what it guarantees about its own. Schema/String are
// captured at construction time from the logical node a Strategy lowered,
// since a physical operator never needs to recompute them from scratch
// the way a logical node recomputes from its expressions.

func asNode(n sql.Node) (Node, error) {
	pn, ok := n.(Node)
	if !ok {
		return nil, sql.ErrUnsupportedOperation.New("expected a physical planner.Node, got " + n.String())
	}
	return pn, nil
}

// TableScanExec reads rows from a catalog Handle (§4.7 strategy 1),
// optionally narrowing each row to Projection's field indices (strategy
// 2) and/or pruning by PartitionFilter, a predicate over only the
// relation's partition-key columns (strategy 3). It is always a leaf:
// RelationName is kept only for String/EXPLAIN.
type TableScanExec struct {
	RelationName    string
	Handle          interface{}
	Projection      []int
	PartitionFilter sql.Expression
	schema          sql.Schema
}

func (t *TableScanExec) Resolved() bool           { return true }
func (t *TableScanExec) Schema() sql.Schema       { return t.schema }
func (t *TableScanExec) Children() []sql.Node     { return nil }
func (t *TableScanExec) String() string           { return "TableScan(" + t.RelationName + ")" }

func (t *TableScanExec) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 0 {
		return nil, sql.ErrTreeShapeMismatch.New(t, len(children), 0)
	}
	return t, nil
}

func (t *TableScanExec) Execute(ctx *sql.Context) (sql.RowIter, error) {
	iter, err := rowexec.ScanPruned(ctx, t.Handle, t.PartitionFilter)
	if err != nil {
		return nil, err
	}
	if t.Projection != nil {
		iter = rowexec.Narrow(iter, t.Projection)
	}
	return iter, nil
}

func (t *TableScanExec) RequiredChildDistribution() []Distribution { return nil }
func (t *TableScanExec) OutputDistribution() Distribution          { return AllTuplesDistribution }

// FilterExec drops rows Predicate doesn't evaluate truthy (§4.7 basic
// operator lowering).
type FilterExec struct {
	Child     Node
	Predicate sql.Expression
	schema    sql.Schema
}

func (f *FilterExec) Resolved() bool       { return true }
func (f *FilterExec) Schema() sql.Schema   { return f.schema }
func (f *FilterExec) Children() []sql.Node { return []sql.Node{f.Child} }
func (f *FilterExec) String() string       { return "Filter(" + f.Predicate.String() + ")" }

func (f *FilterExec) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrTreeShapeMismatch.New(f, len(children), 1)
	}
	child, err := asNode(children[0])
	if err != nil {
		return nil, err
	}
	nf := *f
	nf.Child = child
	return &nf, nil
}

func (f *FilterExec) Execute(ctx *sql.Context) (sql.RowIter, error) {
	child, err := f.Child.Execute(ctx)
	if err != nil {
		return nil, err
	}
	return rowexec.Filter(ctx, child, f.Predicate), nil
}

func (f *FilterExec) RequiredChildDistribution() []Distribution { return []Distribution{UnspecifiedDistribution} }
func (f *FilterExec) OutputDistribution() Distribution           { return f.Child.OutputDistribution() }

// ProjectExec computes Exprs over every row of Child.
type ProjectExec struct {
	Child  Node
	Exprs  []sql.Expression
	schema sql.Schema
}

func (p *ProjectExec) Resolved() bool       { return true }
func (p *ProjectExec) Schema() sql.Schema   { return p.schema }
func (p *ProjectExec) Children() []sql.Node { return []sql.Node{p.Child} }

func (p *ProjectExec) String() string {
	parts := make([]string, len(p.Exprs))
	for i, e := range p.Exprs {
		parts[i] = e.String()
	}
	return "Project(" + strings.Join(parts, ", ") + ")"
}

func (p *ProjectExec) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrTreeShapeMismatch.New(p, len(children), 1)
	}
	child, err := asNode(children[0])
	if err != nil {
		return nil, err
	}
	np := *p
	np.Child = child
	return &np, nil
}

func (p *ProjectExec) Execute(ctx *sql.Context) (sql.RowIter, error) {
	child, err := p.Child.Execute(ctx)
	if err != nil {
		return nil, err
	}
	return rowexec.Project(ctx, child, p.Exprs), nil
}

func (p *ProjectExec) RequiredChildDistribution() []Distribution { return []Distribution{UnspecifiedDistribution} }

// OutputDistribution is always Unspecified: a projection can drop the
// very columns an upstream Clustered/Ordered label was keyed on, so
// carrying the child's label forward would be unsound.
func (p *ProjectExec) OutputDistribution() Distribution { return UnspecifiedDistribution }

// SortExec orders Child's rows by Orders, fully materializing them first
// (§4.7: Sort always requires AllTuples of its child).
type SortExec struct {
	Child  Node
	Orders []plan.SortOrder
	schema sql.Schema
}

func (s *SortExec) Resolved() bool       { return true }
func (s *SortExec) Schema() sql.Schema   { return s.schema }
func (s *SortExec) Children() []sql.Node { return []sql.Node{s.Child} }

func (s *SortExec) String() string {
	parts := make([]string, len(s.Orders))
	for i, o := range s.Orders {
		parts[i] = o.String()
	}
	return "Sort(" + strings.Join(parts, ", ") + ")"
}

func (s *SortExec) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrTreeShapeMismatch.New(s, len(children), 1)
	}
	child, err := asNode(children[0])
	if err != nil {
		return nil, err
	}
	ns := *s
	ns.Child = child
	return &ns, nil
}

func (s *SortExec) Execute(ctx *sql.Context) (sql.RowIter, error) {
	child, err := s.Child.Execute(ctx)
	if err != nil {
		return nil, err
	}
	return rowexec.Sort(ctx, child, sortKeysFromOrders(s.Orders))
}

func sortKeysFromOrders(orders []plan.SortOrder) []rowexec.SortKey {
	keys := make([]rowexec.SortKey, len(orders))
	for i, o := range orders {
		keys[i] = rowexec.SortKey{Expr: o.Expr, Descending: o.Descending}
	}
	return keys
}

func (s *SortExec) RequiredChildDistribution() []Distribution { return []Distribution{AllTuplesDistribution} }
func (s *SortExec) OutputDistribution() Distribution           { return OrderedDistribution(s.Orders...) }

// LimitExec caps Child to at most N rows.
type LimitExec struct {
	Child  Node
	N      int64
	schema sql.Schema
}

func (l *LimitExec) Resolved() bool       { return true }
func (l *LimitExec) Schema() sql.Schema   { return l.schema }
func (l *LimitExec) Children() []sql.Node { return []sql.Node{l.Child} }
func (l *LimitExec) String() string       { return "Limit(" + l.Child.String() + ")" }

func (l *LimitExec) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrTreeShapeMismatch.New(l, len(children), 1)
	}
	child, err := asNode(children[0])
	if err != nil {
		return nil, err
	}
	nl := *l
	nl.Child = child
	return &nl, nil
}

func (l *LimitExec) Execute(ctx *sql.Context) (sql.RowIter, error) {
	child, err := l.Child.Execute(ctx)
	if err != nil {
		return nil, err
	}
	return rowexec.Limit(child, l.N), nil
}

func (l *LimitExec) RequiredChildDistribution() []Distribution { return []Distribution{UnspecifiedDistribution} }
func (l *LimitExec) OutputDistribution() Distribution           { return l.Child.OutputDistribution() }

// OffsetExec skips Child's first N rows.
type OffsetExec struct {
	Child  Node
	N      int64
	schema sql.Schema
}

func (o *OffsetExec) Resolved() bool       { return true }
func (o *OffsetExec) Schema() sql.Schema   { return o.schema }
func (o *OffsetExec) Children() []sql.Node { return []sql.Node{o.Child} }
func (o *OffsetExec) String() string       { return "Offset(" + o.Child.String() + ")" }

func (o *OffsetExec) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrTreeShapeMismatch.New(o, len(children), 1)
	}
	child, err := asNode(children[0])
	if err != nil {
		return nil, err
	}
	no := *o
	no.Child = child
	return &no, nil
}

func (o *OffsetExec) Execute(ctx *sql.Context) (sql.RowIter, error) {
	child, err := o.Child.Execute(ctx)
	if err != nil {
		return nil, err
	}
	return rowexec.Offset(child, o.N), nil
}

func (o *OffsetExec) RequiredChildDistribution() []Distribution { return []Distribution{UnspecifiedDistribution} }
func (o *OffsetExec) OutputDistribution() Distribution           { return o.Child.OutputDistribution() }

// UnionExec concatenates Left's rows then Right's.
type UnionExec struct {
	Left, Right Node
	schema      sql.Schema
}

func (u *UnionExec) Resolved() bool       { return true }
func (u *UnionExec) Schema() sql.Schema   { return u.schema }
func (u *UnionExec) Children() []sql.Node { return []sql.Node{u.Left, u.Right} }
func (u *UnionExec) String() string       { return "Union" }

func (u *UnionExec) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 2 {
		return nil, sql.ErrTreeShapeMismatch.New(u, len(children), 2)
	}
	left, err := asNode(children[0])
	if err != nil {
		return nil, err
	}
	right, err := asNode(children[1])
	if err != nil {
		return nil, err
	}
	nu := *u
	nu.Left, nu.Right = left, right
	return &nu, nil
}

func (u *UnionExec) Execute(ctx *sql.Context) (sql.RowIter, error) {
	left, err := u.Left.Execute(ctx)
	if err != nil {
		return nil, err
	}
	right, err := u.Right.Execute(ctx)
	if err != nil {
		return nil, err
	}
	return rowexec.Union(left, right), nil
}

func (u *UnionExec) RequiredChildDistribution() []Distribution {
	return []Distribution{UnspecifiedDistribution, UnspecifiedDistribution}
}
func (u *UnionExec) OutputDistribution() Distribution { return UnspecifiedDistribution }

// GenerateExec applies Generator to every row of Child (§4.7 basic
// operator lowering of plan.Generate).
type GenerateExec struct {
	Child          Node
	Generator      sql.Generator
	Join           bool
	Outer          bool
	GeneratorWidth int
	schema         sql.Schema
}

func (g *GenerateExec) Resolved() bool       { return true }
func (g *GenerateExec) Schema() sql.Schema   { return g.schema }
func (g *GenerateExec) Children() []sql.Node { return []sql.Node{g.Child} }
func (g *GenerateExec) String() string       { return "Generate(" + g.Generator.String() + ")" }

func (g *GenerateExec) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrTreeShapeMismatch.New(g, len(children), 1)
	}
	child, err := asNode(children[0])
	if err != nil {
		return nil, err
	}
	ng := *g
	ng.Child = child
	return &ng, nil
}

func (g *GenerateExec) Execute(ctx *sql.Context) (sql.RowIter, error) {
	child, err := g.Child.Execute(ctx)
	if err != nil {
		return nil, err
	}
	return rowexec.Generate(ctx, child, g.Generator, g.Join, g.Outer, g.GeneratorWidth), nil
}

func (g *GenerateExec) RequiredChildDistribution() []Distribution { return []Distribution{UnspecifiedDistribution} }
func (g *GenerateExec) OutputDistribution() Distribution           { return UnspecifiedDistribution }

// InsertIntoExec writes Child's rows to Handle (§4.7 basic operator
// lowering of plan.InsertInto), emitting a single rows-written summary
// row.
type InsertIntoExec struct {
	Child     Node
	Handle    interface{}
	Partition map[string]interface{}
	schema    sql.Schema
}

func (i *InsertIntoExec) Resolved() bool       { return true }
func (i *InsertIntoExec) Schema() sql.Schema   { return i.schema }
func (i *InsertIntoExec) Children() []sql.Node { return []sql.Node{i.Child} }
func (i *InsertIntoExec) String() string       { return "InsertInto" }

func (i *InsertIntoExec) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrTreeShapeMismatch.New(i, len(children), 1)
	}
	child, err := asNode(children[0])
	if err != nil {
		return nil, err
	}
	ni := *i
	ni.Child = child
	return &ni, nil
}

func (i *InsertIntoExec) Execute(ctx *sql.Context) (sql.RowIter, error) {
	child, err := i.Child.Execute(ctx)
	if err != nil {
		return nil, err
	}
	return rowexec.InsertInto(ctx, child, i.Handle, i.Partition)
}

func (i *InsertIntoExec) RequiredChildDistribution() []Distribution { return []Distribution{UnspecifiedDistribution} }
func (i *InsertIntoExec) OutputDistribution() Distribution           { return AllTuplesDistribution }

// HashEquiJoinExec lowers a Join with an extractable equi-predicate
// (§4.7 strategy 3). LeftKeys/RightKeys are bound against their own side
// only; Residual (possibly nil) is bound against the combined row and
// applied after the hash probe.
type HashEquiJoinExec struct {
	Left, Right          Node
	LeftKeys, RightKeys  []sql.Expression
	Residual             sql.Expression
	JoinType             plan.JoinType
	LeftWidth, RightWidth int
	schema               sql.Schema
}

func (j *HashEquiJoinExec) Resolved() bool       { return true }
func (j *HashEquiJoinExec) Schema() sql.Schema   { return j.schema }
func (j *HashEquiJoinExec) Children() []sql.Node { return []sql.Node{j.Left, j.Right} }
func (j *HashEquiJoinExec) String() string       { return "HashEquiJoin(" + j.JoinType.String() + ")" }

func (j *HashEquiJoinExec) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 2 {
		return nil, sql.ErrTreeShapeMismatch.New(j, len(children), 2)
	}
	left, err := asNode(children[0])
	if err != nil {
		return nil, err
	}
	right, err := asNode(children[1])
	if err != nil {
		return nil, err
	}
	nj := *j
	nj.Left, nj.Right = left, right
	return &nj, nil
}

func (j *HashEquiJoinExec) Execute(ctx *sql.Context) (sql.RowIter, error) {
	left, err := j.Left.Execute(ctx)
	if err != nil {
		return nil, err
	}
	right, err := j.Right.Execute(ctx)
	if err != nil {
		return nil, err
	}
	iter, err := rowexec.HashEquiJoin(ctx, left, right, j.LeftKeys, j.RightKeys, j.JoinType, j.LeftWidth, j.RightWidth)
	if err != nil {
		return nil, err
	}
	if j.Residual != nil {
		iter = rowexec.Filter(ctx, iter, j.Residual)
	}
	return iter, nil
}

func (j *HashEquiJoinExec) RequiredChildDistribution() []Distribution {
	return []Distribution{ClusteredDistribution(j.LeftKeys...), ClusteredDistribution(j.RightKeys...)}
}
func (j *HashEquiJoinExec) OutputDistribution() Distribution { return UnspecifiedDistribution }

// BroadcastNestedLoopJoinExec lowers a Join with no extractable
// equi-predicate (§4.7 strategy 6): Right is fully materialized and
// probed, in full, against every row Left streams.
type BroadcastNestedLoopJoinExec struct {
	Left, Right           Node
	Condition             sql.Expression
	JoinType              plan.JoinType
	LeftWidth, RightWidth int
	schema                sql.Schema
}

func (j *BroadcastNestedLoopJoinExec) Resolved() bool       { return true }
func (j *BroadcastNestedLoopJoinExec) Schema() sql.Schema   { return j.schema }
func (j *BroadcastNestedLoopJoinExec) Children() []sql.Node { return []sql.Node{j.Left, j.Right} }
func (j *BroadcastNestedLoopJoinExec) String() string {
	return "BroadcastNestedLoopJoin(" + j.JoinType.String() + ")"
}

func (j *BroadcastNestedLoopJoinExec) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 2 {
		return nil, sql.ErrTreeShapeMismatch.New(j, len(children), 2)
	}
	left, err := asNode(children[0])
	if err != nil {
		return nil, err
	}
	right, err := asNode(children[1])
	if err != nil {
		return nil, err
	}
	nj := *j
	nj.Left, nj.Right = left, right
	return &nj, nil
}

func (j *BroadcastNestedLoopJoinExec) Execute(ctx *sql.Context) (sql.RowIter, error) {
	left, err := j.Left.Execute(ctx)
	if err != nil {
		return nil, err
	}
	right, err := j.Right.Execute(ctx)
	if err != nil {
		return nil, err
	}
	return rowexec.BroadcastNestedLoopJoin(ctx, left, right, j.Condition, j.JoinType, j.LeftWidth, j.RightWidth)
}

func (j *BroadcastNestedLoopJoinExec) RequiredChildDistribution() []Distribution {
	return []Distribution{UnspecifiedDistribution, AllTuplesDistribution}
}
func (j *BroadcastNestedLoopJoinExec) OutputDistribution() Distribution { return UnspecifiedDistribution }

// CartesianProductExec lowers a Join with no condition at all (§4.7
// strategy 7): a CrossJoin, or an InnerJoin(true).
type CartesianProductExec struct {
	Left, Right Node
	schema      sql.Schema
}

func (c *CartesianProductExec) Resolved() bool       { return true }
func (c *CartesianProductExec) Schema() sql.Schema   { return c.schema }
func (c *CartesianProductExec) Children() []sql.Node { return []sql.Node{c.Left, c.Right} }
func (c *CartesianProductExec) String() string       { return "CartesianProduct" }

func (c *CartesianProductExec) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 2 {
		return nil, sql.ErrTreeShapeMismatch.New(c, len(children), 2)
	}
	left, err := asNode(children[0])
	if err != nil {
		return nil, err
	}
	right, err := asNode(children[1])
	if err != nil {
		return nil, err
	}
	nc := *c
	nc.Left, nc.Right = left, right
	return &nc, nil
}

func (c *CartesianProductExec) Execute(ctx *sql.Context) (sql.RowIter, error) {
	left, err := c.Left.Execute(ctx)
	if err != nil {
		return nil, err
	}
	right, err := c.Right.Execute(ctx)
	if err != nil {
		return nil, err
	}
	return rowexec.CartesianProduct(ctx, left, right)
}

func (c *CartesianProductExec) RequiredChildDistribution() []Distribution {
	return []Distribution{UnspecifiedDistribution, AllTuplesDistribution}
}
func (c *CartesianProductExec) OutputDistribution() Distribution { return UnspecifiedDistribution }

// GroupAggregateExec is the non-partial fallback (§4.7 strategy 5's
// fallback): it requires its child fully collapsed to one partition,
// groups in a single pass, and projects OutputExprs (bound against the
// synthetic group-keys-then-aggregate-results row) over the result.
type GroupAggregateExec struct {
	Child       Node
	GroupBy     []sql.Expression
	Aggs        []sql.Aggregation
	OutputExprs []sql.Expression
	schema      sql.Schema
}

func (a *GroupAggregateExec) Resolved() bool       { return true }
func (a *GroupAggregateExec) Schema() sql.Schema   { return a.schema }
func (a *GroupAggregateExec) Children() []sql.Node { return []sql.Node{a.Child} }
func (a *GroupAggregateExec) String() string       { return "Aggregate" }

func (a *GroupAggregateExec) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrTreeShapeMismatch.New(a, len(children), 1)
	}
	child, err := asNode(children[0])
	if err != nil {
		return nil, err
	}
	na := *a
	na.Child = child
	return &na, nil
}

func (a *GroupAggregateExec) Execute(ctx *sql.Context) (sql.RowIter, error) {
	child, err := a.Child.Execute(ctx)
	if err != nil {
		return nil, err
	}
	grouped, err := rowexec.GroupAggregate(ctx, child, a.GroupBy, a.Aggs)
	if err != nil {
		return nil, err
	}
	return rowexec.Project(ctx, grouped, a.OutputExprs), nil
}

func (a *GroupAggregateExec) RequiredChildDistribution() []Distribution { return []Distribution{AllTuplesDistribution} }
func (a *GroupAggregateExec) OutputDistribution() Distribution           { return AllTuplesDistribution }

// PartialAggregateExec is the local half of the two-phase decomposition
// (§4.7 strategy 5): it computes a per-group buffer for each
// PartialAggregation without ever calling EvalBuffer, leaving the final
// result to FinalAggregateExec once an Exchange clusters by group key.
type PartialAggregateExec struct {
	Child        Node
	GroupBy      []sql.Expression
	PartialAggs  []sql.PartialAggregation
	groupKeyRefs []sql.Expression
	schema       sql.Schema
}

func (a *PartialAggregateExec) Resolved() bool       { return true }
func (a *PartialAggregateExec) Schema() sql.Schema   { return a.schema }
func (a *PartialAggregateExec) Children() []sql.Node { return []sql.Node{a.Child} }
func (a *PartialAggregateExec) String() string       { return "PartialAggregate" }

func (a *PartialAggregateExec) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrTreeShapeMismatch.New(a, len(children), 1)
	}
	child, err := asNode(children[0])
	if err != nil {
		return nil, err
	}
	na := *a
	na.Child = child
	return &na, nil
}

func (a *PartialAggregateExec) Execute(ctx *sql.Context) (sql.RowIter, error) {
	child, err := a.Child.Execute(ctx)
	if err != nil {
		return nil, err
	}
	return rowexec.PartialAggregate(ctx, child, a.GroupBy, a.PartialAggs)
}

func (a *PartialAggregateExec) RequiredChildDistribution() []Distribution { return []Distribution{UnspecifiedDistribution} }

func (a *PartialAggregateExec) OutputDistribution() Distribution {
	return ClusteredDistribution(a.groupKeyRefs...)
}

// FinalAggregateExec is the merge half of the two-phase decomposition:
// it re-groups PartialAggregateExec's output (clustered by the same
// GroupBy keys, at the same leading field positions) and merges each
// aggregation's partial buffer, identified by Offsets/Widths taken from
// PartialSchema, before evaluating it.
type FinalAggregateExec struct {
	Child        Node
	NumGroupBy   int
	FinalAggs    []sql.PartialAggregation
	Offsets      []int
	Widths       []int
	OutputExprs  []sql.Expression
	groupKeyRefs []sql.Expression
	schema       sql.Schema
}

func (a *FinalAggregateExec) Resolved() bool       { return true }
func (a *FinalAggregateExec) Schema() sql.Schema   { return a.schema }
func (a *FinalAggregateExec) Children() []sql.Node { return []sql.Node{a.Child} }
func (a *FinalAggregateExec) String() string       { return "FinalAggregate" }

func (a *FinalAggregateExec) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrTreeShapeMismatch.New(a, len(children), 1)
	}
	child, err := asNode(children[0])
	if err != nil {
		return nil, err
	}
	na := *a
	na.Child = child
	return &na, nil
}

func (a *FinalAggregateExec) Execute(ctx *sql.Context) (sql.RowIter, error) {
	child, err := a.Child.Execute(ctx)
	if err != nil {
		return nil, err
	}
	merged, err := rowexec.FinalAggregate(ctx, child, a.NumGroupBy, a.FinalAggs, a.Offsets, a.Widths)
	if err != nil {
		return nil, err
	}
	return rowexec.Project(ctx, merged, a.OutputExprs), nil
}

func (a *FinalAggregateExec) RequiredChildDistribution() []Distribution {
	return []Distribution{ClusteredDistribution(a.groupKeyRefs...)}
}
func (a *FinalAggregateExec) OutputDistribution() Distribution { return AllTuplesDistribution }

// ExchangeExec redistributes Child's rows to satisfy Target. With no
// real multi-partition runtime behind this engine, a Clustered or
// AllTuples target has no observable effect on row order and is a pure
// pass-through; an Ordered target is realized as an actual sort, since
// that is the one distribution guarantee this single-stream model can't
// get for free.
type ExchangeExec struct {
	Child  Node
	Target Distribution
	schema sql.Schema
}

func (e *ExchangeExec) Resolved() bool       { return true }
func (e *ExchangeExec) Schema() sql.Schema   { return e.schema }
func (e *ExchangeExec) Children() []sql.Node { return []sql.Node{e.Child} }
func (e *ExchangeExec) String() string       { return "Exchange(" + e.Target.String() + ")" }

func (e *ExchangeExec) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrTreeShapeMismatch.New(e, len(children), 1)
	}
	child, err := asNode(children[0])
	if err != nil {
		return nil, err
	}
	ne := *e
	ne.Child = child
	return &ne, nil
}

func (e *ExchangeExec) Execute(ctx *sql.Context) (sql.RowIter, error) {
	child, err := e.Child.Execute(ctx)
	if err != nil {
		return nil, err
	}
	if e.Target.kind == kindOrdered {
		return rowexec.Sort(ctx, child, sortKeysFromOrders(e.Target.orders))
	}
	return child, nil
}

func (e *ExchangeExec) RequiredChildDistribution() []Distribution { return []Distribution{UnspecifiedDistribution} }
func (e *ExchangeExec) OutputDistribution() Distribution           { return e.Target }
