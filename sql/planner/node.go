package planner

import (
	"github.com/relcore/queryengine/sql"
)

// Node is a physical plan operator. It satisfies sql.Node (so the C1 tree
// kernel's transform helpers work over physical trees the same way they
// do over logical ones) and additionally knows how to produce rows and
// what it requires/guarantees about row distribution (§4.7).
type Node interface {
	sql.Node
	// Execute runs this operator, returning an iterator over its output
	// rows.
	Execute(ctx *sql.Context) (sql.RowIter, error)
	// RequiredChildDistribution reports, in child order, the
	// distribution this operator needs each child to already have.
	RequiredChildDistribution() []Distribution
	// OutputDistribution reports this operator's own output
	// distribution.
	OutputDistribution() Distribution
}

// PlanLater is a placeholder a Strategy emits in place of a child it has
// not yet lowered to a physical operator; the planner recursively plans
// it and substitutes the result before the parent is considered done
// (§4.7).
type PlanLater struct {
	Logical sql.Node
}

// NewPlanLater wraps a logical subtree awaiting physical planning.
func NewPlanLater(logical sql.Node) *PlanLater {
	return &PlanLater{Logical: logical}
}

func (p *PlanLater) Resolved() bool      { return p.Logical.Resolved() }
func (p *PlanLater) String() string      { return "PlanLater(" + p.Logical.String() + ")" }
func (p *PlanLater) Schema() sql.Schema  { return p.Logical.Schema() }
func (p *PlanLater) Children() []sql.Node { return nil }

func (p *PlanLater) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 0 {
		return nil, sql.ErrTreeShapeMismatch.New(p, len(children), 0)
	}
	return p, nil
}

// Execute always fails: a PlanLater must be replaced by the planner
// before any physical tree reaches execution. It exists purely as an
// intermediate placeholder inside a Strategy's returned candidate.
func (p *PlanLater) Execute(ctx *sql.Context) (sql.RowIter, error) {
	return nil, sql.ErrUnsupportedOperation.New("PlanLater must be resolved by the planner before execution")
}

func (p *PlanLater) RequiredChildDistribution() []Distribution { return nil }
func (p *PlanLater) OutputDistribution() Distribution           { return UnspecifiedDistribution }
