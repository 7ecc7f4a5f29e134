package plan

import (
	"github.com/relcore/queryengine/sql"
	"github.com/relcore/queryengine/sql/expression"
)

// Union concatenates Left's and Right's rows. Union itself performs no
// column coercion; the analyzer's coerce-union-types rule casts the
// right branch's columns to the left branch's types where they differ.
type Union struct {
	BinaryNode
}

// NewUnion constructs a Union of left and right.
func NewUnion(left, right sql.Node) *Union {
	return &Union{BinaryNode{Left: left, Right: right}}
}

func (u *Union) Schema() sql.Schema { return u.Left.Schema() }
func (u *Union) String() string     { return "Union" }

// Output reports the left side's output references; a Union's columns
// are those of its left side.
func (u *Union) Output() []*expression.AttributeReference { return childOutput(u.Left) }

func (u *Union) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 2 {
		return nil, sql.ErrTreeShapeMismatch.New(u, len(children), 2)
	}
	nu := *u
	nu.Left, nu.Right = children[0], children[1]
	return &nu, nil
}

// Distinct removes duplicate rows from its child's output (§6
// Supplemented features: sugar the physical planner's distinct strategy
// rewrites into an Aggregate grouping by every output column with no
// aggregate expressions, so the existing Aggregate strategies execute it
// without a dedicated physical operator).
type Distinct struct {
	UnaryNode
}

// NewDistinct constructs a Distinct over child.
func NewDistinct(child sql.Node) *Distinct {
	return &Distinct{UnaryNode{Child: child}}
}

func (d *Distinct) Schema() sql.Schema { return d.Child.Schema() }
func (d *Distinct) String() string     { return "Distinct" }

// Output passes the child's output through unchanged.
func (d *Distinct) Output() []*expression.AttributeReference { return childOutput(d.Child) }

func (d *Distinct) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrTreeShapeMismatch.New(d, len(children), 1)
	}
	nd := *d
	nd.Child = children[0]
	return &nd, nil
}

// AsAggregate lowers Distinct to Aggregate(groupBy=every output column,
// selectedExprs=every output column), the rewrite the physical planner's
// distinctStrategy performs before the aggregate strategies run.
func (d *Distinct) AsAggregate() *Aggregate {
	output := childOutput(d.Child)
	groupBy := make([]sql.Expression, len(output))
	selected := make([]sql.Expression, len(output))
	for i, ref := range output {
		groupBy[i] = ref
		selected[i] = ref
	}
	return NewAggregate(groupBy, selected, d.Child)
}
