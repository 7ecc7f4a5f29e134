package plan

import (
	"github.com/relcore/queryengine/sql"
	"github.com/relcore/queryengine/sql/expression"
	"github.com/relcore/queryengine/sql/types"
)

// JoinType identifies which rows a Join preserves when the condition
// doesn't match (§3.4, §4.4).
type JoinType byte

const (
	// InnerJoin keeps only rows where Condition matches on both sides.
	InnerJoin JoinType = iota
	// LeftOuterJoin preserves every left row, padding unmatched right
	// columns with null.
	LeftOuterJoin
	// RightOuterJoin preserves every right row, padding unmatched left
	// columns with null.
	RightOuterJoin
	// FullOuterJoin preserves every row from both sides.
	FullOuterJoin
)

func (t JoinType) String() string {
	switch t {
	case LeftOuterJoin:
		return "LeftOuterJoin"
	case RightOuterJoin:
		return "RightOuterJoin"
	case FullOuterJoin:
		return "FullOuterJoin"
	default:
		return "InnerJoin"
	}
}

// Join combines rows from Left and Right matching Condition (§4.4). The
// physical planner lowers this into HashEquiJoin, BroadcastNestedLoopJoin,
// or CartesianProduct depending on Condition's shape (§4.7 strategies
// 3/6/7).
type Join struct {
	BinaryNode
	Condition sql.Expression
	Type      JoinType
}

// NewJoin constructs a Join of the given type.
func NewJoin(left, right sql.Node, condition sql.Expression, joinType JoinType) *Join {
	return &Join{BinaryNode: BinaryNode{Left: left, Right: right}, Condition: condition, Type: joinType}
}

// NewInnerJoin constructs an InnerJoin.
func NewInnerJoin(left, right sql.Node, condition sql.Expression) *Join {
	return NewJoin(left, right, condition, InnerJoin)
}

// NewLeftOuterJoin constructs a LeftOuterJoin.
func NewLeftOuterJoin(left, right sql.Node, condition sql.Expression) *Join {
	return NewJoin(left, right, condition, LeftOuterJoin)
}

// NewRightOuterJoin constructs a RightOuterJoin.
func NewRightOuterJoin(left, right sql.Node, condition sql.Expression) *Join {
	return NewJoin(left, right, condition, RightOuterJoin)
}

// NewFullOuterJoin constructs a FullOuterJoin.
func NewFullOuterJoin(left, right sql.Node, condition sql.Expression) *Join {
	return NewJoin(left, right, condition, FullOuterJoin)
}

func (j *Join) Resolved() bool {
	return j.Left.Resolved() && j.Right.Resolved() && j.Condition.Resolved()
}

func (j *Join) Expressions() []sql.Expression { return []sql.Expression{j.Condition} }

func (j *Join) WithExpressions(exprs ...sql.Expression) (sql.Node, error) {
	if len(exprs) != 1 {
		return nil, sql.ErrTreeShapeMismatch.New(j, len(exprs), 1)
	}
	nj := *j
	nj.Condition = exprs[0]
	return &nj, nil
}

// Schema concatenates both children's schemas, marking the
// non-preserved side's columns nullable per the outer-join rule (§3.4's
// NullableJoin applied at the plan level).
func (j *Join) Schema() sql.Schema {
	left, right := j.Left.Schema(), j.Right.Schema()
	out := make(sql.Schema, 0, len(left)+len(right))

	leftNullable := j.Type == RightOuterJoin || j.Type == FullOuterJoin
	rightNullable := j.Type == LeftOuterJoin || j.Type == FullOuterJoin

	for _, c := range left {
		nc := *c
		nc.Nullable = types.NullableJoin(c.Nullable, leftNullable)
		out = append(out, &nc)
	}
	for _, c := range right {
		nc := *c
		nc.Nullable = types.NullableJoin(c.Nullable, rightNullable)
		out = append(out, &nc)
	}
	return out
}

// Output concatenates both children's output references, adjusting
// nullability on the non-preserved side the same way Schema does.
func (j *Join) Output() []*expression.AttributeReference {
	left, right := childOutput(j.Left), childOutput(j.Right)
	out := make([]*expression.AttributeReference, 0, len(left)+len(right))

	leftNullable := j.Type == RightOuterJoin || j.Type == FullOuterJoin
	rightNullable := j.Type == LeftOuterJoin || j.Type == FullOuterJoin

	for _, a := range left {
		out = append(out, a.WithNullable(types.NullableJoin(a.IsNullable(), leftNullable)))
	}
	for _, a := range right {
		out = append(out, a.WithNullable(types.NullableJoin(a.IsNullable(), rightNullable)))
	}
	return out
}

func (j *Join) String() string {
	return j.Type.String() + "(" + j.Condition.String() + ")"
}

func (j *Join) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 2 {
		return nil, sql.ErrTreeShapeMismatch.New(j, len(children), 2)
	}
	nj := *j
	nj.Left, nj.Right = children[0], children[1]
	return &nj, nil
}

// CrossJoin is sugar for an InnerJoin whose Condition is the literal
// true, kept as its own node so EXPLAIN output and the physical
// planner's CartesianProduct strategy (§4.7 strategy 7) can recognize it
// without inspecting the predicate shape.
type CrossJoin struct {
	BinaryNode
}

// NewCrossJoin constructs a CrossJoin.
func NewCrossJoin(left, right sql.Node) *CrossJoin {
	return &CrossJoin{BinaryNode{Left: left, Right: right}}
}

func (c *CrossJoin) Schema() sql.Schema {
	return append(append(sql.Schema{}, c.Left.Schema()...), c.Right.Schema()...)
}

// Output concatenates both children's output references unchanged.
func (c *CrossJoin) Output() []*expression.AttributeReference {
	return append(append([]*expression.AttributeReference{}, childOutput(c.Left)...), childOutput(c.Right)...)
}

func (c *CrossJoin) String() string { return "CrossJoin" }

func (c *CrossJoin) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 2 {
		return nil, sql.ErrTreeShapeMismatch.New(c, len(children), 2)
	}
	nc := *c
	nc.Left, nc.Right = children[0], children[1]
	return &nc, nil
}

// AsJoin lowers a CrossJoin to the equivalent InnerJoin(true) shape the
// analyzer's substitute-subqueries batch normalizes every FROM-clause
// join to, per §6 Supplemented features.
func (c *CrossJoin) AsJoin() *Join {
	return NewInnerJoin(c.Left, c.Right, expression.NewLiteral(true, types.Boolean))
}
