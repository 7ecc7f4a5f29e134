package expression

import (
	"fmt"

	"github.com/relcore/queryengine/sql"
	"github.com/relcore/queryengine/sql/types"
)

// And is logical conjunction under three-valued logic (§4.10): a false
// operand short-circuits to false even if the other is null, matching
// SQL's "false AND unknown = false" rule rather than naive null
// propagation.
type And struct {
	BinaryExpression
}

// NewAnd constructs left AND right.
func NewAnd(left, right sql.Expression) *And {
	return &And{BinaryExpression{Left: left, Right: right}}
}

func (a *And) String() string   { return fmt.Sprintf("(%s AND %s)", a.Left.String(), a.Right.String()) }
func (a *And) Type() types.Type { return types.Boolean }
func (a *And) IsNullable() bool { return true }

func (a *And) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 2 {
		return nil, sql.ErrTreeShapeMismatch.New(a, len(children), 2)
	}
	na := *a
	na.Left, na.Right = children[0], children[1]
	return &na, nil
}

func (a *And) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	lv, err := a.Left.Eval(ctx, row)
	if err != nil {
		return nil, err
	}
	if lv != nil && !lv.(bool) {
		return false, nil
	}
	rv, err := a.Right.Eval(ctx, row)
	if err != nil {
		return nil, err
	}
	if rv != nil && !rv.(bool) {
		return false, nil
	}
	if lv == nil || rv == nil {
		return nil, nil
	}
	return true, nil
}

// Or is logical disjunction under three-valued logic: a true operand
// short-circuits to true even if the other is null.
type Or struct {
	BinaryExpression
}

// NewOr constructs left OR right.
func NewOr(left, right sql.Expression) *Or {
	return &Or{BinaryExpression{Left: left, Right: right}}
}

func (o *Or) String() string   { return fmt.Sprintf("(%s OR %s)", o.Left.String(), o.Right.String()) }
func (o *Or) Type() types.Type { return types.Boolean }
func (o *Or) IsNullable() bool { return true }

func (o *Or) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 2 {
		return nil, sql.ErrTreeShapeMismatch.New(o, len(children), 2)
	}
	no := *o
	no.Left, no.Right = children[0], children[1]
	return &no, nil
}

func (o *Or) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	lv, err := o.Left.Eval(ctx, row)
	if err != nil {
		return nil, err
	}
	if lv != nil && lv.(bool) {
		return true, nil
	}
	rv, err := o.Right.Eval(ctx, row)
	if err != nil {
		return nil, err
	}
	if rv != nil && rv.(bool) {
		return true, nil
	}
	if lv == nil || rv == nil {
		return nil, nil
	}
	return false, nil
}

// Not is logical negation: Not(NULL) is NULL.
type Not struct {
	UnaryExpression
}

// NewNot constructs NOT child.
func NewNot(child sql.Expression) *Not {
	return &Not{UnaryExpression{Child: child}}
}

func (n *Not) String() string   { return "NOT " + n.Child.String() }
func (n *Not) Type() types.Type { return types.Boolean }
func (n *Not) IsNullable() bool { return true }

func (n *Not) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 1 {
		return nil, sql.ErrTreeShapeMismatch.New(n, len(children), 1)
	}
	nn := *n
	nn.Child = children[0]
	return &nn, nil
}

func (n *Not) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	v, err := n.Child.Eval(ctx, row)
	if err != nil || v == nil {
		return nil, err
	}
	return !v.(bool), nil
}
