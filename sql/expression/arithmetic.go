package expression

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/relcore/queryengine/sql"
	"github.com/relcore/queryengine/sql/types"
)

// arithOp identifies an Arithmetic expression's operator, used only for
// display and dispatch; Eval always widens operands per the promotion
// lattice (§3.3) before computing.
type arithOp byte

const (
	opAdd arithOp = iota
	opSub
	opMul
	opDiv
	opMod
)

var arithSymbols = map[arithOp]string{
	opAdd: "+",
	opSub: "-",
	opMul: "*",
	opDiv: "/",
	opMod: "%",
}

// Arithmetic is a binary numeric operator: +, -, *, /, %. Integral and
// Decimal division and modulo by zero return ErrDivisionByZero rather
// than a sentinel value; Float/Double division by zero yields IEEE
// infinity or NaN, and Float/Double modulo by zero yields NaN. Operand
// types are widened through the closed numeric lattice before the
// operation runs.
type Arithmetic struct {
	BinaryExpression
	Op arithOp
}

func newArithmetic(op arithOp, left, right sql.Expression) *Arithmetic {
	return &Arithmetic{BinaryExpression: BinaryExpression{Left: left, Right: right}, Op: op}
}

// NewAdd constructs left + right.
func NewAdd(left, right sql.Expression) *Arithmetic { return newArithmetic(opAdd, left, right) }

// NewSub constructs left - right.
func NewSub(left, right sql.Expression) *Arithmetic { return newArithmetic(opSub, left, right) }

// NewMul constructs left * right.
func NewMul(left, right sql.Expression) *Arithmetic { return newArithmetic(opMul, left, right) }

// NewDiv constructs left / right.
func NewDiv(left, right sql.Expression) *Arithmetic { return newArithmetic(opDiv, left, right) }

// NewMod constructs left % right.
func NewMod(left, right sql.Expression) *Arithmetic { return newArithmetic(opMod, left, right) }

func (a *Arithmetic) String() string {
	return fmt.Sprintf("(%s %s %s)", a.Left.String(), arithSymbols[a.Op], a.Right.String())
}

// Type widens the operand types per the promotion lattice. It is only
// valid to call once both operands are resolved.
func (a *Arithmetic) Type() types.Type {
	t, err := types.Widen(a.Left.Type(), a.Right.Type())
	if err != nil {
		return types.Double
	}
	return t
}

func (a *Arithmetic) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 2 {
		return nil, sql.ErrTreeShapeMismatch.New(a, len(children), 2)
	}
	na := *a
	na.Left, na.Right = children[0], children[1]
	return &na, nil
}

func (a *Arithmetic) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	lv, err := a.Left.Eval(ctx, row)
	if err != nil {
		return nil, err
	}
	rv, err := a.Right.Eval(ctx, row)
	if err != nil {
		return nil, err
	}
	if lv == nil || rv == nil {
		return nil, nil
	}

	wt, err := types.Widen(a.Left.Type(), a.Right.Type())
	if err != nil {
		return nil, err
	}

	if wt.Equals(types.Decimal) {
		return a.evalDecimal(wt, lv, rv)
	}
	if types.IsFloat(wt) {
		return a.evalFloat(wt, lv, rv)
	}
	return a.evalInt(wt, lv, rv)
}

func (a *Arithmetic) evalInt(wt types.Type, lv, rv interface{}) (interface{}, error) {
	lc, err := wt.Convert(lv)
	if err != nil {
		return nil, err
	}
	rc, err := wt.Convert(rv)
	if err != nil {
		return nil, err
	}
	l, r := lc.(int64), rc.(int64)

	switch a.Op {
	case opAdd:
		return l + r, nil
	case opSub:
		return l - r, nil
	case opMul:
		return l * r, nil
	case opDiv:
		if r == 0 {
			return nil, sql.ErrDivisionByZero.New()
		}
		return l / r, nil
	case opMod:
		if r == 0 {
			return nil, sql.ErrDivisionByZero.New()
		}
		return l % r, nil
	default:
		return nil, sql.ErrUnsupportedOperation.New(arithSymbols[a.Op])
	}
}

func (a *Arithmetic) evalFloat(wt types.Type, lv, rv interface{}) (interface{}, error) {
	lc, err := wt.Convert(lv)
	if err != nil {
		return nil, err
	}
	rc, err := wt.Convert(rv)
	if err != nil {
		return nil, err
	}
	l, r := lc.(float64), rc.(float64)

	switch a.Op {
	case opAdd:
		return l + r, nil
	case opSub:
		return l - r, nil
	case opMul:
		return l * r, nil
	case opDiv:
		// Fractional division by zero yields IEEE infinity/NaN rather
		// than DivisionByZero (§4.9); Go's float division already does
		// this, so no zero check is needed here.
		return l / r, nil
	case opMod:
		return math.Mod(l, r), nil
	default:
		return nil, sql.ErrUnsupportedOperation.New(arithSymbols[a.Op])
	}
}

func (a *Arithmetic) evalDecimal(wt types.Type, lv, rv interface{}) (interface{}, error) {
	lc, err := wt.Convert(lv)
	if err != nil {
		return nil, err
	}
	rc, err := wt.Convert(rv)
	if err != nil {
		return nil, err
	}
	l, r := lc.(decimal.Decimal), rc.(decimal.Decimal)

	switch a.Op {
	case opAdd:
		return l.Add(r), nil
	case opSub:
		return l.Sub(r), nil
	case opMul:
		return l.Mul(r), nil
	case opDiv:
		if r.IsZero() {
			return nil, sql.ErrDivisionByZero.New()
		}
		return l.Div(r), nil
	case opMod:
		if r.IsZero() {
			return nil, sql.ErrDivisionByZero.New()
		}
		return l.Mod(r), nil
	default:
		return nil, sql.ErrUnsupportedOperation.New(arithSymbols[a.Op])
	}
}

// UnaryMinus negates a numeric expression.
type UnaryMinus struct {
	UnaryExpression
}

// NewUnaryMinus constructs -child.
func NewUnaryMinus(child sql.Expression) *UnaryMinus {
	return &UnaryMinus{UnaryExpression{Child: child}}
}

func (u *UnaryMinus) String() string   { return "-" + u.Child.String() }
func (u *UnaryMinus) Type() types.Type { return u.Child.Type() }

func (u *UnaryMinus) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 1 {
		return nil, sql.ErrTreeShapeMismatch.New(u, len(children), 1)
	}
	nu := *u
	nu.Child = children[0]
	return &nu, nil
}

func (u *UnaryMinus) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	v, err := u.Child.Eval(ctx, row)
	if err != nil || v == nil {
		return nil, err
	}
	switch n := v.(type) {
	case int64:
		return -n, nil
	case float64:
		return -n, nil
	case decimal.Decimal:
		return n.Neg(), nil
	default:
		return nil, sql.ErrUnsupportedOperation.New("unary minus on non-numeric value")
	}
}
