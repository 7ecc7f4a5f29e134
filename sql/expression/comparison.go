package expression

import (
	"fmt"

	"github.com/relcore/queryengine/sql"
	"github.com/relcore/queryengine/sql/types"
)

type cmpOp byte

const (
	cmpEQ cmpOp = iota
	cmpNE
	cmpLT
	cmpLTE
	cmpGT
	cmpGTE
)

var cmpSymbols = map[cmpOp]string{
	cmpEQ:  "=",
	cmpNE:  "!=",
	cmpLT:  "<",
	cmpLTE: "<=",
	cmpGT:  ">",
	cmpGTE: ">=",
}

// Comparison is a binary ordering/equality predicate over two operands of
// the same (or widenable) type. Per three-valued logic (§4.10), if either
// operand is null the result is null, never true/false. Grounded on the
// teacher's expression/comparison.go family.
type Comparison struct {
	BinaryExpression
	Op cmpOp
}

func newComparison(op cmpOp, left, right sql.Expression) *Comparison {
	return &Comparison{BinaryExpression: BinaryExpression{Left: left, Right: right}, Op: op}
}

// NewEquals constructs left = right.
func NewEquals(left, right sql.Expression) *Comparison { return newComparison(cmpEQ, left, right) }

// NewNotEquals constructs left != right.
func NewNotEquals(left, right sql.Expression) *Comparison { return newComparison(cmpNE, left, right) }

// NewLessThan constructs left < right.
func NewLessThan(left, right sql.Expression) *Comparison { return newComparison(cmpLT, left, right) }

// NewLessThanOrEqual constructs left <= right.
func NewLessThanOrEqual(left, right sql.Expression) *Comparison {
	return newComparison(cmpLTE, left, right)
}

// NewGreaterThan constructs left > right.
func NewGreaterThan(left, right sql.Expression) *Comparison {
	return newComparison(cmpGT, left, right)
}

// NewGreaterThanOrEqual constructs left >= right.
func NewGreaterThanOrEqual(left, right sql.Expression) *Comparison {
	return newComparison(cmpGTE, left, right)
}

// IsEquality reports whether c is an equality comparison, the shape the
// physical planner's EquiJoin strategy looks for when splitting a Join's
// Condition into hashable key pairs plus a residual predicate (§4.7
// strategy 3).
func (c *Comparison) IsEquality() bool { return c.Op == cmpEQ }

func (c *Comparison) String() string {
	return fmt.Sprintf("(%s %s %s)", c.Left.String(), cmpSymbols[c.Op], c.Right.String())
}

func (c *Comparison) Type() types.Type { return types.Boolean }

// IsNullable is always true: any comparison can yield SQL NULL.
func (c *Comparison) IsNullable() bool { return true }

func (c *Comparison) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 2 {
		return nil, sql.ErrTreeShapeMismatch.New(c, len(children), 2)
	}
	nc := *c
	nc.Left, nc.Right = children[0], children[1]
	return &nc, nil
}

func (c *Comparison) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	lv, err := c.Left.Eval(ctx, row)
	if err != nil {
		return nil, err
	}
	rv, err := c.Right.Eval(ctx, row)
	if err != nil {
		return nil, err
	}
	if lv == nil || rv == nil {
		return nil, nil
	}

	ct := c.Left.Type()
	if !ct.Equals(c.Right.Type()) {
		ct, err = types.Widen(c.Left.Type(), c.Right.Type())
		if err != nil {
			return nil, err
		}
	}

	lc, err := ct.Convert(lv)
	if err != nil {
		return nil, err
	}
	rc, err := ct.Convert(rv)
	if err != nil {
		return nil, err
	}

	cmp, err := ct.Compare(lc, rc)
	if err != nil {
		return nil, err
	}

	switch c.Op {
	case cmpEQ:
		return cmp == 0, nil
	case cmpNE:
		return cmp != 0, nil
	case cmpLT:
		return cmp < 0, nil
	case cmpLTE:
		return cmp <= 0, nil
	case cmpGT:
		return cmp > 0, nil
	case cmpGTE:
		return cmp >= 0, nil
	default:
		return nil, sql.ErrUnsupportedOperation.New(cmpSymbols[c.Op])
	}
}
