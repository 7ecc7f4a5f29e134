package expression

import (
	"strconv"
	"strings"

	"github.com/relcore/queryengine/sql"
	"github.com/relcore/queryengine/sql/types"
)

// Cast converts its child's value to a target type, using the stable
// cast grammar of §4.9: numeric-to-numeric narrowing truncates toward
// zero rather than rounding, and String->numeric parses with Go's
// strconv (not spf13/cast's looser grammar) so that malformed input
// reliably fails with ErrCastFailed instead of silently parsing a
// prefix, restricted to the closed lattice's conversions.
type Cast struct {
	UnaryExpression
	Target types.Type
}

// NewCast constructs CAST(child AS target).
func NewCast(child sql.Expression, target types.Type) *Cast {
	return &Cast{UnaryExpression: UnaryExpression{Child: child}, Target: target}
}

func (c *Cast) String() string   { return "CAST(" + c.Child.String() + " AS " + c.Target.Name() + ")" }
func (c *Cast) Type() types.Type { return c.Target }

func (c *Cast) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 1 {
		return nil, sql.ErrTreeShapeMismatch.New(c, len(children), 1)
	}
	nc := *c
	nc.Child = children[0]
	return &nc, nil
}

func (c *Cast) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	v, err := c.Child.Eval(ctx, row)
	if err != nil || v == nil {
		return nil, err
	}

	srcType := c.Child.Type()

	// String source types use the stable strconv grammar instead of the
	// target type's permissive spf13/cast-backed Convert, so that e.g.
	// CAST('12abc' AS INTEGER) fails rather than parsing "12".
	if srcType.Equals(types.String) && types.IsNumeric(c.Target) {
		s := strings.TrimSpace(v.(string))
		if types.IsInteger(c.Target) {
			n, err := types.MustParseInt64(s)
			if err != nil {
				return nil, sql.ErrCastFailed.New(v, c.Target.Name())
			}
			return c.Target.Convert(n)
		}
		if c.Target.Equals(types.Decimal) {
			return c.Target.Convert(s)
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, sql.ErrCastFailed.New(v, c.Target.Name())
		}
		return c.Target.Convert(f)
	}

	// Numeric-to-integral narrowing truncates toward zero rather than
	// rounding, e.g. CAST(1.9 AS INTEGER) = 1, CAST(-1.9 AS INTEGER) = -1.
	if types.IsNumeric(srcType) && types.IsInteger(c.Target) {
		f, err := types.Double.Convert(v)
		if err != nil {
			return nil, sql.ErrCastFailed.New(v, c.Target.Name())
		}
		truncated := int64(f.(float64))
		return c.Target.Convert(truncated)
	}

	out, err := c.Target.Convert(v)
	if err != nil {
		return nil, sql.ErrCastFailed.New(v, c.Target.Name())
	}
	return out, nil
}
