package aggregation

import (
	"github.com/relcore/queryengine/sql"
	"github.com/relcore/queryengine/sql/types"
)

// Count is COUNT(*) when Arg is nil, or COUNT(expr) counting non-null
// evaluations of expr otherwise.
type Count struct {
	unaryAgg
}

// NewCount constructs COUNT(arg); pass a nil arg for COUNT(*).
func NewCount(arg sql.Expression) *Count {
	return &Count{unaryAgg{Arg: arg}}
}

func (c *Count) Type() types.Type { return types.Long }

func (c *Count) String() string {
	if c.Arg == nil {
		return "COUNT(*)"
	}
	return "COUNT(" + c.Arg.String() + ")"
}

func (c *Count) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if c.Arg == nil {
		if len(children) != 0 {
			return nil, sql.ErrTreeShapeMismatch.New(c, len(children), 0)
		}
		return c, nil
	}
	if len(children) != 1 {
		return nil, sql.ErrTreeShapeMismatch.New(c, len(children), 1)
	}
	nc := *c
	nc.Arg = children[0]
	return &nc, nil
}

// Eval is never called directly on an Aggregation outside of the NewBuffer
// / Update / EvalBuffer cycle; it exists only to satisfy sql.Expression.
func (c *Count) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	return nil, sql.ErrUnsupportedOperation.New("Count.Eval: use NewBuffer/Update/EvalBuffer")
}

func (c *Count) NewBuffer() sql.Row { return sql.NewRow(int64(0)) }

func (c *Count) Update(ctx *sql.Context, buffer, row sql.Row) error {
	if c.Arg == nil {
		buffer[0] = buffer[0].(int64) + 1
		return nil
	}
	v, err := c.Arg.Eval(ctx, row)
	if err != nil {
		return err
	}
	if v != nil {
		buffer[0] = buffer[0].(int64) + 1
	}
	return nil
}

func (c *Count) Merge(ctx *sql.Context, buffer, partial sql.Row) error {
	buffer[0] = buffer[0].(int64) + partial[0].(int64)
	return nil
}

func (c *Count) EvalBuffer(ctx *sql.Context, buffer sql.Row) (interface{}, error) {
	return buffer[0], nil
}

func (c *Count) PartialSchema() sql.Schema {
	return sql.Schema{{Name: "count", Type: types.Long, Nullable: false}}
}

var _ sql.Aggregation = (*Count)(nil)
var _ sql.PartialAggregation = (*Count)(nil)
