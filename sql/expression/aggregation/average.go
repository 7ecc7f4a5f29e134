package aggregation

import (
	"github.com/relcore/queryengine/sql"
	"github.com/relcore/queryengine/sql/types"
)

// Average is AVG(arg): always a Double result regardless of the operand
// type, per §4.8. Its buffer is [sum float64, count int64], the same
// decomposition Sum uses, so PartialAggregation exchanges the identical
// partial shape.
type Average struct {
	unaryAgg
}

// NewAverage constructs AVG(arg).
func NewAverage(arg sql.Expression) *Average {
	return &Average{unaryAgg{Arg: arg}}
}

func (a *Average) Type() types.Type { return types.Double }

func (a *Average) String() string {
	return "AVG(" + distinctPrefix(a.Distinct) + a.Arg.String() + ")"
}

func (a *Average) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 1 {
		return nil, sql.ErrTreeShapeMismatch.New(a, len(children), 1)
	}
	na := *a
	na.Arg = children[0]
	return &na, nil
}

func (a *Average) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	return nil, sql.ErrUnsupportedOperation.New("Average.Eval: use NewBuffer/Update/EvalBuffer")
}

func (a *Average) NewBuffer() sql.Row { return sql.NewRow(float64(0), int64(0)) }

func (a *Average) Update(ctx *sql.Context, buffer, row sql.Row) error {
	v, err := a.Arg.Eval(ctx, row)
	if err != nil {
		return err
	}
	if v == nil {
		return nil
	}
	f, err := types.Double.Convert(v)
	if err != nil {
		return err
	}
	buffer[0] = buffer[0].(float64) + f.(float64)
	buffer[1] = buffer[1].(int64) + 1
	return nil
}

func (a *Average) Merge(ctx *sql.Context, buffer, partial sql.Row) error {
	buffer[0] = buffer[0].(float64) + partial[0].(float64)
	buffer[1] = buffer[1].(int64) + partial[1].(int64)
	return nil
}

func (a *Average) EvalBuffer(ctx *sql.Context, buffer sql.Row) (interface{}, error) {
	count := buffer[1].(int64)
	if count == 0 {
		return nil, nil
	}
	return buffer[0].(float64) / float64(count), nil
}

func (a *Average) PartialSchema() sql.Schema {
	return sql.Schema{
		{Name: "sum", Type: types.Double, Nullable: false},
		{Name: "count", Type: types.Long, Nullable: false},
	}
}

var _ sql.Aggregation = (*Average)(nil)
var _ sql.PartialAggregation = (*Average)(nil)
