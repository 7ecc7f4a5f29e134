package aggregation

import (
	"github.com/shopspring/decimal"

	"github.com/relcore/queryengine/sql"
	"github.com/relcore/queryengine/sql/types"
)

// Sum accumulates Arg's non-null values. Its buffer is [sum, count]: the
// count is carried so Merge can tell "no rows seen" (sum stays NULL)
// apart from "rows summed to zero".
type Sum struct {
	unaryAgg
}

// NewSum constructs SUM(arg).
func NewSum(arg sql.Expression) *Sum {
	return &Sum{unaryAgg{Arg: arg}}
}

func (s *Sum) Type() types.Type {
	if types.IsNumeric(s.Arg.Type()) {
		return s.Arg.Type()
	}
	return types.Double
}

func (s *Sum) String() string {
	return "SUM(" + distinctPrefix(s.Distinct) + s.Arg.String() + ")"
}

func (s *Sum) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 1 {
		return nil, sql.ErrTreeShapeMismatch.New(s, len(children), 1)
	}
	ns := *s
	ns.Arg = children[0]
	return &ns, nil
}

func (s *Sum) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	return nil, sql.ErrUnsupportedOperation.New("Sum.Eval: use NewBuffer/Update/EvalBuffer")
}

func (s *Sum) zero() interface{} {
	if s.Type().Equals(types.Decimal) {
		return decimal.Zero
	}
	return float64(0)
}

func (s *Sum) NewBuffer() sql.Row { return sql.NewRow(s.zero(), int64(0)) }

func (s *Sum) Update(ctx *sql.Context, buffer, row sql.Row) error {
	v, err := s.Arg.Eval(ctx, row)
	if err != nil {
		return err
	}
	if v == nil {
		return nil
	}

	if s.Type().Equals(types.Decimal) {
		d, err := types.Decimal.Convert(v)
		if err != nil {
			return err
		}
		buffer[0] = buffer[0].(decimal.Decimal).Add(d.(decimal.Decimal))
	} else {
		f, err := types.Double.Convert(v)
		if err != nil {
			return err
		}
		buffer[0] = buffer[0].(float64) + f.(float64)
	}
	buffer[1] = buffer[1].(int64) + 1
	return nil
}

func (s *Sum) Merge(ctx *sql.Context, buffer, partial sql.Row) error {
	if s.Type().Equals(types.Decimal) {
		buffer[0] = buffer[0].(decimal.Decimal).Add(partial[0].(decimal.Decimal))
	} else {
		buffer[0] = buffer[0].(float64) + partial[0].(float64)
	}
	buffer[1] = buffer[1].(int64) + partial[1].(int64)
	return nil
}

func (s *Sum) EvalBuffer(ctx *sql.Context, buffer sql.Row) (interface{}, error) {
	if buffer[1].(int64) == 0 {
		return nil, nil
	}
	if s.Type().Equals(types.Decimal) {
		return buffer[0], nil
	}
	return s.Type().Convert(buffer[0])
}

func (s *Sum) PartialSchema() sql.Schema {
	return sql.Schema{
		{Name: "sum", Type: s.Type(), Nullable: true},
		{Name: "count", Type: types.Long, Nullable: false},
	}
}

var _ sql.Aggregation = (*Sum)(nil)
var _ sql.PartialAggregation = (*Sum)(nil)
