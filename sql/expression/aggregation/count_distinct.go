package aggregation

import (
	"github.com/mitchellh/hashstructure"

	"github.com/relcore/queryengine/sql"
	"github.com/relcore/queryengine/sql/types"
)

// CountDistinct counts the number of distinct non-null values Arg takes
// across a group. Its buffer carries the full seen-set (hashed via
// mitchellh/hashstructure, the same structural-hash library the tree
// kernel's transform.Hash uses) rather than a running count, so it
// deliberately does not implement sql.PartialAggregation: merging two
// partitions' seen-sets still requires the full sets, which defeats the
// point of a partial pre-aggregation. The physical planner's
// PartialAggregation strategy falls back to a single non-partial
// Aggregate with AllTuples distribution whenever it sees one of these in
// the aggregate list (§3.5).
type CountDistinct struct {
	unaryAgg
}

// NewCountDistinct constructs COUNT(DISTINCT arg).
func NewCountDistinct(arg sql.Expression) *CountDistinct {
	return &CountDistinct{unaryAgg{Arg: arg, Distinct: true}}
}

func (c *CountDistinct) Type() types.Type { return types.Long }

func (c *CountDistinct) String() string {
	return "COUNT(DISTINCT " + c.Arg.String() + ")"
}

func (c *CountDistinct) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 1 {
		return nil, sql.ErrTreeShapeMismatch.New(c, len(children), 1)
	}
	nc := *c
	nc.Arg = children[0]
	return &nc, nil
}

func (c *CountDistinct) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	return nil, sql.ErrUnsupportedOperation.New("CountDistinct.Eval: use NewBuffer/Update/EvalBuffer")
}

func (c *CountDistinct) NewBuffer() sql.Row {
	return sql.NewRow(make(map[uint64]struct{}))
}

func (c *CountDistinct) Update(ctx *sql.Context, buffer, row sql.Row) error {
	v, err := c.Arg.Eval(ctx, row)
	if err != nil {
		return err
	}
	if v == nil {
		return nil
	}
	h, err := hashstructure.Hash(v, nil)
	if err != nil {
		return err
	}
	buffer[0].(map[uint64]struct{})[h] = struct{}{}
	return nil
}

func (c *CountDistinct) Merge(ctx *sql.Context, buffer, partial sql.Row) error {
	seen := buffer[0].(map[uint64]struct{})
	for h := range partial[0].(map[uint64]struct{}) {
		seen[h] = struct{}{}
	}
	return nil
}

func (c *CountDistinct) EvalBuffer(ctx *sql.Context, buffer sql.Row) (interface{}, error) {
	return int64(len(buffer[0].(map[uint64]struct{}))), nil
}

var _ sql.Aggregation = (*CountDistinct)(nil)
