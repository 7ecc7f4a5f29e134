package rowexec

import (
	"io"

	"github.com/mitchellh/hashstructure"

	"github.com/relcore/queryengine/sql"
)

// GroupAggregate groups child's rows by groupBy, updates each of aggs'
// per-group buffer, and emits one row per distinct group: the group key
// values followed by each agg's EvalBuffer result, in that fixed order.
// The physical Aggregate's OutputExprs are built to read this row
// positionally (§4.8). Zero input rows with no grouping keys still
// produces exactly one row, each aggregate's empty-input result
// (§4.8 edge case); zero input rows with at least one grouping key
// produces zero groups and hence zero rows, ordinary GROUP BY behavior.
func GroupAggregate(ctx *sql.Context, child sql.RowIter, groupBy []sql.Expression, aggs []sql.Aggregation) (sql.RowIter, error) {
	groups, order, err := buildGroups(ctx, child, groupBy, aggs)
	if err != nil {
		return nil, err
	}

	if len(order) == 0 && len(groupBy) == 0 {
		return emptyAggregateResult(ctx, aggs)
	}

	rows := make([]sql.Row, len(order))
	for i, h := range order {
		g := groups[h]
		row := make(sql.Row, 0, len(g.keyVals)+len(aggs))
		row = append(row, g.keyVals...)
		for j, a := range aggs {
			v, err := a.EvalBuffer(ctx, g.buffers[j])
			if err != nil {
				return nil, err
			}
			row = append(row, v)
		}
		rows[i] = row
	}
	return sql.RowsToRowIter(rows...), nil
}

// PartialAggregate is GroupAggregate's local half of the two-phase
// decomposition (§4.7 strategy 5): it emits one row per group, the group
// keys followed by each aggregation's raw buffer fields (per
// PartialSchema), leaving the final EvalBuffer call to FinalAggregate
// after the Exchange that follows it redistributes by group key.
func PartialAggregate(ctx *sql.Context, child sql.RowIter, groupBy []sql.Expression, aggs []sql.PartialAggregation) (sql.RowIter, error) {
	plain := make([]sql.Aggregation, len(aggs))
	for i, a := range aggs {
		plain[i] = a
	}
	groups, order, err := buildGroups(ctx, child, groupBy, plain)
	if err != nil {
		return nil, err
	}

	rows := make([]sql.Row, len(order))
	for i, h := range order {
		g := groups[h]
		row := make(sql.Row, 0, len(g.keyVals)+len(aggs))
		row = append(row, g.keyVals...)
		for _, buf := range g.buffers {
			row = append(row, buf...)
		}
		rows[i] = row
	}
	return sql.RowsToRowIter(rows...), nil
}

// FinalAggregate re-groups PartialAggregate's output by the same keys
// (now at the front of each partial row) and merges each aggregation's
// partial buffer slice, identified by offsets/widths taken from
// PartialSchema, into a fresh final buffer before evaluating it. With no
// grouping keys and zero partial rows it falls back to the same
// empty-input edge case GroupAggregate handles directly.
func FinalAggregate(ctx *sql.Context, partial sql.RowIter, numGroupBy int, aggs []sql.PartialAggregation, offsets, widths []int) (sql.RowIter, error) {
	type group struct {
		keyVals []interface{}
		buffers []sql.Row
	}
	groups := make(map[uint64]*group)
	var order []uint64
	sawAny := false

	for {
		row, err := partial.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		sawAny = true

		keyVals := append([]interface{}{}, row[:numGroupBy]...)
		h, err := hashstructure.Hash(keyVals, nil)
		if err != nil {
			return nil, err
		}

		g, ok := groups[h]
		if !ok {
			buffers := make([]sql.Row, len(aggs))
			for i, a := range aggs {
				buffers[i] = a.NewBuffer()
			}
			g = &group{keyVals: keyVals, buffers: buffers}
			groups[h] = g
			order = append(order, h)
		}
		for i, a := range aggs {
			partialSlice := row[offsets[i] : offsets[i]+widths[i]]
			if err := a.Merge(ctx, g.buffers[i], partialSlice); err != nil {
				return nil, err
			}
		}
	}
	if err := partial.Close(); err != nil {
		return nil, err
	}

	if !sawAny && numGroupBy == 0 {
		plain := make([]sql.Aggregation, len(aggs))
		for i, a := range aggs {
			plain[i] = a
		}
		return emptyAggregateResult(ctx, plain)
	}

	rows := make([]sql.Row, len(order))
	for i, h := range order {
		g := groups[h]
		row := make(sql.Row, 0, len(g.keyVals)+len(aggs))
		row = append(row, g.keyVals...)
		for j, a := range aggs {
			v, err := a.EvalBuffer(ctx, g.buffers[j])
			if err != nil {
				return nil, err
			}
			row = append(row, v)
		}
		rows[i] = row
	}
	return sql.RowsToRowIter(rows...), nil
}

type aggGroup struct {
	keyVals []interface{}
	buffers []sql.Row
}

func buildGroups(ctx *sql.Context, child sql.RowIter, groupBy []sql.Expression, aggs []sql.Aggregation) (map[uint64]*aggGroup, []uint64, error) {
	groups := make(map[uint64]*aggGroup)
	var order []uint64

	for {
		row, err := child.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}

		keyVals := make([]interface{}, len(groupBy))
		for i, e := range groupBy {
			v, err := e.Eval(ctx, row)
			if err != nil {
				return nil, nil, err
			}
			keyVals[i] = v
		}
		h, err := hashstructure.Hash(keyVals, nil)
		if err != nil {
			return nil, nil, err
		}

		g, ok := groups[h]
		if !ok {
			buffers := make([]sql.Row, len(aggs))
			for i, a := range aggs {
				buffers[i] = a.NewBuffer()
			}
			g = &aggGroup{keyVals: keyVals, buffers: buffers}
			groups[h] = g
			order = append(order, h)
		}
		for i, a := range aggs {
			if err := a.Update(ctx, g.buffers[i], row); err != nil {
				return nil, nil, err
			}
		}
	}
	if err := child.Close(); err != nil {
		return nil, nil, err
	}
	return groups, order, nil
}

func emptyAggregateResult(ctx *sql.Context, aggs []sql.Aggregation) (sql.RowIter, error) {
	row := make(sql.Row, len(aggs))
	for i, a := range aggs {
		v, err := a.EvalBuffer(ctx, a.NewBuffer())
		if err != nil {
			return nil, err
		}
		row[i] = v
	}
	return sql.RowsToRowIter(row), nil
}
