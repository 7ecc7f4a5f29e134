package rowexec

import (
	"io"

	"github.com/mitchellh/hashstructure"

	"github.com/relcore/queryengine/sql"
	"github.com/relcore/queryengine/sql/plan"
)

type hashJoinEntry struct {
	row     sql.Row
	matched bool
}

// HashEquiJoin builds a hash table over right keyed by rightKeys, then
// probes it with each left row's leftKeys (§4.7 strategy 3). leftKeys and
// rightKeys must already be bound against their own side only: the keys
// are evaluated before the two rows are ever concatenated. A null key
// component never matches anything, the three-valued-logic join-key
// invariant (§4.9); outer variants pad the non-preserving side with null
// for rows that never matched.
func HashEquiJoin(ctx *sql.Context, left, right sql.RowIter, leftKeys, rightKeys []sql.Expression, joinType plan.JoinType, leftWidth, rightWidth int) (sql.RowIter, error) {
	rightRows, err := sql.RowIterToRows(right)
	if err != nil {
		return nil, err
	}

	table := make(map[uint64][]*hashJoinEntry, len(rightRows))
	entries := make([]*hashJoinEntry, len(rightRows))
	for i, r := range rightRows {
		entries[i] = &hashJoinEntry{row: r}
		key, ok, err := evalJoinKey(ctx, rightKeys, r)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		table[key] = append(table[key], entries[i])
	}

	return &hashEquiJoinIter{
		ctx:        ctx,
		left:       left,
		leftKeys:   leftKeys,
		table:      table,
		entries:    entries,
		joinType:   joinType,
		leftWidth:  leftWidth,
		rightWidth: rightWidth,
	}, nil
}

func evalJoinKey(ctx *sql.Context, keys []sql.Expression, row sql.Row) (uint64, bool, error) {
	vals := make([]interface{}, len(keys))
	for i, k := range keys {
		v, err := k.Eval(ctx, row)
		if err != nil {
			return 0, false, err
		}
		if v == nil {
			return 0, false, nil
		}
		vals[i] = v
	}
	h, err := hashstructure.Hash(vals, nil)
	if err != nil {
		return 0, false, err
	}
	return h, true, nil
}

type hashEquiJoinIter struct {
	ctx      *sql.Context
	left     sql.RowIter
	leftKeys []sql.Expression

	table   map[uint64][]*hashJoinEntry
	entries []*hashJoinEntry

	joinType   plan.JoinType
	leftWidth  int
	rightWidth int

	pending       []sql.Row
	leftExhausted bool
	unmatchedIdx  int
}

func (i *hashEquiJoinIter) Next() (sql.Row, error) {
	for {
		if len(i.pending) > 0 {
			row := i.pending[0]
			i.pending = i.pending[1:]
			return row, nil
		}

		if !i.leftExhausted {
			leftRow, err := i.left.Next()
			if err == io.EOF {
				i.leftExhausted = true
				continue
			}
			if err != nil {
				return nil, err
			}

			key, ok, err := evalJoinKey(i.ctx, i.leftKeys, leftRow)
			if err != nil {
				return nil, err
			}
			var matches []*hashJoinEntry
			if ok {
				matches = i.table[key]
			}
			if len(matches) == 0 {
				if i.joinType == plan.LeftOuterJoin || i.joinType == plan.FullOuterJoin {
					i.pending = append(i.pending, concatRow(leftRow, nullRow(i.rightWidth)))
				}
				continue
			}
			for _, m := range matches {
				m.matched = true
				i.pending = append(i.pending, concatRow(leftRow, m.row))
			}
			continue
		}

		if i.joinType != plan.RightOuterJoin && i.joinType != plan.FullOuterJoin {
			return nil, io.EOF
		}
		for i.unmatchedIdx < len(i.entries) {
			e := i.entries[i.unmatchedIdx]
			i.unmatchedIdx++
			if !e.matched {
				return concatRow(nullRow(i.leftWidth), e.row), nil
			}
		}
		return nil, io.EOF
	}
}

func (i *hashEquiJoinIter) Close() error { return i.left.Close() }

func concatRow(a, b sql.Row) sql.Row {
	out := make(sql.Row, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}

func nullRow(width int) sql.Row {
	return make(sql.Row, width)
}
