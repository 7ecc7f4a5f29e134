package rowexec

import (
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/relcore/queryengine/sql"
	"github.com/relcore/queryengine/sql/plan"
)

// BroadcastNestedLoopJoin materializes right (the broadcast side) and
// probes it in full against every row streamed from left, evaluating
// condition directly rather than an equi-key lookup (§4.7 strategy 6).
// Used when Condition has no extractable equi-predicate. The broadcast
// side is collected on its own goroutine via errgroup; the function waits
// for that goroutine before returning, so no left row is read while the
// broadcast side is being collected.
func BroadcastNestedLoopJoin(ctx *sql.Context, left, right sql.RowIter, condition sql.Expression, joinType plan.JoinType, leftWidth, rightWidth int) (sql.RowIter, error) {
	var broadcastRows []sql.Row
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := sql.RowIterToRows(right)
		broadcastRows = rows
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &broadcastJoinIter{
		ctx:        ctx,
		left:       left,
		broadcast:  broadcastRows,
		matched:    make([]bool, len(broadcastRows)),
		condition:  condition,
		joinType:   joinType,
		leftWidth:  leftWidth,
		rightWidth: rightWidth,
	}, nil
}

type broadcastJoinIter struct {
	ctx       *sql.Context
	left      sql.RowIter
	broadcast []sql.Row
	matched   []bool
	condition sql.Expression

	joinType   plan.JoinType
	leftWidth  int
	rightWidth int

	pending       []sql.Row
	leftExhausted bool
	unmatchedIdx  int
}

func (i *broadcastJoinIter) Next() (sql.Row, error) {
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

			anyMatch := false
			for idx, r := range i.broadcast {
				combined := concatRow(leftRow, r)
				v, err := i.condition.Eval(i.ctx, combined)
				if err != nil {
					return nil, err
				}
				if v != nil && v.(bool) {
					anyMatch = true
					i.matched[idx] = true
					i.pending = append(i.pending, combined)
				}
			}
			if !anyMatch && (i.joinType == plan.LeftOuterJoin || i.joinType == plan.FullOuterJoin) {
				i.pending = append(i.pending, concatRow(leftRow, nullRow(i.rightWidth)))
			}
			continue
		}

		if i.joinType != plan.RightOuterJoin && i.joinType != plan.FullOuterJoin {
			return nil, io.EOF
		}
		for i.unmatchedIdx < len(i.broadcast) {
			idx := i.unmatchedIdx
			i.unmatchedIdx++
			if !i.matched[idx] {
				return concatRow(nullRow(i.leftWidth), i.broadcast[idx]), nil
			}
		}
		return nil, io.EOF
	}
}

func (i *broadcastJoinIter) Close() error { return i.left.Close() }
