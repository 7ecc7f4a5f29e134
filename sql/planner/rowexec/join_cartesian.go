package rowexec

import "github.com/relcore/queryengine/sql"

// CartesianProduct pairs every row of left with every row of right,
// unconditionally (§4.7 strategy 7): the lowering of a CrossJoin or an
// InnerJoin whose condition is the literal true.
func CartesianProduct(ctx *sql.Context, left, right sql.RowIter) (sql.RowIter, error) {
	rightRows, err := sql.RowIterToRows(right)
	if err != nil {
		return nil, err
	}
	return &cartesianIter{left: left, right: rightRows}, nil
}

type cartesianIter struct {
	left    sql.RowIter
	right   []sql.Row
	leftRow sql.Row
	idx     int
	started bool
}

func (i *cartesianIter) Next() (sql.Row, error) {
	for {
		if i.started && i.idx < len(i.right) {
			r := i.right[i.idx]
			i.idx++
			return concatRow(i.leftRow, r), nil
		}
		row, err := i.left.Next()
		if err != nil {
			return nil, err
		}
		i.leftRow = row
		i.idx = 0
		i.started = true
	}
}

func (i *cartesianIter) Close() error { return i.left.Close() }
