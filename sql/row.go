package sql

import "io"

// Row is a tuple of values, one per column of a Schema.
type Row []interface{}

// NewRow creates a row from the given values.
func NewRow(values ...interface{}) Row {
	row := make(Row, len(values))
	copy(row, values)
	return row
}

// Copy returns a new row with the same values as r.
func (r Row) Copy() Row {
	return NewRow(r...)
}

// RowIter produces rows lazily. Operators assume per-partition
// single-reader access; nothing outside an Exchange crosses partitions.
type RowIter interface {
	// Next retrieves the next row, or io.EOF if exhausted.
	Next() (Row, error)
	// Close releases any resources held by the iterator.
	Close() error
}

// RowsToRowIter returns a RowIter over a fixed slice of rows.
func RowsToRowIter(rows ...Row) RowIter {
	return &sliceRowIter{rows: rows}
}

type sliceRowIter struct {
	rows []Row
	pos  int
}

func (i *sliceRowIter) Next() (Row, error) {
	if i.pos >= len(i.rows) {
		return nil, io.EOF
	}
	r := i.rows[i.pos]
	i.pos++
	return r.Copy(), nil
}

func (i *sliceRowIter) Close() error {
	i.rows = nil
	return nil
}

// RowIterToRows drains iter into a slice, closing it even on error.
func RowIterToRows(iter RowIter) ([]Row, error) {
	var rows []Row
	for {
		row, err := iter.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			_ = iter.Close()
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, iter.Close()
}
