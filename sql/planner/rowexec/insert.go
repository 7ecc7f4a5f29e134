package rowexec

import "github.com/relcore/queryengine/sql"

// Insertable is implemented by a catalog Handle capable of accepting
// written rows; InsertInto's physical operator calls Insert for every
// row its source produces.
type Insertable interface {
	Insert(ctx *sql.Context, row sql.Row) error
}

// PartitionInsertable is implemented by a catalog Handle that needs to
// know which static partition a row is being written into (InsertInto's
// PartitionSpec), not just the row itself.
type PartitionInsertable interface {
	InsertPartition(ctx *sql.Context, partition map[string]interface{}, row sql.Row) error
}

// InsertInto drains source and writes each row to handle, then reports
// how many rows were written. It is a write operator (§4.4): nothing
// downstream ever reads rows back out of it, so the returned iterator
// yields a single summary row rather than the written rows themselves.
// partition, if non-empty, is passed to handle when it implements
// PartitionInsertable; a handle with no partition awareness just falls
// back to Insertable and the partition assignment is advisory only.
func InsertInto(ctx *sql.Context, source sql.RowIter, handle interface{}, partition map[string]interface{}) (sql.RowIter, error) {
	rows, err := sql.RowIterToRows(source)
	if err != nil {
		return nil, err
	}

	var count int64
	if pi, ok := handle.(PartitionInsertable); ok && len(partition) > 0 {
		for _, row := range rows {
			if err := pi.InsertPartition(ctx, partition, row); err != nil {
				return nil, err
			}
			count++
		}
		return sql.RowsToRowIter(sql.NewRow(count)), nil
	}

	inserter, ok := handle.(Insertable)
	if !ok {
		return nil, sql.ErrUnsupportedOperation.New("InsertInto: handle does not implement rowexec.Insertable")
	}
	for _, row := range rows {
		if err := inserter.Insert(ctx, row); err != nil {
			return nil, err
		}
		count++
	}
	return sql.RowsToRowIter(sql.NewRow(count)), nil
}
