// Package rowexec builds the sql.RowIter pipelines the physical planner's
// operators (C8) execute: scanning, filtering, projecting, sorting,
// limiting, joining, aggregating, generating, and writing rows, over the
// closed C4 operator family and the bound-expression row shape §4.3
// describes (flattened tuples indexed by a single field ordinal).
package rowexec

import (
	"io"

	"github.com/relcore/queryengine/sql"
)

// Scannable is implemented by a catalog Handle capable of producing its
// rows; the TableScan strategy's physical operator calls Scan against
// whatever Handle the analyzer's resolve-relations batch attached to the
// Relation it is lowering.
type Scannable interface {
	Scan(ctx *sql.Context) (sql.RowIter, error)
}

// Scan opens handle for reading and, if projection is non-nil, narrows
// each row to the given field indices (projection pushdown, §4.7
// strategy 2).
func Scan(ctx *sql.Context, handle interface{}, projection []int) (sql.RowIter, error) {
	scannable, ok := handle.(Scannable)
	if !ok {
		return nil, sql.ErrUnsupportedOperation.New("TableScan: handle does not implement rowexec.Scannable")
	}
	iter, err := scannable.Scan(ctx)
	if err != nil {
		return nil, err
	}
	if projection == nil {
		return iter, nil
	}
	return Narrow(iter, projection), nil
}

// Narrow reduces every row child produces to the given field indices.
func Narrow(child sql.RowIter, projection []int) sql.RowIter {
	return &projectedScanIter{child: child, projection: projection}
}

// PartitionPrunable is implemented by a catalog Handle that can skip
// whole partitions of a relation rather than evaluate predicate row by
// row; TableScan's PartitionPruning strategy (§4.7 strategy 3) uses it
// when available and otherwise falls back to an ordinary post-scan
// Filter with the same predicate, so pruning never changes a scan's
// results, only how much work it costs to produce them.
type PartitionPrunable interface {
	ScanPartitions(ctx *sql.Context, predicate sql.Expression) (sql.RowIter, error)
}

// ScanPruned opens handle for reading, applying predicate as a
// partition-pruning filter (§4.7 strategy 3) if predicate is non-nil. A
// nil predicate is a plain Scan.
func ScanPruned(ctx *sql.Context, handle interface{}, predicate sql.Expression) (sql.RowIter, error) {
	if predicate == nil {
		return Scan(ctx, handle, nil)
	}
	if pp, ok := handle.(PartitionPrunable); ok {
		return pp.ScanPartitions(ctx, predicate)
	}
	iter, err := Scan(ctx, handle, nil)
	if err != nil {
		return nil, err
	}
	return Filter(ctx, iter, predicate), nil
}

type projectedScanIter struct {
	child      sql.RowIter
	projection []int
}

func (i *projectedScanIter) Next() (sql.Row, error) {
	row, err := i.child.Next()
	if err != nil {
		return nil, err
	}
	out := make(sql.Row, len(i.projection))
	for j, idx := range i.projection {
		out[j] = row[idx]
	}
	return out, nil
}

func (i *projectedScanIter) Close() error { return i.child.Close() }

// Filter yields only the rows of child for which predicate evaluates
// true; null or false drops the row, matching three-valued-logic
// semantics for WHERE clauses (§4.9).
func Filter(ctx *sql.Context, child sql.RowIter, predicate sql.Expression) sql.RowIter {
	return &filterIter{ctx: ctx, child: child, predicate: predicate}
}

type filterIter struct {
	ctx       *sql.Context
	child     sql.RowIter
	predicate sql.Expression
}

func (i *filterIter) Next() (sql.Row, error) {
	for {
		row, err := i.child.Next()
		if err != nil {
			return nil, err
		}
		v, err := i.predicate.Eval(i.ctx, row)
		if err != nil {
			return nil, err
		}
		if v != nil && v.(bool) {
			return row, nil
		}
	}
}

func (i *filterIter) Close() error { return i.child.Close() }

// Project evaluates exprs against every row of child, producing one
// output row per input row.
func Project(ctx *sql.Context, child sql.RowIter, exprs []sql.Expression) sql.RowIter {
	return &projectIter{ctx: ctx, child: child, exprs: exprs}
}

type projectIter struct {
	ctx   *sql.Context
	child sql.RowIter
	exprs []sql.Expression
}

func (i *projectIter) Next() (sql.Row, error) {
	row, err := i.child.Next()
	if err != nil {
		return nil, err
	}
	out := make(sql.Row, len(i.exprs))
	for j, e := range i.exprs {
		v, err := e.Eval(i.ctx, row)
		if err != nil {
			return nil, err
		}
		out[j] = v
	}
	return out, nil
}

func (i *projectIter) Close() error { return i.child.Close() }

// Limit caps child to at most n rows.
func Limit(child sql.RowIter, n int64) sql.RowIter {
	return &limitIter{child: child, remaining: n}
}

type limitIter struct {
	child     sql.RowIter
	remaining int64
}

func (i *limitIter) Next() (sql.Row, error) {
	if i.remaining <= 0 {
		return nil, io.EOF
	}
	row, err := i.child.Next()
	if err != nil {
		return nil, err
	}
	i.remaining--
	return row, nil
}

func (i *limitIter) Close() error { return i.child.Close() }

// Offset skips the first n rows of child.
func Offset(child sql.RowIter, n int64) sql.RowIter {
	return &offsetIter{child: child, skip: n}
}

type offsetIter struct {
	child   sql.RowIter
	skip    int64
	skipped bool
}

func (i *offsetIter) Next() (sql.Row, error) {
	if !i.skipped {
		for j := int64(0); j < i.skip; j++ {
			if _, err := i.child.Next(); err != nil {
				return nil, err
			}
		}
		i.skipped = true
	}
	return i.child.Next()
}

func (i *offsetIter) Close() error { return i.child.Close() }

// Union concatenates left's rows then right's.
func Union(left, right sql.RowIter) sql.RowIter {
	return &unionIter{left: left, right: right}
}

type unionIter struct {
	left, right sql.RowIter
	leftDone    bool
}

func (i *unionIter) Next() (sql.Row, error) {
	if !i.leftDone {
		row, err := i.left.Next()
		if err == nil {
			return row, nil
		}
		if err != io.EOF {
			return nil, err
		}
		i.leftDone = true
	}
	return i.right.Next()
}

func (i *unionIter) Close() error {
	err1 := i.left.Close()
	err2 := i.right.Close()
	if err1 != nil {
		return err1
	}
	return err2
}
