package rowexec

import (
	"sort"

	"github.com/relcore/queryengine/sql"
)

// SortKey pairs a bound expression with its sort direction, the physical
// counterpart of plan.SortOrder once its Expr has been lowered to a
// BoundReference.
type SortKey struct {
	Expr       sql.Expression
	Descending bool
}

// Sort materializes child fully, then emits its rows ordered by keys.
// Nulls sort first ascending, last descending, the conventional SQL rule
// (§4.4); Sort always requires AllTuples distribution from its child, so
// "materialize fully" is correct: there is exactly one partition.
func Sort(ctx *sql.Context, child sql.RowIter, keys []SortKey) (sql.RowIter, error) {
	rows, err := sql.RowIterToRows(child)
	if err != nil {
		return nil, err
	}

	var sortErr error
	sort.SliceStable(rows, func(a, b int) bool {
		less, err := rowLess(ctx, rows[a], rows[b], keys)
		if err != nil {
			sortErr = err
		}
		return less
	})
	if sortErr != nil {
		return nil, sortErr
	}
	return sql.RowsToRowIter(rows...), nil
}

func rowLess(ctx *sql.Context, a, b sql.Row, keys []SortKey) (bool, error) {
	for _, k := range keys {
		av, err := k.Expr.Eval(ctx, a)
		if err != nil {
			return false, err
		}
		bv, err := k.Expr.Eval(ctx, b)
		if err != nil {
			return false, err
		}
		if av == nil && bv == nil {
			continue
		}
		if av == nil {
			return !k.Descending, nil
		}
		if bv == nil {
			return k.Descending, nil
		}
		cmp, err := k.Expr.Type().Compare(av, bv)
		if err != nil {
			return false, err
		}
		if cmp == 0 {
			continue
		}
		if k.Descending {
			return cmp > 0, nil
		}
		return cmp < 0, nil
	}
	return false, nil
}
