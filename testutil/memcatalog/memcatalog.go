// Package memcatalog is an in-memory sql.Catalog and sql.FunctionRegistry
// fixture used only by _test.go files across this module: a map of named
// tables, each a schema plus a fixed slice of rows, with no persistence
// or concurrency control beyond what a single test needs.
package memcatalog

import (
	"fmt"
	"strings"

	"github.com/relcore/queryengine/sql"
	"github.com/relcore/queryengine/sql/expression"
	"github.com/relcore/queryengine/sql/types"
)

// Table is a named in-memory relation: a schema and its rows, used as
// both the catalog's lookup result and the physical planner's TableScan
// Handle.
type Table struct {
	TableName string
	TableSchema sql.Schema
	Rows        []sql.Row
	Partitions  []string
}

// NewTable constructs a table with no partition keys.
func NewTable(name string, schema sql.Schema, rows ...sql.Row) *Table {
	return &Table{TableName: name, TableSchema: schema, Rows: rows}
}

// WithPartitionKeys returns a copy of t with PartitionKeys set, enabling
// the PartitionPruning physical strategy over it.
func (t *Table) WithPartitionKeys(keys ...string) *Table {
	nt := *t
	nt.Partitions = keys
	return &nt
}

// Scan implements rowexec.Scannable, letting a Table serve directly as
// the TableScan strategy's catalog Handle in tests.
func (t *Table) Scan(ctx *sql.Context) (sql.RowIter, error) {
	return sql.RowsToRowIter(t.Rows...), nil
}

// Insert implements rowexec.Insertable, letting a Table serve directly
// as the InsertInto strategy's catalog Handle in tests.
func (t *Table) Insert(ctx *sql.Context, row sql.Row) error {
	t.Rows = append(t.Rows, row)
	return nil
}

// ScanPartitions implements rowexec.PartitionPrunable: it groups Rows by
// the values of its Partitions columns and evaluates predicate once per
// group (every row in a group shares the same partition key values, so
// predicate's truth value can't vary within one), skipping every row in
// a group predicate doesn't evaluate truthy over.
func (t *Table) ScanPartitions(ctx *sql.Context, predicate sql.Expression) (sql.RowIter, error) {
	keyIndices := make([]int, len(t.Partitions))
	for i, key := range t.Partitions {
		keyIndices[i] = t.TableSchema.IndexOf(key, "")
	}

	var order []string
	groups := make(map[string][]sql.Row)
	for _, row := range t.Rows {
		keyVals := make(sql.Row, len(keyIndices))
		for i, idx := range keyIndices {
			keyVals[i] = row[idx]
		}
		k := fmt.Sprint(keyVals)
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], row)
	}

	var kept []sql.Row
	for _, k := range order {
		group := groups[k]
		v, err := predicate.Eval(ctx, group[0])
		if err != nil {
			return nil, err
		}
		if v != nil && v.(bool) {
			kept = append(kept, group...)
		}
	}
	return sql.RowsToRowIter(kept...), nil
}

// Catalog is a fixed set of in-memory tables.
type Catalog struct {
	tables map[string]*Table
}

// NewCatalog constructs a Catalog over the given tables, keyed by name.
func NewCatalog(tables ...*Table) *Catalog {
	c := &Catalog{tables: make(map[string]*Table, len(tables))}
	for _, t := range tables {
		c.tables[t.TableName] = t
	}
	return c
}

// LookupRelation implements sql.Catalog.
func (c *Catalog) LookupRelation(ctx *sql.Context, name string) (*sql.RelationInfo, error) {
	t, ok := c.tables[name]
	if !ok {
		return nil, sql.ErrRelationNotFound.New(name)
	}
	return &sql.RelationInfo{
		Name:          t.TableName,
		Schema:        t.TableSchema,
		Handle:        t,
		PartitionKeys: t.Partitions,
	}, nil
}

// Table returns the underlying fixture table for direct row inspection
// in assertions, bypassing the sql.Catalog interface.
func (c *Catalog) Table(name string) *Table {
	return c.tables[name]
}

// Registry is a small builtin sql.FunctionRegistry covering a few scalar
// functions (upper/lower/abs) ahead of any catalog-specific UDF, enough
// to exercise UDF resolution in tests without a full builtin function
// library.
type Registry struct{}

// NewRegistry constructs the builtin scalar-function registry.
func NewRegistry() *Registry { return &Registry{} }

// ResolveFunction implements sql.FunctionRegistry.
func (r *Registry) ResolveFunction(ctx *sql.Context, name string, args []sql.Expression) (sql.Expression, error) {
	switch strings.ToLower(name) {
	case "upper":
		if len(args) != 1 {
			return nil, sql.ErrFunctionNotFound.New("upper")
		}
		return expression.NewUDF("upper", types.String, false, func(ctx *sql.Context, vals []interface{}) (interface{}, error) {
			return strings.ToUpper(vals[0].(string)), nil
		}, args...), nil
	case "lower":
		if len(args) != 1 {
			return nil, sql.ErrFunctionNotFound.New("lower")
		}
		return expression.NewUDF("lower", types.String, false, func(ctx *sql.Context, vals []interface{}) (interface{}, error) {
			return strings.ToLower(vals[0].(string)), nil
		}, args...), nil
	case "abs":
		if len(args) != 1 {
			return nil, sql.ErrFunctionNotFound.New("abs")
		}
		return expression.NewUDF("abs", args[0].Type(), false, func(ctx *sql.Context, vals []interface{}) (interface{}, error) {
			switch v := vals[0].(type) {
			case int64:
				if v < 0 {
					return -v, nil
				}
				return v, nil
			case float64:
				if v < 0 {
					return -v, nil
				}
				return v, nil
			default:
				return nil, sql.ErrUnsupportedOperation.New("abs on non-numeric value")
			}
		}, args...), nil
	default:
		return nil, sql.ErrFunctionNotFound.New(name)
	}
}
