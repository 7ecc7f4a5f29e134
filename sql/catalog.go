package sql

import "github.com/relcore/queryengine/sql/types"

// RelationInfo is the metadata the catalog collaborator returns for a
// relation name: its schema and an opaque handle the physical planner's
// TableScan strategy can later turn into a scan leaf. Opening the
// underlying storage is a physical-operator concern, never the catalog's.
type RelationInfo struct {
	Name    string
	Schema  Schema
	Handle  interface{}
	// PartitionKeys names the columns, if any, this relation is
	// partitioned by. A non-empty PartitionKeys enables the
	// PartitionPruning physical strategy.
	PartitionKeys []string
}

// Catalog is the read-only-after-initialization collaborator (§6.2) that
// resolves relation names during analysis.
type Catalog interface {
	// LookupRelation returns metadata for name, or ErrRelationNotFound.
	LookupRelation(ctx *Context, name string) (*RelationInfo, error)
}

// FunctionRegistry is the read-only-after-initialization collaborator
// (§6.3) that resolves unbound function calls during analysis.
type FunctionRegistry interface {
	// ResolveFunction returns a bound Expression for name applied to args,
	// or ErrFunctionNotFound.
	ResolveFunction(ctx *Context, name string, args []Expression) (Expression, error)
}

// Aggregation is implemented by aggregate expressions; it is declared in
// the core package because both sql/plan (Aggregate's validation) and
// sql/planner (partial-aggregation decomposition) need to recognize it
// without importing sql/expression/aggregation.
type Aggregation interface {
	Expression
	// NewBuffer returns fresh per-group mutable state.
	NewBuffer() Row
	// Update folds row into buffer.
	Update(ctx *Context, buffer, row Row) error
	// Merge combines a second buffer (from a different partial aggregate)
	// into buffer.
	Merge(ctx *Context, buffer, partial Row) error
	// EvalBuffer computes the final result from buffer.
	EvalBuffer(ctx *Context, buffer Row) (interface{}, error)
}

// PartialAggregation is implemented by Aggregations that can be
// decomposed into a partial (per-partition) step and a final-merge step,
// per spec.md §4.7 strategy 5 and §3.5. Not every Aggregation need
// implement it: one that doesn't forces the physical planner to use a
// single non-partial Aggregate with AllTuples distribution.
type PartialAggregation interface {
	Aggregation
	// PartialSchema is the row shape of the partial buffer as it crosses
	// an Exchange.
	PartialSchema() Schema
}

// Generator is implemented by expressions that produce zero or more rows
// per input row (§3.5), consumed by the Generate operator.
type Generator interface {
	Expression
	// MakeOutput returns the columns this generator adds to its row.
	MakeOutput() Schema
	// EvalGenerator returns the rows produced for row.
	EvalGenerator(ctx *Context, row Row) ([]Row, error)
}

// DataType is a convenience re-export so callers of this package rarely
// need to import sql/types directly for common lattice members.
type DataType = types.Type
