package plan

import (
	"sort"

	"github.com/relcore/queryengine/sql"
)

// InsertInto writes Source's rows into the relation named by Target's
// existing columns. It is a write operator: its Schema is Target's, but
// it is never itself the source of an Output() chain since nothing
// reads rows back out of it (§4.4). PartitionSpec names a static
// partition to write into (column name to its literal value
// expression); nil for an unpartitioned target.
type InsertInto struct {
	BinaryNode
	PartitionSpec map[string]sql.Expression
}

// NewInsertInto constructs an insert of source's rows into target, with
// an optional static partition assignment.
func NewInsertInto(target, source sql.Node, partitionSpec map[string]sql.Expression) *InsertInto {
	return &InsertInto{BinaryNode: BinaryNode{Left: target, Right: source}, PartitionSpec: partitionSpec}
}

// Target is the relation being written to.
func (i *InsertInto) Target() sql.Node { return i.Left }

// Source is the plan producing the rows to insert.
func (i *InsertInto) Source() sql.Node { return i.Right }

func (i *InsertInto) Schema() sql.Schema { return i.Left.Schema() }
func (i *InsertInto) String() string     { return "InsertInto(" + i.Left.String() + ")" }

// Expressions returns PartitionSpec's values in a stable order derived
// from sorting its keys, so WithExpressions can round-trip it.
func (i *InsertInto) Expressions() []sql.Expression {
	if len(i.PartitionSpec) == 0 {
		return nil
	}
	out := make([]sql.Expression, 0, len(i.PartitionSpec))
	for _, k := range i.partitionKeys() {
		out = append(out, i.PartitionSpec[k])
	}
	return out
}

func (i *InsertInto) WithExpressions(exprs ...sql.Expression) (sql.Node, error) {
	keys := i.partitionKeys()
	if len(exprs) != len(keys) {
		return nil, sql.ErrTreeShapeMismatch.New(i, len(exprs), len(keys))
	}
	if len(keys) == 0 {
		return i, nil
	}
	spec := make(map[string]sql.Expression, len(keys))
	for idx, k := range keys {
		spec[k] = exprs[idx]
	}
	ni := *i
	ni.PartitionSpec = spec
	return &ni, nil
}

func (i *InsertInto) partitionKeys() []string {
	keys := make([]string, 0, len(i.PartitionSpec))
	for k := range i.PartitionSpec {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (i *InsertInto) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 2 {
		return nil, sql.ErrTreeShapeMismatch.New(i, len(children), 2)
	}
	ni := *i
	ni.Left, ni.Right = children[0], children[1]
	return &ni, nil
}
