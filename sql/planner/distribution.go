// Package planner implements the physical planner (C8, §4.7): an ordered
// list of strategies lowering a resolved, optimized logical plan into a
// physical plan of executable operators, inserting Exchange nodes where a
// child's output distribution doesn't satisfy its consumer's requirement.
// Generalized from "plan equals its own execution shape" into a genuine
// logical/physical split the way a cost-free Catalyst-style planner works.
package planner

import (
	"github.com/relcore/queryengine/sql"
	"github.com/relcore/queryengine/sql/plan"
	"github.com/relcore/queryengine/sql/transform"
)

type distributionKind byte

const (
	kindUnspecified distributionKind = iota
	kindAllTuples
	kindClustered
	kindOrdered
)

// Distribution is a point in the partitioning lattice of §4.7:
// Unspecified ⊏ AllTuples, Clustered(keys), Ordered(sortOrders). It
// describes either what an operator requires of a child's rows, or what
// an operator itself guarantees about the rows it produces.
type Distribution struct {
	kind   distributionKind
	keys   []sql.Expression
	orders []plan.SortOrder
}

// UnspecifiedDistribution makes no guarantee about how rows are spread
// across partitions; it is satisfied by anything and satisfies nothing
// but itself.
var UnspecifiedDistribution = Distribution{kind: kindUnspecified}

// AllTuplesDistribution reports that every row lives in a single
// partition, the requirement a non-partial Aggregate with no grouping
// keys imposes on its child (§4.7 strategy 5's fallback).
var AllTuplesDistribution = Distribution{kind: kindAllTuples}

// ClusteredDistribution reports that rows sharing the same values for
// keys are guaranteed to land in the same partition, the requirement a
// HashEquiJoin's probe sides and a partial aggregate's final stage
// impose on their children.
func ClusteredDistribution(keys ...sql.Expression) Distribution {
	return Distribution{kind: kindClustered, keys: keys}
}

// OrderedDistribution reports that rows are sorted by orders across the
// whole (single-partition) output, the requirement a Sort-based
// aggregate imposes on its child.
func OrderedDistribution(orders ...plan.SortOrder) Distribution {
	return Distribution{kind: kindOrdered, orders: orders}
}

func (d Distribution) String() string {
	switch d.kind {
	case kindAllTuples:
		return "AllTuples"
	case kindClustered:
		return "Clustered"
	case kindOrdered:
		return "Ordered"
	default:
		return "Unspecified"
	}
}

// Satisfies reports whether an output with distribution d can feed an
// operator requiring `required`, with no Exchange inserted. A single
// partition (AllTuples) trivially satisfies any Clustered requirement,
// the "single-partition collapse" rule of §4.7; it does not satisfy an
// Ordered requirement, since being in one partition says nothing about
// row order within it.
func (d Distribution) Satisfies(required Distribution) bool {
	switch required.kind {
	case kindUnspecified:
		return true
	case kindAllTuples:
		return d.kind == kindAllTuples
	case kindClustered:
		if d.kind == kindAllTuples {
			return true
		}
		return d.kind == kindClustered && sameExprSet(d.keys, required.keys)
	case kindOrdered:
		return d.kind == kindOrdered && sameSortOrder(d.orders, required.orders)
	default:
		return false
	}
}

func sameExprSet(a, b []sql.Expression) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !transform.ExprsEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func sameSortOrder(a, b []plan.SortOrder) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Descending != b[i].Descending || !transform.ExprsEqual(a[i].Expr, b[i].Expr) {
			return false
		}
	}
	return true
}
