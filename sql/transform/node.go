// Package transform implements the generic tree kernel (C1): children
// reflection, transform_down/transform_up, collect, fold, and structural
// equality/hash, over both the logical-plan (sql.Node) and expression
// (sql.Expression) tree families, covering the full operation list
// spec.md §4.1 names.
package transform

import (
	"reflect"

	"github.com/relcore/queryengine/sql"
)

// TreeIdentity reports whether a transform produced the same tree (by
// value) or a new one. It composes with && so that Expr/ExprDown can
// aggregate child and self identity into one result.
type TreeIdentity bool

const (
	// SameTree means the transform left the (sub)tree unchanged.
	SameTree TreeIdentity = true
	// NewTree means the transform produced a different (sub)tree.
	NewTree TreeIdentity = false
)

// NodeFunc is a partial function from a Node to its replacement. Rules
// that don't match a node return it unchanged with SameTree.
type NodeFunc func(sql.Node) (sql.Node, TreeIdentity, error)

// NodeDown applies f pre-order: f runs on n first, then recursively on
// the (possibly replaced) node's children. Children are only rebuilt
// along spines where some descendant changed (reference-equality
// short-circuit via TreeIdentity).
func NodeDown(n sql.Node, f NodeFunc) (sql.Node, TreeIdentity, error) {
	cur, curSame, err := f(n)
	if err != nil {
		return nil, SameTree, err
	}

	children := cur.Children()
	if len(children) == 0 {
		return cur, curSame, nil
	}

	newChildren := make([]sql.Node, len(children))
	allSame := true
	for i, c := range children {
		nc, same, err := NodeDown(c, f)
		if err != nil {
			return nil, SameTree, err
		}
		newChildren[i] = nc
		if same == NewTree {
			allSame = false
		}
	}

	if allSame {
		return cur, curSame, nil
	}
	result, err := cur.WithChildren(newChildren...)
	if err != nil {
		return nil, SameTree, err
	}
	return result, NewTree, nil
}

// Node applies f post-order: children are transformed first, then f runs
// on the node with its (possibly replaced) children already in place.
func Node(n sql.Node, f NodeFunc) (sql.Node, TreeIdentity, error) {
	children := n.Children()
	if len(children) == 0 {
		return f(n)
	}

	newChildren := make([]sql.Node, len(children))
	allSame := true
	for i, c := range children {
		nc, same, err := Node(c, f)
		if err != nil {
			return nil, SameTree, err
		}
		newChildren[i] = nc
		if same == NewTree {
			allSame = false
		}
	}

	cur := n
	sameC := SameTree
	if !allSame {
		sameC = NewTree
		var err error
		cur, err = n.WithChildren(newChildren...)
		if err != nil {
			return nil, SameTree, err
		}
	}

	result, sameN, err := f(cur)
	if err != nil {
		return nil, SameTree, err
	}
	return result, sameC && sameN, nil
}

// Collect gathers pf(x) for every node x in the tree where pf is defined,
// in pre-order.
func Collect[T any](n sql.Node, pf func(sql.Node) (T, bool)) []T {
	var out []T
	var walk func(sql.Node)
	walk = func(node sql.Node) {
		if v, ok := pf(node); ok {
			out = append(out, v)
		}
		for _, c := range node.Children() {
			walk(c)
		}
	}
	walk(n)
	return out
}

// Foreach visits every node in the tree, pre-order, for side effects.
func Foreach(n sql.Node, f func(sql.Node)) {
	f(n)
	for _, c := range n.Children() {
		Foreach(c, f)
	}
}

// MapChildren replaces n's direct children by applying f to each,
// without descending further.
func MapChildren(n sql.Node, f func(sql.Node) (sql.Node, error)) (sql.Node, error) {
	children := n.Children()
	if len(children) == 0 {
		return n, nil
	}
	newChildren := make([]sql.Node, len(children))
	for i, c := range children {
		nc, err := f(c)
		if err != nil {
			return nil, err
		}
		newChildren[i] = nc
	}
	return n.WithChildren(newChildren...)
}

// FlatMap applies f to every node in the tree and flattens the results.
func FlatMap[T any](n sql.Node, f func(sql.Node) []T) []T {
	var out []T
	Foreach(n, func(x sql.Node) { out = append(out, f(x)...) })
	return out
}

// Fold reduces the tree pre-order: acc starts at init and is threaded
// through every node.
func Fold[T any](n sql.Node, init T, f func(acc T, n sql.Node) T) T {
	acc := f(init, n)
	for _, c := range n.Children() {
		acc = Fold(c, acc, f)
	}
	return acc
}

// equaler is implemented by Nodes with custom structural-equality logic;
// most concrete nodes rely on the reflect.DeepEqual fallback below, which
// is sufficient because nodes hold only value fields and child slices.
type equaler interface {
	Equal(sql.Node) bool
}

// NodesEqual reports whether a and b are the same node by value: same
// kind, equal own parameters, and pairwise-equal children (§3.1).
func NodesEqual(a, b sql.Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if e, ok := a.(equaler); ok {
		return e.Equal(b)
	}
	return reflect.DeepEqual(a, b)
}
