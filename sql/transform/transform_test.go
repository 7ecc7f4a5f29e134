package transform

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relcore/queryengine/sql"
)

// leaf is a minimal fixture Node with no children, used only by these
// tests; it's deliberately independent of sql/plan so this package has
// no cyclic dependency on it.
type leaf struct {
	tag string
}

func (l *leaf) Resolved() bool         { return true }
func (l *leaf) String() string         { return "leaf(" + l.tag + ")" }
func (l *leaf) Schema() sql.Schema     { return nil }
func (l *leaf) Children() []sql.Node   { return nil }
func (l *leaf) WithChildren(c ...sql.Node) (sql.Node, error) {
	if len(c) != 0 {
		return nil, sql.ErrTreeShapeMismatch.New(l, len(c), 0)
	}
	return l, nil
}

// branch wraps a fixed-arity list of children, used to exercise
// transform's rebuild-on-change path.
type branch struct {
	tag      string
	children []sql.Node
}

func (b *branch) Resolved() bool       { return true }
func (b *branch) String() string       { return "branch(" + b.tag + ")" }
func (b *branch) Schema() sql.Schema   { return nil }
func (b *branch) Children() []sql.Node { return b.children }
func (b *branch) WithChildren(c ...sql.Node) (sql.Node, error) {
	if len(c) != len(b.children) {
		return nil, sql.ErrTreeShapeMismatch.New(b, len(c), len(b.children))
	}
	nb := *b
	nb.children = c
	return &nb, nil
}

func TestNodePostOrderRewritesLeaves(t *testing.T) {
	tree := &branch{tag: "root", children: []sql.Node{
		&leaf{tag: "a"},
		&branch{tag: "mid", children: []sql.Node{&leaf{tag: "b"}}},
	}}

	result, same, err := Node(tree, func(n sql.Node) (sql.Node, TreeIdentity, error) {
		if l, ok := n.(*leaf); ok && l.tag == "b" {
			return &leaf{tag: "b2"}, NewTree, nil
		}
		return n, SameTree, nil
	})
	require.NoError(t, err)
	require.Equal(t, NewTree, same)

	rb := result.(*branch)
	mid := rb.children[1].(*branch)
	require.Equal(t, "b2", mid.children[0].(*leaf).tag)
	// The untouched sibling subtree should be identical in structure.
	require.Equal(t, "a", rb.children[0].(*leaf).tag)
}

func TestNodeNoOpReturnsSameTree(t *testing.T) {
	tree := &branch{tag: "root", children: []sql.Node{&leaf{tag: "a"}}}
	result, same, err := Node(tree, func(n sql.Node) (sql.Node, TreeIdentity, error) {
		return n, SameTree, nil
	})
	require.NoError(t, err)
	require.Equal(t, SameTree, same)
	require.Same(t, tree, result)
}

func TestNodeDownStopsAtMatch(t *testing.T) {
	tree := &branch{tag: "root", children: []sql.Node{
		&branch{tag: "drop-me", children: []sql.Node{&leaf{tag: "a"}}},
	}}

	result, same, err := NodeDown(tree, func(n sql.Node) (sql.Node, TreeIdentity, error) {
		if b, ok := n.(*branch); ok && b.tag == "drop-me" {
			return &leaf{tag: "replaced"}, NewTree, nil
		}
		return n, SameTree, nil
	})
	require.NoError(t, err)
	require.Equal(t, NewTree, same)

	rb := result.(*branch)
	require.Equal(t, "replaced", rb.children[0].(*leaf).tag)
}

func TestCollectGathersMatches(t *testing.T) {
	tree := &branch{tag: "root", children: []sql.Node{
		&leaf{tag: "a"},
		&branch{tag: "mid", children: []sql.Node{&leaf{tag: "b"}}},
	}}

	tags := Collect(tree, func(n sql.Node) (string, bool) {
		l, ok := n.(*leaf)
		if !ok {
			return "", false
		}
		return l.tag, true
	})
	require.ElementsMatch(t, []string{"a", "b"}, tags)
}

func TestForeachVisitsEveryNode(t *testing.T) {
	tree := &branch{tag: "root", children: []sql.Node{&leaf{tag: "a"}, &leaf{tag: "b"}}}
	var visited int
	Foreach(tree, func(sql.Node) { visited++ })
	require.Equal(t, 3, visited)
}

func TestFoldCountsNodes(t *testing.T) {
	tree := &branch{tag: "root", children: []sql.Node{&leaf{tag: "a"}, &leaf{tag: "b"}}}
	count := Fold(tree, 0, func(acc int, _ sql.Node) int { return acc + 1 })
	require.Equal(t, 3, count)
}

func TestNodesEqualFallsBackToDeepEqual(t *testing.T) {
	a := &leaf{tag: "x"}
	b := &leaf{tag: "x"}
	c := &leaf{tag: "y"}
	require.True(t, NodesEqual(a, b))
	require.False(t, NodesEqual(a, c))
}

func TestHashIsStableAcrossEqualValues(t *testing.T) {
	a := &branch{tag: "root", children: []sql.Node{&leaf{tag: "a"}}}
	b := &branch{tag: "root", children: []sql.Node{&leaf{tag: "a"}}}

	ha, err := Hash(a)
	require.NoError(t, err)
	hb, err := Hash(b)
	require.NoError(t, err)
	require.Equal(t, ha, hb)

	c := &branch{tag: "root", children: []sql.Node{&leaf{tag: "z"}}}
	hc, err := Hash(c)
	require.NoError(t, err)
	require.NotEqual(t, ha, hc)
}

func TestMapChildrenReplacesDirectChildrenOnly(t *testing.T) {
	tree := &branch{tag: "root", children: []sql.Node{
		&branch{tag: "mid", children: []sql.Node{&leaf{tag: "a"}}},
	}}
	result, err := MapChildren(tree, func(n sql.Node) (sql.Node, error) {
		return &leaf{tag: "replaced"}, nil
	})
	require.NoError(t, err)
	rb := result.(*branch)
	require.Equal(t, "replaced", rb.children[0].(*leaf).tag)
}
