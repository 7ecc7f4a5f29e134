package plan

import (
	"fmt"

	"github.com/relcore/queryengine/sql"
	"github.com/relcore/queryengine/sql/expression"
)

// Limit caps its child to at most N rows (§4.4).
type Limit struct {
	UnaryNode
	N int64
}

// NewLimit constructs a Limit of n rows.
func NewLimit(n int64, child sql.Node) *Limit {
	return &Limit{UnaryNode: UnaryNode{Child: child}, N: n}
}

func (l *Limit) Schema() sql.Schema { return l.Child.Schema() }
func (l *Limit) String() string     { return fmt.Sprintf("Limit(%d)", l.N) }

// Output passes the child's output through unchanged.
func (l *Limit) Output() []*expression.AttributeReference { return childOutput(l.Child) }

func (l *Limit) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrTreeShapeMismatch.New(l, len(children), 1)
	}
	nl := *l
	nl.Child = children[0]
	return &nl, nil
}

// Offset skips the first N rows of its child before anything downstream
// sees them (§6 Supplemented features: not in the distilled spec, added
// because no LIMIT clause is complete without OFFSET).
type Offset struct {
	UnaryNode
	N int64
}

// NewOffset constructs an Offset of n rows.
func NewOffset(n int64, child sql.Node) *Offset {
	return &Offset{UnaryNode: UnaryNode{Child: child}, N: n}
}

func (o *Offset) Schema() sql.Schema { return o.Child.Schema() }
func (o *Offset) String() string     { return fmt.Sprintf("Offset(%d)", o.N) }

// Output passes the child's output through unchanged.
func (o *Offset) Output() []*expression.AttributeReference { return childOutput(o.Child) }

func (o *Offset) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrTreeShapeMismatch.New(o, len(children), 1)
	}
	no := *o
	no.Child = children[0]
	return &no, nil
}
