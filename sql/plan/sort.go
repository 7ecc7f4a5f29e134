package plan

import (
	"strings"

	"github.com/relcore/queryengine/sql"
	"github.com/relcore/queryengine/sql/expression"
)

// SortOrder pairs a sort key with its direction.
type SortOrder struct {
	Expr       sql.Expression
	Descending bool
}

func (s SortOrder) String() string {
	if s.Descending {
		return s.Expr.String() + " DESC"
	}
	return s.Expr.String() + " ASC"
}

// Sort orders child rows by Keys (§4.4). Nulls sort first in ascending
// order and last in descending order, the conventional SQL rule.
type Sort struct {
	UnaryNode
	Keys []SortOrder
}

// NewSort constructs a Sort over keys.
func NewSort(keys []SortOrder, child sql.Node) *Sort {
	return &Sort{UnaryNode: UnaryNode{Child: child}, Keys: keys}
}

func (s *Sort) Resolved() bool {
	if !s.Child.Resolved() {
		return false
	}
	for _, k := range s.Keys {
		if !k.Expr.Resolved() {
			return false
		}
	}
	return true
}

func (s *Sort) Expressions() []sql.Expression {
	out := make([]sql.Expression, len(s.Keys))
	for i, k := range s.Keys {
		out[i] = k.Expr
	}
	return out
}

func (s *Sort) WithExpressions(exprs ...sql.Expression) (sql.Node, error) {
	if len(exprs) != len(s.Keys) {
		return nil, sql.ErrTreeShapeMismatch.New(s, len(exprs), len(s.Keys))
	}
	ns := *s
	ns.Keys = make([]SortOrder, len(s.Keys))
	for i, k := range s.Keys {
		ns.Keys[i] = SortOrder{Expr: exprs[i], Descending: k.Descending}
	}
	return &ns, nil
}

func (s *Sort) Schema() sql.Schema { return s.Child.Schema() }

// Output passes the child's output through unchanged.
func (s *Sort) Output() []*expression.AttributeReference { return childOutput(s.Child) }

func (s *Sort) String() string {
	parts := make([]string, len(s.Keys))
	for i, k := range s.Keys {
		parts[i] = k.String()
	}
	return "Sort(" + strings.Join(parts, ", ") + ")"
}

func (s *Sort) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrTreeShapeMismatch.New(s, len(children), 1)
	}
	ns := *s
	ns.Child = children[0]
	return &ns, nil
}
