package plan

import (
	"github.com/relcore/queryengine/sql"
	"github.com/relcore/queryengine/sql/expression"
)

// Filter passes through only child rows for which Predicate evaluates
// truthy under three-valued logic; both false and null rows are dropped
// (§4.4).
type Filter struct {
	UnaryNode
	Predicate sql.Expression
}

// NewFilter constructs a Filter over predicate.
func NewFilter(predicate sql.Expression, child sql.Node) *Filter {
	return &Filter{UnaryNode: UnaryNode{Child: child}, Predicate: predicate}
}

func (f *Filter) Resolved() bool {
	return f.Child.Resolved() && f.Predicate.Resolved()
}

func (f *Filter) Expressions() []sql.Expression { return []sql.Expression{f.Predicate} }

func (f *Filter) WithExpressions(exprs ...sql.Expression) (sql.Node, error) {
	if len(exprs) != 1 {
		return nil, sql.ErrTreeShapeMismatch.New(f, len(exprs), 1)
	}
	nf := *f
	nf.Predicate = exprs[0]
	return &nf, nil
}

func (f *Filter) Schema() sql.Schema { return f.Child.Schema() }

// Output passes the child's output through unchanged: a Filter never
// adds, removes, or renames columns.
func (f *Filter) Output() []*expression.AttributeReference { return childOutput(f.Child) }
func (f *Filter) String() string     { return "Filter(" + f.Predicate.String() + ")" }

func (f *Filter) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrTreeShapeMismatch.New(f, len(children), 1)
	}
	nf := *f
	nf.Child = children[0]
	return &nf, nil
}
