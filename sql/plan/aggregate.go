package plan

import (
	"strings"

	"github.com/relcore/queryengine/sql"
	"github.com/relcore/queryengine/sql/expression"
	"github.com/relcore/queryengine/sql/transform"
)

// Aggregate groups child rows by GroupBy and computes SelectedExprs over
// each group (§4.4). SelectedExprs typically mixes GroupBy references
// with sql.Aggregation expressions; the analyzer's aggregate-rewrite
// batch (§4.5 step 7) is responsible for rejecting any other reference
// via ErrNonGroupingReference.
type Aggregate struct {
	UnaryNode
	GroupBy       []sql.Expression
	SelectedExprs []sql.Expression
}

// NewAggregate constructs an Aggregate over groupBy grouping columns and
// selectedExprs output expressions.
func NewAggregate(groupBy, selectedExprs []sql.Expression, child sql.Node) *Aggregate {
	return &Aggregate{UnaryNode: UnaryNode{Child: child}, GroupBy: groupBy, SelectedExprs: selectedExprs}
}

func (a *Aggregate) Resolved() bool {
	return a.Child.Resolved() &&
		expression.ExpressionsResolved(a.GroupBy...) &&
		expression.ExpressionsResolved(a.SelectedExprs...)
}

// Expressions returns GroupBy followed by SelectedExprs; WithExpressions
// expects the same layout back.
func (a *Aggregate) Expressions() []sql.Expression {
	out := make([]sql.Expression, 0, len(a.GroupBy)+len(a.SelectedExprs))
	out = append(out, a.GroupBy...)
	out = append(out, a.SelectedExprs...)
	return out
}

func (a *Aggregate) WithExpressions(exprs ...sql.Expression) (sql.Node, error) {
	want := len(a.GroupBy) + len(a.SelectedExprs)
	if len(exprs) != want {
		return nil, sql.ErrTreeShapeMismatch.New(a, len(exprs), want)
	}
	na := *a
	na.GroupBy = exprs[:len(a.GroupBy)]
	na.SelectedExprs = exprs[len(a.GroupBy):]
	return &na, nil
}

func (a *Aggregate) Schema() sql.Schema {
	schema := make(sql.Schema, len(a.SelectedExprs))
	for i, e := range a.SelectedExprs {
		name := e.String()
		if al, ok := e.(*expression.Alias); ok {
			name = al.Name()
		}
		if ref, ok := e.(*expression.AttributeReference); ok {
			name = ref.Name()
		}
		schema[i] = &sql.Column{Name: name, Type: e.Type(), Nullable: e.IsNullable()}
	}
	return schema
}

// Output converts each SelectedExprs entry to its resulting
// AttributeReference, the same mapping Project.Output applies.
func (a *Aggregate) Output() []*expression.AttributeReference {
	out := make([]*expression.AttributeReference, len(a.SelectedExprs))
	for i, e := range a.SelectedExprs {
		switch t := e.(type) {
		case *expression.AttributeReference:
			out[i] = t
		case *expression.Alias:
			out[i] = t.ToAttributeReference()
		default:
			out[i] = expression.NewAttributeReference(e.String(), e.String(), e.Type(), e.IsNullable())
		}
	}
	return out
}

func (a *Aggregate) String() string {
	groups := make([]string, len(a.GroupBy))
	for i, g := range a.GroupBy {
		groups[i] = g.String()
	}
	exprs := make([]string, len(a.SelectedExprs))
	for i, e := range a.SelectedExprs {
		exprs[i] = e.String()
	}
	return "Aggregate(groupBy=[" + strings.Join(groups, ", ") + "], select=[" + strings.Join(exprs, ", ") + "])"
}

func (a *Aggregate) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrTreeShapeMismatch.New(a, len(children), 1)
	}
	na := *a
	na.Child = children[0]
	return &na, nil
}

// IsGroupingKey reports whether e is structurally one of the GroupBy
// expressions, used by the aggregate-rewrite analyzer batch to validate
// every non-aggregate reference in SelectedExprs (§4.5 step 7,
// NonGroupingReference in §6 Supplemented features).
func (a *Aggregate) IsGroupingKey(e sql.Expression) bool {
	for _, g := range a.GroupBy {
		if transform.ExprsEqual(g, e) {
			return true
		}
	}
	return false
}
