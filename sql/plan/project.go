package plan

import (
	"strings"

	"github.com/relcore/queryengine/sql"
	"github.com/relcore/queryengine/sql/expression"
)

// Project computes a fixed list of output expressions over its child's
// rows (§4.4). Implements sql.Expressioner so rewrite rules can replace
// its projection list without hand-unwrapping the node.
type Project struct {
	UnaryNode
	Projections []sql.Expression
}

// NewProject constructs a Project over the given expression list.
func NewProject(projections []sql.Expression, child sql.Node) *Project {
	return &Project{UnaryNode: UnaryNode{Child: child}, Projections: projections}
}

func (p *Project) Resolved() bool {
	return p.Child.Resolved() && expression.ExpressionsResolved(p.Projections...)
}

func (p *Project) Expressions() []sql.Expression { return p.Projections }

func (p *Project) WithExpressions(exprs ...sql.Expression) (sql.Node, error) {
	if len(exprs) != len(p.Projections) {
		return nil, sql.ErrTreeShapeMismatch.New(p, len(exprs), len(p.Projections))
	}
	np := *p
	np.Projections = exprs
	return &np, nil
}

func (p *Project) Schema() sql.Schema {
	schema := make(sql.Schema, len(p.Projections))
	for i, e := range p.Projections {
		name := e.String()
		source := ""
		switch t := e.(type) {
		case *expression.Alias:
			name = t.Name()
		case *expression.AttributeReference:
			name = t.Name()
			source = t.QualifiedName
		}
		schema[i] = &sql.Column{Name: name, Type: e.Type(), Nullable: e.IsNullable(), Source: source}
	}
	return schema
}

// Output converts each projection to its resulting AttributeReference:
// an existing one passes through, an Alias mints one over its child, and
// a bare expression (which the analyzer should have wrapped in a
// synthetic Alias before this point) mints one directly as a fallback.
func (p *Project) Output() []*expression.AttributeReference {
	out := make([]*expression.AttributeReference, len(p.Projections))
	for i, e := range p.Projections {
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

func (p *Project) String() string {
	parts := make([]string, len(p.Projections))
	for i, e := range p.Projections {
		parts[i] = e.String()
	}
	return "Project(" + strings.Join(parts, ", ") + ")"
}

func (p *Project) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrTreeShapeMismatch.New(p, len(children), 1)
	}
	np := *p
	np.Child = children[0]
	return &np, nil
}
