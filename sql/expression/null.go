package expression

import (
	"strings"

	"github.com/relcore/queryengine/sql"
	"github.com/relcore/queryengine/sql/types"
)

// IsNull tests whether child evaluates to SQL NULL. Unlike most unary
// expressions it never itself returns null.
type IsNull struct {
	UnaryExpression
}

// NewIsNull constructs `child IS NULL`.
func NewIsNull(child sql.Expression) *IsNull { return &IsNull{UnaryExpression{Child: child}} }

func (e *IsNull) String() string   { return e.Child.String() + " IS NULL" }
func (e *IsNull) Type() types.Type { return types.Boolean }
func (e *IsNull) IsNullable() bool { return false }

func (e *IsNull) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 1 {
		return nil, sql.ErrTreeShapeMismatch.New(e, len(children), 1)
	}
	ne := *e
	ne.Child = children[0]
	return &ne, nil
}

func (e *IsNull) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	v, err := e.Child.Eval(ctx, row)
	if err != nil {
		return nil, err
	}
	return v == nil, nil
}

// IsNotNull is the negation of IsNull, kept as its own node (rather than
// Not(IsNull(x))) so it can be recognized directly by optimizer rules
// that special-case null-filtering predicates (e.g. equi-join key
// filtering in the physical planner).
type IsNotNull struct {
	UnaryExpression
}

// NewIsNotNull constructs `child IS NOT NULL`.
func NewIsNotNull(child sql.Expression) *IsNotNull {
	return &IsNotNull{UnaryExpression{Child: child}}
}

func (e *IsNotNull) String() string   { return e.Child.String() + " IS NOT NULL" }
func (e *IsNotNull) Type() types.Type { return types.Boolean }
func (e *IsNotNull) IsNullable() bool { return false }

func (e *IsNotNull) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 1 {
		return nil, sql.ErrTreeShapeMismatch.New(e, len(children), 1)
	}
	ne := *e
	ne.Child = children[0]
	return &ne, nil
}

func (e *IsNotNull) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	v, err := e.Child.Eval(ctx, row)
	if err != nil {
		return nil, err
	}
	return v != nil, nil
}

// Coalesce returns the first non-null argument, or null if all are null.
type Coalesce struct {
	Args []sql.Expression
}

// NewCoalesce constructs COALESCE(args...).
func NewCoalesce(args ...sql.Expression) *Coalesce { return &Coalesce{Args: args} }

func (c *Coalesce) Resolved() bool { return ExpressionsResolved(c.Args...) }
func (c *Coalesce) Children() []sql.Expression { return c.Args }

func (c *Coalesce) Type() types.Type {
	if len(c.Args) == 0 {
		return types.Null
	}
	return c.Args[0].Type()
}

// IsNullable is false only if some argument is guaranteed non-null;
// conservatively true unless the last argument can't be null.
func (c *Coalesce) IsNullable() bool {
	if len(c.Args) == 0 {
		return true
	}
	return c.Args[len(c.Args)-1].IsNullable()
}

func (c *Coalesce) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return "COALESCE(" + strings.Join(parts, ", ") + ")"
}

func (c *Coalesce) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	nc := *c
	nc.Args = children
	return &nc, nil
}

func (c *Coalesce) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	for _, a := range c.Args {
		v, err := a.Eval(ctx, row)
		if err != nil {
			return nil, err
		}
		if v != nil {
			return v, nil
		}
	}
	return nil, nil
}

// If evaluates Cond and returns Then's value if true, Else's value
// otherwise (including when Cond is null, per three-valued logic).
type If struct {
	Cond, Then, Else sql.Expression
}

// NewIf constructs IF(cond, then, els).
func NewIf(cond, then, els sql.Expression) *If { return &If{Cond: cond, Then: then, Else: els} }

func (i *If) Resolved() bool { return ExpressionsResolved(i.Cond, i.Then, i.Else) }
func (i *If) Children() []sql.Expression { return []sql.Expression{i.Cond, i.Then, i.Else} }
func (i *If) Type() types.Type           { return i.Then.Type() }
func (i *If) IsNullable() bool           { return i.Then.IsNullable() || i.Else.IsNullable() }

func (i *If) String() string {
	return "IF(" + i.Cond.String() + ", " + i.Then.String() + ", " + i.Else.String() + ")"
}

func (i *If) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 3 {
		return nil, sql.ErrTreeShapeMismatch.New(i, len(children), 3)
	}
	ni := *i
	ni.Cond, ni.Then, ni.Else = children[0], children[1], children[2]
	return &ni, nil
}

func (i *If) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	c, err := i.Cond.Eval(ctx, row)
	if err != nil {
		return nil, err
	}
	if c != nil && c.(bool) {
		return i.Then.Eval(ctx, row)
	}
	return i.Else.Eval(ctx, row)
}
