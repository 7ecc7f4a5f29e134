package expression

import (
	"fmt"

	"github.com/relcore/queryengine/sql"
	"github.com/relcore/queryengine/sql/types"
)

// Literal is a constant value of a known type. It is always resolved and
// is the sole leaf expression that Foldable treats as a base case.
type Literal struct {
	Value interface{}
	Typ   types.Type
}

// NewLiteral constructs a Literal of value v and type t.
func NewLiteral(v interface{}, t types.Type) *Literal {
	return &Literal{Value: v, Typ: t}
}

// NewNullLiteral constructs a Literal representing SQL NULL typed t.
func NewNullLiteral(t types.Type) *Literal {
	return &Literal{Value: nil, Typ: t}
}

func (l *Literal) Resolved() bool    { return true }
func (l *Literal) Type() types.Type  { return l.Typ }
func (l *Literal) IsNullable() bool  { return l.Value == nil }
func (l *Literal) Children() []sql.Expression { return nil }

func (l *Literal) String() string {
	if l.Value == nil {
		return "NULL"
	}
	return fmt.Sprintf("%v", l.Value)
}

func (l *Literal) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	return l.Value, nil
}

func (l *Literal) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 0 {
		return nil, sql.ErrTreeShapeMismatch.New(l, len(children), 0)
	}
	return l, nil
}
