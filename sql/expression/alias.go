package expression

import (
	"fmt"

	"github.com/relcore/queryengine/sql"
	"github.com/relcore/queryengine/sql/types"
)

// Alias names the output of an expression, the way `expr AS name`
// appears in a Project list, including an unexported flag distinguishing
// an explicit alias from one the analyzer synthesizes for a bare
// expression, so EXPLAIN output and duplicate-name detection can tell
// them apart. id is minted once at construction and is what
// ToAttributeReference hands back on every call, so an Alias names the
// same column no matter how many times its owning node's Output() runs
// (§3.2, §3.6).
type Alias struct {
	UnaryExpression
	AliasName string
	synthetic bool
	id        sql.AttributeID
}

// NewAlias constructs an explicit alias.
func NewAlias(child sql.Expression, name string) *Alias {
	return &Alias{UnaryExpression: UnaryExpression{Child: child}, AliasName: name, id: sql.NewAttributeID()}
}

// NewSyntheticAlias constructs an alias the analyzer introduces so every
// Project output column has a stable name, without it counting as a
// user-written one.
func NewSyntheticAlias(child sql.Expression, name string) *Alias {
	return &Alias{UnaryExpression: UnaryExpression{Child: child}, AliasName: name, synthetic: true, id: sql.NewAttributeID()}
}

func (a *Alias) Name() string      { return a.AliasName }
func (a *Alias) IsSynthetic() bool { return a.synthetic }
func (a *Alias) Type() types.Type  { return a.Child.Type() }

func (a *Alias) String() string {
	return fmt.Sprintf("%s AS %s", a.Child.String(), a.AliasName)
}

func (a *Alias) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	return a.Child.Eval(ctx, row)
}

func (a *Alias) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 1 {
		return nil, sql.ErrTreeShapeMismatch.New(a, len(children), 1)
	}
	na := *a
	na.Child = children[0]
	return &na, nil
}

// ToAttributeReference returns the resolved AttributeReference that an
// Alias's output column becomes once the analyzer's resolve-references
// batch processes a Project list (§4.5 step 3), carrying a's own id so
// that resolving a downstream reference against this call's result and
// binding against a later call's result still agree on identity.
func (a *Alias) ToAttributeReference() *AttributeReference {
	return NewAttributeReference(a.AliasName, a.AliasName, a.Type(), a.Child.IsNullable()).WithID(a.id)
}
