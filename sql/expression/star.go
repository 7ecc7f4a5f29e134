package expression

import (
	"github.com/relcore/queryengine/sql"
	"github.com/relcore/queryengine/sql/types"
)

// Star is `*` or `qualifier.*` in a Project list: a placeholder the
// expand-stars analyzer batch rewrites into one AttributeReference per
// matching output column (§4.5 step 4). It is never resolved and never
// evaluated directly.
type Star struct {
	Qualifier string
}

// NewStar constructs an unqualified `*`.
func NewStar() *Star { return &Star{} }

// NewQualifiedStar constructs `qualifier.*`.
func NewQualifiedStar(qualifier string) *Star { return &Star{Qualifier: qualifier} }

func (s *Star) Resolved() bool   { return false }
func (s *Star) IsNullable() bool { return true }
func (s *Star) Children() []sql.Expression { return nil }

func (s *Star) Type() types.Type {
	panic("Star has no type; it must be expanded before resolution")
}

func (s *Star) String() string {
	if s.Qualifier == "" {
		return "*"
	}
	return s.Qualifier + ".*"
}

func (s *Star) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	return nil, sql.ErrUnsupportedOperation.New("Star.Eval: must be expanded first")
}

func (s *Star) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 0 {
		return nil, sql.ErrTreeShapeMismatch.New(s, len(children), 0)
	}
	return s, nil
}
