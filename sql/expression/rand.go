package expression

import (
	"math/rand"

	"github.com/relcore/queryengine/sql"
	"github.com/relcore/queryengine/sql/types"
)

// Rand is the sole nondeterministic builtin (§4.11): every other
// expression is pure given its children's values, so the optimizer's
// constant-folding rule must check IsNondeterministic before folding
// rather than relying on Foldable's structural Literal-only check alone.
type Rand struct {
	Seed *int64
}

// NewRand constructs RAND(), seeded from the process-global source.
func NewRand() *Rand { return &Rand{} }

// NewSeededRand constructs RAND(seed), deterministic for a fixed seed
// but still marked nondeterministic so repeated evaluation within one
// query isn't folded to a single value.
func NewSeededRand(seed int64) *Rand { return &Rand{Seed: &seed} }

func (r *Rand) Resolved() bool             { return true }
func (r *Rand) Type() types.Type           { return types.Double }
func (r *Rand) IsNullable() bool           { return false }
func (r *Rand) Children() []sql.Expression { return nil }
func (r *Rand) String() string             { return "RAND()" }

// IsNondeterministic marks Rand as ineligible for constant folding even
// though it has no children, distinguishing it from a true Literal-only
// Foldable subtree.
func (r *Rand) IsNondeterministic() bool { return true }

func (r *Rand) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	if r.Seed != nil {
		return rand.New(rand.NewSource(*r.Seed)).Float64(), nil
	}
	return rand.Float64(), nil
}

func (r *Rand) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 0 {
		return nil, sql.ErrTreeShapeMismatch.New(r, len(children), 0)
	}
	return r, nil
}
