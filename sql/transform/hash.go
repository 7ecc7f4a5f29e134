package transform

import (
	"github.com/mitchellh/hashstructure"

	"github.com/relcore/queryengine/sql"
)

// Hash returns a structural hash of n computed by hashstructure over n's
// exported fields, following exported child fields transitively.
// Unexported fields are not hashed, so nodes that differ only in
// unexported fields hash equal. The rule
// executor uses this as a cheap fixpoint pre-check before falling back
// to NodesEqual.
func Hash(n sql.Node) (uint64, error) {
	return hashstructure.Hash(n, nil)
}

// HashExpr returns a structural hash of an expression tree.
func HashExpr(e sql.Expression) (uint64, error) {
	return hashstructure.Hash(e, nil)
}
