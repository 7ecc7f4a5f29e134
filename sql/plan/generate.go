package plan

import (
	"github.com/relcore/queryengine/sql"
	"github.com/relcore/queryengine/sql/expression"
)

// Generate applies a table-valued generator (UDTF) to each child row,
// producing zero or more output rows per input row (§3.5, §4.4). Join
// controls whether each generated row is concatenated with the input
// row that produced it (true) or stands alone (false); Outer controls
// whether an input row that generates zero rows still contributes one
// output row, generator columns null, instead of vanishing.
type Generate struct {
	UnaryNode
	Generator sql.Generator
	Join      bool
	Outer     bool
	outputIDs []sql.AttributeID
}

// NewGenerate constructs a Generate applying generator over child with
// the given join/outer semantics, minting one AttributeID per generator
// output column up front so Output() can hand the same identifiers back
// on every call (§3.2, §3.6).
func NewGenerate(generator sql.Generator, join, outer bool, child sql.Node) *Generate {
	return &Generate{
		UnaryNode: UnaryNode{Child: child},
		Generator: generator,
		Join:      join,
		Outer:     outer,
		outputIDs: newAttributeIDs(len(generator.MakeOutput())),
	}
}

func newAttributeIDs(n int) []sql.AttributeID {
	ids := make([]sql.AttributeID, n)
	for i := range ids {
		ids[i] = sql.NewAttributeID()
	}
	return ids
}

func (g *Generate) Resolved() bool {
	return g.Child.Resolved() && g.Generator.Resolved()
}

func (g *Generate) Expressions() []sql.Expression { return []sql.Expression{g.Generator} }

func (g *Generate) WithExpressions(exprs ...sql.Expression) (sql.Node, error) {
	if len(exprs) != 1 {
		return nil, sql.ErrTreeShapeMismatch.New(g, len(exprs), 1)
	}
	gen, ok := exprs[0].(sql.Generator)
	if !ok {
		return nil, sql.ErrUnsupportedOperation.New("Generate.WithExpressions: replacement is not a Generator")
	}
	ng := *g
	ng.Generator = gen
	if len(gen.MakeOutput()) != len(g.outputIDs) {
		ng.outputIDs = newAttributeIDs(len(gen.MakeOutput()))
	}
	return &ng, nil
}

func (g *Generate) Schema() sql.Schema {
	genCols := g.Generator.MakeOutput()
	if !g.Join {
		return genCols
	}
	return append(append(sql.Schema{}, g.Child.Schema()...), genCols...)
}

// Output, when Join is set, concatenates the child's output with the
// generator's output columns bound to the AttributeIDs minted when this
// Generate was constructed, so a Filter/Sort placed above it resolves
// against the same identifiers this call and every later call agree on.
// When Join is unset only the generator's own columns are exposed.
func (g *Generate) Output() []*expression.AttributeReference {
	var out []*expression.AttributeReference
	if g.Join {
		out = append(out, childOutput(g.Child)...)
	}
	for i, c := range g.Generator.MakeOutput() {
		ref := expression.NewAttributeReference(c.Name, c.Name, c.Type, c.Nullable)
		if i < len(g.outputIDs) {
			ref = ref.WithID(g.outputIDs[i])
		}
		out = append(out, ref)
	}
	return out
}

func (g *Generate) String() string { return "Generate(" + g.Generator.String() + ")" }

func (g *Generate) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrTreeShapeMismatch.New(g, len(children), 1)
	}
	ng := *g
	ng.Child = children[0]
	return &ng, nil
}
