package analyzer

import (
	"strings"

	"github.com/relcore/queryengine/sql"
	"github.com/relcore/queryengine/sql/expression"
	"github.com/relcore/queryengine/sql/plan"
	"github.com/relcore/queryengine/sql/transform"
)

// expandStarsRule replaces every Star appearing in a node's own expression
// list with one AttributeReference per matching column of its children's
// combined output, in order (§4.5 step 4). A qualified Star ("t.*") only
// expands columns whose source matches the qualifier; an unqualified Star
// expands every child column.
var expandStarsRule = func(ctx *sql.Context, n sql.Node) (sql.Node, error) {
	result, _, err := transform.Node(n, func(node sql.Node) (sql.Node, transform.TreeIdentity, error) {
		exprer, ok := node.(sql.Expressioner)
		if !ok {
			return node, transform.SameTree, nil
		}

		var candidates []*expression.AttributeReference
		for _, c := range node.Children() {
			candidates = append(candidates, candidatesOf(c)...)
		}

		exprs := exprer.Expressions()
		var expanded []sql.Expression
		changed := false
		for _, e := range exprs {
			star, ok := e.(*expression.Star)
			if !ok {
				expanded = append(expanded, e)
				continue
			}
			changed = true
			for _, c := range candidates {
				if star.Qualifier != "" && !qualifierMatches(c, star.Qualifier) {
					continue
				}
				expanded = append(expanded, c)
			}
		}
		if !changed {
			return node, transform.SameTree, nil
		}
		// Project.WithExpressions rejects a changed expression count, so a
		// Project is rebuilt around the expanded list instead.
		var newNode sql.Node
		var err error
		if p, ok := node.(*plan.Project); ok {
			newNode = plan.NewProject(expanded, p.Child)
		} else {
			newNode, err = exprer.WithExpressions(expanded...)
		}
		if err != nil {
			return nil, transform.SameTree, err
		}
		return newNode, transform.NewTree, nil
	})
	return result, err
}

func qualifierMatches(a *expression.AttributeReference, qualifier string) bool {
	src := attrSource(a)
	return src == qualifier || strings.EqualFold(src, qualifier)
}
