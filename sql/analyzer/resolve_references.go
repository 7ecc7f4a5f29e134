package analyzer

import (
	"strings"

	"github.com/relcore/queryengine/sql"
	"github.com/relcore/queryengine/sql/expression"
	"github.com/relcore/queryengine/sql/plan"
	"github.com/relcore/queryengine/sql/rule"
	"github.com/relcore/queryengine/sql/transform"
)

func attrSource(a *expression.AttributeReference) string {
	idx := strings.LastIndex(a.QualifiedName, ".")
	if idx < 0 {
		return ""
	}
	return a.QualifiedName[:idx]
}

func candidatesOf(n sql.Node) []*expression.AttributeReference {
	if o, ok := n.(plan.Outputter); ok {
		return o.Output()
	}
	return nil
}

func resolveAttribute(candidates []*expression.AttributeReference, ua *expression.UnresolvedAttribute) (*expression.AttributeReference, error) {
	var matches []*expression.AttributeReference
	for _, c := range candidates {
		if c.Name() != ua.ColName {
			continue
		}
		if ua.Qualifier != "" && attrSource(c) != ua.Qualifier {
			continue
		}
		matches = append(matches, c)
	}
	switch len(matches) {
	case 0:
		return nil, sql.ErrUnresolvedAttribute.New(ua.String())
	case 1:
		return matches[0], nil
	default:
		sources := make([]string, len(matches))
		for i, m := range matches {
			sources[i] = attrSource(m)
		}
		return nil, sql.ErrAmbiguousReference.New(ua.ColName, strings.Join(sources, ", "))
	}
}

// resolveReferencesRule rewrites every UnresolvedAttribute appearing in a
// node's own expression list to the matching AttributeReference produced
// by that node's children, bottom-up: by the time a node's expressions
// are processed, its children have already been fully resolved and
// report an accurate Output() (§4.5 step 3, §3.2).
var resolveReferencesRule rule.Func = func(ctx *sql.Context, n sql.Node) (sql.Node, error) {
	result, _, err := transform.Node(n, func(node sql.Node) (sql.Node, transform.TreeIdentity, error) {
		if _, ok := node.(sql.Expressioner); !ok {
			return node, transform.SameTree, nil
		}

		var candidates []*expression.AttributeReference
		for _, c := range node.Children() {
			candidates = append(candidates, candidatesOf(c)...)
		}

		return transform.TransformExpressionsInNode(node, func(e sql.Expression) (sql.Expression, transform.TreeIdentity, error) {
			ua, ok := e.(*expression.UnresolvedAttribute)
			if !ok {
				return e, transform.SameTree, nil
			}
			match, err := resolveAttribute(candidates, ua)
			if err != nil {
				return nil, transform.SameTree, err
			}
			return match, transform.NewTree, nil
		})
	})
	return result, err
}
