// Package planner lowers a resolved, optimized logical plan (sql/plan)
// into a tree of physical operators that know how to execute themselves
// (§4.7). It has no cost model: a fixed, priority-ordered list of
// strategies picks the first physical shape that matches a given
// logical node, and Exchange operators are inserted wherever a chosen
// child's guaranteed row distribution doesn't satisfy what its parent
// requires.
package planner

import (
	opentracing "github.com/opentracing/opentracing-go"

	"github.com/relcore/queryengine/sql"
)

// Plan lowers logical into an executable physical tree.
func Plan(ctx *sql.Context, logical sql.Node) (Node, error) {
	span, ctx := ctx.Span("planner.Plan", opentracing.Tags{})
	defer span.Finish()

	return lowerNode(ctx, logical)
}

func lowerNode(ctx *sql.Context, logical sql.Node) (Node, error) {
	candidate, err := applyStrategies(ctx, logical)
	if err != nil {
		return nil, err
	}
	return resolve(ctx, candidate)
}

func applyStrategies(ctx *sql.Context, logical sql.Node) (Node, error) {
	for _, strategy := range strategies {
		candidate, ok, err := strategy(ctx, logical)
		if err != nil {
			return nil, err
		}
		if ok {
			return candidate, nil
		}
	}
	return nil, sql.ErrUnsupportedOperation.New("no physical strategy matches " + logical.String())
}

// resolve walks node depth-first, planning away any PlanLater placeholder
// a Strategy left behind and inserting an Exchange wherever a resolved
// child's OutputDistribution doesn't satisfy what node requires of it.
func resolve(ctx *sql.Context, node Node) (Node, error) {
	if pl, ok := node.(*PlanLater); ok {
		resolved, err := lowerNode(ctx, pl.Logical)
		if err != nil {
			return nil, err
		}
		return resolve(ctx, resolved)
	}

	children := node.Children()
	if len(children) == 0 {
		return node, nil
	}

	required := node.RequiredChildDistribution()
	newChildren := make([]sql.Node, len(children))
	changed := false
	for i, c := range children {
		child, err := asNode(c)
		if err != nil {
			return nil, err
		}
		resolvedChild, err := resolve(ctx, child)
		if err != nil {
			return nil, err
		}

		out := sql.Node(resolvedChild)
		if i < len(required) && !resolvedChild.OutputDistribution().Satisfies(required[i]) {
			out = &ExchangeExec{Child: resolvedChild, Target: required[i], schema: resolvedChild.Schema()}
		}

		if out != c {
			changed = true
		}
		newChildren[i] = out
	}

	if !changed {
		return node, nil
	}
	rebuilt, err := node.WithChildren(newChildren...)
	if err != nil {
		return nil, err
	}
	return rebuilt.(Node), nil
}
