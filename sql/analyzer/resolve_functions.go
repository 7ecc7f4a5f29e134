package analyzer

import (
	"strings"

	"github.com/relcore/queryengine/sql"
	"github.com/relcore/queryengine/sql/expression"
	"github.com/relcore/queryengine/sql/expression/aggregation"
	"github.com/relcore/queryengine/sql/transform"
)

// builtinAggregates maps a lowercase function name to a constructor for
// the aggregation package's builtins, special-cased ahead of consulting
// the catalog's UDF table for COUNT/SUM/AVG/etc. These never reach
// sql.FunctionRegistry because Aggregation
// lives below sql/expression/aggregation, not behind the registry
// interface (§4.8).
var builtinAggregates = map[string]func(args []sql.Expression, distinct bool) (sql.Expression, error){
	"count": func(args []sql.Expression, distinct bool) (sql.Expression, error) {
		var arg sql.Expression
		if len(args) == 1 {
			arg = args[0]
		} else if len(args) > 1 {
			return nil, sql.ErrFunctionNotFound.New("count/*")
		}
		if distinct {
			if arg == nil {
				return nil, sql.ErrFunctionNotFound.New("count(distinct *)")
			}
			return aggregation.NewCountDistinct(arg), nil
		}
		return aggregation.NewCount(arg), nil
	},
	"sum": func(args []sql.Expression, distinct bool) (sql.Expression, error) {
		if len(args) != 1 {
			return nil, sql.ErrFunctionNotFound.New("sum")
		}
		return aggregation.NewSum(args[0]), nil
	},
	"avg": func(args []sql.Expression, distinct bool) (sql.Expression, error) {
		if len(args) != 1 {
			return nil, sql.ErrFunctionNotFound.New("avg")
		}
		return aggregation.NewAverage(args[0]), nil
	},
}

// resolveFunctionsRule replaces every UnresolvedFunction with a builtin
// aggregation, or otherwise a registry-resolved expression (§4.5 step 5).
func resolveFunctionsRule(reg sql.FunctionRegistry) func(ctx *sql.Context, n sql.Node) (sql.Node, error) {
	return func(ctx *sql.Context, n sql.Node) (sql.Node, error) {
		result, _, err := transform.Node(n, func(node sql.Node) (sql.Node, transform.TreeIdentity, error) {
			if _, ok := node.(sql.Expressioner); !ok {
				return node, transform.SameTree, nil
			}
			return transform.TransformExpressionsInNode(node, func(e sql.Expression) (sql.Expression, transform.TreeIdentity, error) {
				uf, ok := e.(*expression.UnresolvedFunction)
				if !ok {
					return e, transform.SameTree, nil
				}
				if ctor, ok := builtinAggregates[strings.ToLower(uf.FuncName)]; ok {
					resolved, err := ctor(uf.Args, uf.Distinct)
					if err != nil {
						return nil, transform.SameTree, err
					}
					return resolved, transform.NewTree, nil
				}
				resolved, err := reg.ResolveFunction(ctx, uf.FuncName, uf.Args)
				if err != nil {
					return nil, transform.SameTree, err
				}
				return resolved, transform.NewTree, nil
			})
		})
		return result, err
	}
}
