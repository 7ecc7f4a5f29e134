package expression

import (
	"strings"

	"github.com/relcore/queryengine/sql"
	"github.com/relcore/queryengine/sql/types"
)

// UnresolvedFunction is a bare `name(args...)` call as written by a
// caller building an unresolved plan. The resolve-functions analyzer
// batch (§4.5 step 5) looks it up in the sql.FunctionRegistry and
// replaces it with either a concrete builtin expression or a UDF.
type UnresolvedFunction struct {
	FuncName string
	Distinct bool
	Args     []sql.Expression
}

// NewUnresolvedFunction constructs a function call placeholder.
func NewUnresolvedFunction(name string, distinct bool, args ...sql.Expression) *UnresolvedFunction {
	return &UnresolvedFunction{FuncName: name, Distinct: distinct, Args: args}
}

func (f *UnresolvedFunction) Resolved() bool   { return false }
func (f *UnresolvedFunction) IsNullable() bool { return true }
func (f *UnresolvedFunction) Children() []sql.Expression { return f.Args }

func (f *UnresolvedFunction) Type() types.Type {
	panic("UnresolvedFunction has no type until resolved")
}

func (f *UnresolvedFunction) String() string {
	parts := make([]string, len(f.Args))
	for i, a := range f.Args {
		parts[i] = a.String()
	}
	prefix := ""
	if f.Distinct {
		prefix = "DISTINCT "
	}
	return f.FuncName + "(" + prefix + strings.Join(parts, ", ") + ")"
}

func (f *UnresolvedFunction) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	return nil, sql.ErrFunctionNotFound.New(f.FuncName)
}

func (f *UnresolvedFunction) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	nf := *f
	nf.Args = children
	return &nf, nil
}

// UDFFunc is the Go implementation behind a user-defined scalar function:
// it receives already-evaluated argument values and returns a result.
type UDFFunc func(ctx *sql.Context, args []interface{}) (interface{}, error)

// UDF wraps a registered Go function as a resolved expression over a
// fixed argument list. Non-null-aware
// UDFs short-circuit to nil when any argument is null, matching ordinary
// SQL scalar-function null propagation.
type UDF struct {
	FuncName   string
	Args       []sql.Expression
	ReturnType types.Type
	Fn         UDFFunc
	NullAware  bool
}

// NewUDF constructs a resolved user-defined function call.
func NewUDF(name string, returnType types.Type, nullAware bool, fn UDFFunc, args ...sql.Expression) *UDF {
	return &UDF{FuncName: name, Args: args, ReturnType: returnType, Fn: fn, NullAware: nullAware}
}

func (u *UDF) Resolved() bool   { return ExpressionsResolved(u.Args...) }
func (u *UDF) Type() types.Type { return u.ReturnType }
func (u *UDF) IsNullable() bool { return true }
func (u *UDF) Children() []sql.Expression { return u.Args }

func (u *UDF) String() string {
	parts := make([]string, len(u.Args))
	for i, a := range u.Args {
		parts[i] = a.String()
	}
	return u.FuncName + "(" + strings.Join(parts, ", ") + ")"
}

func (u *UDF) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	args := make([]interface{}, len(u.Args))
	for i, a := range u.Args {
		v, err := a.Eval(ctx, row)
		if err != nil {
			return nil, err
		}
		if v == nil && !u.NullAware {
			return nil, nil
		}
		args[i] = v
	}
	return u.Fn(ctx, args)
}

func (u *UDF) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	nu := *u
	nu.Args = children
	return &nu, nil
}
