package sql

import errors "gopkg.in/src-d/go-errors.v1"

var (
	// ErrTreeShapeMismatch is returned by WithChildren when the number of
	// replacement children does not match the node's current arity.
	ErrTreeShapeMismatch = errors.NewKind("%T: invalid children number, got %d, expected %d")

	// ErrRelationNotFound is returned when a catalog lookup fails to find
	// a named relation.
	ErrRelationNotFound = errors.NewKind("relation not found: %s")

	// ErrAmbiguousReference is returned when an unresolved attribute name
	// matches output columns from more than one child.
	ErrAmbiguousReference = errors.NewKind("ambiguous reference %q, present in: %s")

	// ErrUnresolvedAttribute is returned for a reference that matched no
	// output column anywhere in scope.
	ErrUnresolvedAttribute = errors.NewKind("cannot resolve attribute %q")

	// ErrFunctionNotFound is returned when the function registry has no
	// entry for the given name and argument types.
	ErrFunctionNotFound = errors.NewKind("function not found: %s")

	// ErrNonGroupingReference is returned when an aggregate-expression
	// subexpression references a column that is neither an aggregate nor
	// exactly one of the grouping expressions.
	ErrNonGroupingReference = errors.NewKind("expression %q is neither an aggregate nor one of the grouping expressions: %s")

	// ErrIncompatibleTypes is returned when two operand types have no
	// common widening in the numeric promotion lattice.
	ErrIncompatibleTypes = errors.NewKind("incompatible types: %s and %s")

	// ErrCastFailed is returned when a value cannot be converted to a
	// target type.
	ErrCastFailed = errors.NewKind("cannot cast %v to %s")

	// ErrDivisionByZero is returned by integral division/remainder by zero.
	ErrDivisionByZero = errors.NewKind("division by zero")

	// ErrIndexOutOfBounds is returned by array/tuple indexing expressions.
	ErrIndexOutOfBounds = errors.NewKind("index %d out of bounds for length %d")

	// ErrNullDereference is returned by non-null-aware user-defined
	// functions invoked with a null argument.
	ErrNullDereference = errors.NewKind("%s received an unexpected null argument")

	// ErrUnsupportedOperation is returned when an operator or expression
	// does not implement behavior required by its context (e.g. a
	// physical strategy that cannot plan a node it claimed to handle).
	ErrUnsupportedOperation = errors.NewKind("unsupported operation: %s")
)
