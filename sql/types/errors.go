package types

import errors "gopkg.in/src-d/go-errors.v1"

var (
	// ErrIncompatibleTypes is returned by Widen when no common numeric
	// promotion exists between two types.
	ErrIncompatibleTypes = errors.NewKind("incompatible types: %s and %s")

	// ErrCastFailed is returned by Convert when a value cannot be coerced
	// to the target type, including malformed numeric string parses.
	ErrCastFailed = errors.NewKind("cannot convert %v (%T) to %s")
)
