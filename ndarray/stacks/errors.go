package stacks

import "github.com/pkg/errors"

// Sentinel errors returned (wrapped with context) by New and Iter. Match
// them with errors.Is.
var (
	// ErrInvalidArray: the source array is nil or invalid.
	ErrInvalidArray = errors.New("not a valid ndarray")

	// ErrInvalidAxes: stackAxes is nil, or it doesn't leave at least one
	// free axis (the array must have more axes than are stacked).
	ErrInvalidAxes = errors.New("invalid stack axes")

	// ErrAxisOutOfRange: a stack axis falls outside [-rank, rank) and
	// cannot be normalized.
	ErrAxisOutOfRange = errors.New("stack axis out of range")

	// ErrAxesNotSorted: the normalized stack axes are not strictly
	// ascending. Axis reordering is not supported.
	ErrAxesNotSorted = errors.New("stack axes must be in strictly ascending order")

	// ErrDuplicateAxes: the same axis was given more than once.
	ErrDuplicateAxes = errors.New("stack axes must be unique")

	// ErrReadOnlySource: WithWritable(true) was requested over a read-only
	// source array.
	ErrReadOnlySource = errors.New("cannot create writable views over a read-only array")
)
