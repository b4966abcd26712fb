package motion

import "errors"

// Domain errors for engine operations.
var (
	// ErrSpringExists indicates Create was called with an id that is still
	// registered. Remove the old spring first to reuse its id.
	ErrSpringExists = errors.New("motion: spring already exists")

	// ErrUnknownSpring indicates an operation referenced an id with no live
	// spring behind it.
	ErrUnknownSpring = errors.New("motion: unknown spring")
)
