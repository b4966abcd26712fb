package scroll

import "errors"

// Domain errors for orchestrator lifecycle and navigation.
var (
	// ErrAlreadyInitialized indicates Init was called twice without an
	// intervening Destroy.
	ErrAlreadyInitialized = errors.New("scroll: orchestrator already initialized")

	// ErrNotInitialized indicates a navigation call arrived before Init.
	ErrNotInitialized = errors.New("scroll: orchestrator not initialized")

	// ErrSectionIndex indicates a section index outside the measured set.
	ErrSectionIndex = errors.New("scroll: section index out of range")
)
