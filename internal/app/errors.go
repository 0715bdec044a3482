package app

import "errors"

// Sentinel kinds for assembler errors.
var (
	ErrFetch         = errors.New("collaborator fetch failed")
	ErrSundayUnknown = errors.New("sunday not found")
)
