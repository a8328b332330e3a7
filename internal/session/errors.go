package session

import "errors"

// Domain errors for the session package.
var (
	// ErrStale is returned by every accessor of an entity that no longer
	// exists in the host graph (for example a deleted track). Callers can
	// test for it with errors.Is.
	ErrStale = errors.New("session: stale reference")

	// ErrIndexOutOfRange is returned when a positional operation names an
	// index outside the current collection bounds.
	ErrIndexOutOfRange = errors.New("session: index out of range")
)
