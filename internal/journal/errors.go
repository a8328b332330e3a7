package journal

import "errors"

var (
	// ErrEmptyAddress is returned when an event is recorded without an address.
	ErrEmptyAddress = errors.New("journal: address is required")

	// ErrBadRetention is returned when a prune window is zero or negative.
	ErrBadRetention = errors.New("journal: retention must be positive")
)
