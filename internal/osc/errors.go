package osc

import "errors"

// Domain errors for the osc transport package.
var (
	// ErrAlreadyStarted is returned when Start is called on a server that
	// is already serving.
	ErrAlreadyStarted = errors.New("osc: server already started")

	// ErrSendFailed wraps client-side transmission failures.
	ErrSendFailed = errors.New("osc: send failed")
)
