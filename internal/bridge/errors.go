package bridge

import "errors"

// Domain errors for the bridge package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, bridge.ErrUnknownAddress) {
//	    // handle unregistered address
//	}
var (
	// ErrUnknownAddress is returned by Router.Dispatch when no handler is
	// registered for the address.
	ErrUnknownAddress = errors.New("bridge: unknown address")

	// ErrHandlerPanic is returned when a handler panicked during dispatch.
	// The panic is recovered and logged; it never crosses the router.
	ErrHandlerPanic = errors.New("bridge: handler panic")

	// ErrUnknownProperty is returned when a property name is not in the
	// entity class's descriptor table.
	ErrUnknownProperty = errors.New("bridge: unknown property")

	// ErrUnknownMethod is returned when a method name is not in the entity
	// class's descriptor table.
	ErrUnknownMethod = errors.New("bridge: unknown method")

	// ErrReadOnlyProperty is returned when setting a property whose
	// descriptor has no setter.
	ErrReadOnlyProperty = errors.New("bridge: property is read-only")

	// ErrStaleReference is returned when the referenced entity no longer
	// exists in the host graph.
	ErrStaleReference = errors.New("bridge: stale object reference")

	// ErrWrongEntityClass is returned when a reference is dispatched
	// against a table built for a different entity class.
	ErrWrongEntityClass = errors.New("bridge: reference is not of the expected entity class")

	// ErrUnknownQueryEntity marks a track_data token whose entity keyword
	// is not one of track, clip, clip_slot or device. The token is skipped;
	// the query continues.
	ErrUnknownQueryEntity = errors.New("bridge: unknown query entity")

	// ErrBadArguments is returned when a request's argument tuple cannot be
	// coerced to what the handler requires.
	ErrBadArguments = errors.New("bridge: bad arguments")
)
