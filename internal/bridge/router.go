package bridge

import (
	"fmt"
	"sort"
	"sync"
)

// Logger defines the logging interface used across the bridge package.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// HandlerFunc processes one inbound message: an ordered, heterogeneous
// argument tuple in, an ordered result tuple out. Handlers are pure with
// respect to the router; side effects happen on the session graph.
type HandlerFunc func(args []any) ([]any, error)

// Router maps address strings to handlers. Lookup is exact string equality,
// case-sensitive; there is no pattern matching.
//
// All methods are safe for concurrent use.
type Router struct {
	mu       sync.RWMutex
	handlers map[string]HandlerFunc
	logger   Logger
}

// NewRouter creates an empty router.
func NewRouter(logger Logger) *Router {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Router{
		handlers: make(map[string]HandlerFunc),
		logger:   logger,
	}
}

// Register binds an address to a handler. Re-registering an address
// overwrites the previous binding (last writer wins) and is logged, since
// it usually indicates a wiring mistake.
func (r *Router) Register(address string, h HandlerFunc) {
	r.mu.Lock()
	_, replaced := r.handlers[address]
	r.handlers[address] = h
	r.mu.Unlock()

	if replaced {
		r.logger.Warn("handler re-registered, previous binding replaced", "address", address)
	}
}

// Dispatch routes one message to its handler.
//
// An unregistered address returns ErrUnknownAddress so misconfigured clients
// are observable. Handler errors and panics are logged with the offending
// address and arguments and returned as plain errors; nothing escapes the
// dispatch boundary, so one bad request cannot take down the service loop.
func (r *Router) Dispatch(address string, args []any) (results []any, err error) {
	r.mu.RLock()
	h, ok := r.handlers[address]
	r.mu.RUnlock()

	if !ok {
		r.logger.Warn("no handler for address", "address", address)
		return nil, fmt.Errorf("%w: %s", ErrUnknownAddress, address)
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("handler panicked",
				"address", address,
				"args", fmt.Sprintf("%v", args),
				"panic", fmt.Sprintf("%v", rec))
			results = nil
			err = fmt.Errorf("%w: %s: %v", ErrHandlerPanic, address, rec)
		}
	}()

	results, err = h(args)
	if err != nil {
		r.logger.Error("handler failed",
			"address", address,
			"args", fmt.Sprintf("%v", args),
			"error", err)
		return nil, err
	}
	return results, nil
}

// Addresses returns every registered address in sorted order. Transports use
// this to bind their own per-address receive hooks.
func (r *Router) Addresses() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.handlers))
	for addr := range r.handlers {
		out = append(out, addr)
	}
	sort.Strings(out)
	return out
}
