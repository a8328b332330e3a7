package osc

import (
	"fmt"
	"sync"

	gosc "github.com/chabad360/go-osc/osc"

	"github.com/liveosc/liveosc-core/internal/bridge"
)

// errorAddress carries handler failures back to the controller as a single
// human-readable string.
const errorAddress = "/live/error"

// Logger is the logging interface used by the transport.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Config holds the transport endpoints. Replies and events go to a fixed
// controller endpoint rather than the request's source address, matching
// controllers that listen on a port other than the one they send from.
type Config struct {
	ListenHost string
	ListenPort int
	ReplyHost  string
	ReplyPort  int
}

// Server bridges UDP OSC traffic and the address router.
//
// Start binds one dispatcher method per registered router address and serves
// in a background goroutine. Emit is safe for concurrent use and doubles as
// the listener registry's EmitFunc.
type Server struct {
	cfg    Config
	router *bridge.Router
	client *gosc.Client
	logger Logger

	startOnce sync.Once
	started   bool
	mu        sync.Mutex
}

// NewServer creates a transport over the router. The router's address set is
// snapshotted at Start, so all controllers must register before then.
func NewServer(cfg Config, router *bridge.Router, logger Logger) *Server {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Server{
		cfg:    cfg,
		router: router,
		client: gosc.NewClient(cfg.ReplyHost, cfg.ReplyPort),
		logger: logger,
	}
}

// Start binds the UDP listener and begins dispatching. The listener runs
// until the process exits; the underlying library offers no shutdown hook,
// so teardown is handled by stopping the emitters above it.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.started = true
	s.mu.Unlock()

	dispatcher := gosc.NewStandardDispatcher()
	addresses := s.router.Addresses()
	for _, address := range addresses {
		addr := address
		dispatcher.AddMsgHandler(addr, func(msg *gosc.Message) { //nolint:errcheck
			s.handle(addr, msg)
		})
	}

	server := &gosc.Server{
		Addr:       fmt.Sprintf("%s:%d", s.cfg.ListenHost, s.cfg.ListenPort),
		Dispatcher: dispatcher,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil {
			s.logger.Error("osc listener terminated", "error", err)
		}
	}()

	s.logger.Info("osc transport started",
		"listen", server.Addr,
		"reply", fmt.Sprintf("%s:%d", s.cfg.ReplyHost, s.cfg.ReplyPort),
		"addresses", len(addresses))
	return nil
}

// handle routes one inbound message and sends the reply or the error.
func (s *Server) handle(address string, msg *gosc.Message) {
	results, err := s.router.Dispatch(address, msg.Arguments)
	if err != nil {
		s.sendError(address, err)
		return
	}
	if len(results) == 0 {
		return
	}
	if err := s.send(address, results); err != nil {
		s.logger.Error("reply send failed", "address", address, "error", err)
	}
}

// Emit sends one outbound event. It implements bridge.EmitFunc.
func (s *Server) Emit(address string, args []any) {
	if err := s.send(address, args); err != nil {
		s.logger.Error("event send failed", "address", address, "error", err)
	}
}

func (s *Server) send(address string, args []any) error {
	msg := gosc.NewMessage(address)
	for _, arg := range args {
		msg.Append(toWire(arg)) //nolint:errcheck
	}
	if err := s.client.Send(msg); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrSendFailed, address, err)
	}
	return nil
}

func (s *Server) sendError(address string, dispatchErr error) {
	msg := gosc.NewMessage(errorAddress)
	msg.Append(fmt.Sprintf("%s: %s", address, dispatchErr.Error())) //nolint:errcheck
	if err := s.client.Send(msg); err != nil {
		s.logger.Error("error report send failed", "address", address, "error", err)
	}
}
