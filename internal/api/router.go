package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/liveosc/liveosc-core/internal/bridge"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.instrument)
	r.Use(s.recoverPanics)
	r.Use(s.allowCrossOrigin)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// Session snapshots
		r.Get("/session", s.handleSessionInfo)
		r.Get("/session/grid", s.handleClipGrid)

		// Bridge surface
		r.Get("/addresses", s.handleAddresses)
		r.Post("/dispatch", s.handleDispatch)

		// Outbound event history
		r.Get("/events", s.handleEvents)
	})

	// WebSocket event mirror
	wsPath := s.wsCfg.Path
	if wsPath == "" {
		wsPath = "/ws"
	}
	r.Get(wsPath, s.handleWebSocket)

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"version":    s.version,
		"ws_clients": s.hub.ClientCount(),
	})
}

// handleSessionInfo returns the session summary snapshot. The snapshot
// builder already produces JSON, so the payload is written verbatim.
func (s *Server) handleSessionInfo(w http.ResponseWriter, _ *http.Request) {
	payload, err := s.snapshots.SessionInfo()
	if err != nil {
		writeInternalError(w, "building session snapshot: "+err.Error())
		return
	}
	writeRawJSON(w, http.StatusOK, payload)
}

// handleClipGrid returns the clip grid snapshot.
func (s *Server) handleClipGrid(w http.ResponseWriter, _ *http.Request) {
	payload, err := s.snapshots.ClipGrid()
	if err != nil {
		writeInternalError(w, "building clip grid snapshot: "+err.Error())
		return
	}
	writeRawJSON(w, http.StatusOK, payload)
}

// handleAddresses returns the registered OSC address catalogue.
func (s *Server) handleAddresses(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"addresses": s.router.Addresses(),
	})
}

// dispatchRequest is the body of POST /api/v1/dispatch.
type dispatchRequest struct {
	Address string `json:"address"`
	Args    []any  `json:"args"`
}

// handleDispatch invokes a bridge operation over HTTP. The request body
// names an OSC address and its arguments; the reply carries the handler's
// results. Argument numbers arrive as float64 after JSON decoding and are
// coerced by the property layer the same way OSC integers are.
func (s *Server) handleDispatch(w http.ResponseWriter, r *http.Request) {
	var req dispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Address == "" {
		writeBadRequest(w, "address is required")
		return
	}

	results, err := s.router.Dispatch(req.Address, req.Args)
	if err != nil {
		switch {
		case errors.Is(err, bridge.ErrUnknownAddress):
			writeNotFound(w, err.Error())
		case errors.Is(err, bridge.ErrHandlerPanic):
			writeInternalError(w, err.Error())
		case errors.Is(err, bridge.ErrStaleReference):
			writeError(w, http.StatusGone, "stale_reference", err.Error())
		default:
			writeError(w, http.StatusBadRequest, ErrCodeValidation, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"address": req.Address,
		"results": results,
	})
}

// handleEvents returns recent journal entries, newest first. Supports
// ?address= to filter on one OSC address and ?limit= to bound the page.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		writeError(w, http.StatusServiceUnavailable, "journal_disabled", "event journal is not enabled")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeBadRequest(w, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	events, err := s.journal.Recent(r.Context(), r.URL.Query().Get("address"), limit)
	if err != nil {
		writeInternalError(w, "querying events: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"events": events,
		"count":  len(events),
	})
}
