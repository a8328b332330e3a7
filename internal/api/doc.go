// Package api implements the HTTP REST API and WebSocket server for LiveOSC Core.
//
// This package provides:
//   - REST endpoints for session snapshots, the address catalogue, and
//     dispatching bridge operations over HTTP
//   - The outbound event history backed by the journal
//   - WebSocket hub mirroring emitted notifications in real time
//   - Middleware stack (request ID, logging, recovery, CORS)
//
// # Architecture
//
// The API server sits beside the OSC transport and exposes the same address
// router to HTTP clients. POST /api/v1/dispatch maps a JSON body onto a
// router dispatch exactly as an inbound OSC message would; WebSocket clients
// subscribe to notification addresses and receive the same emissions the
// OSC reply endpoint gets.
//
// # Graceful Degradation
//
// The server operates without the journal. Snapshots, dispatch, and the
// WebSocket mirror keep working; only GET /api/v1/events reports the
// journal as disabled.
package api
