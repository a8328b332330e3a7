// Package journal persists outbound notifications to SQLite.
//
// Every message the bridge emits (listener updates, beat pulses) can be
// recorded as an event row: a UUID, the OSC address, the argument list as
// JSON, the source of the emission, and a UTC timestamp. The journal gives
// controller authors a replayable trace of what the bridge sent and when,
// queryable over the HTTP API.
//
// # Architecture
//
// Journal is a thin repository over the shared *sql.DB. Writes are
// serialised by the single-connection pool, so Record is safe to call from
// the emission path. Reads clamp their limit to keep HTTP responses
// bounded, and Prune trims rows past the retention window.
package journal
