// Package bridge implements the address-routed property bridge between the
// control protocol and the session graph.
//
// # Architecture
//
// Inbound messages flow through three layers:
//
//	address ──► Router ──► handler ──► descriptor Table ──► session entity
//
//   - Router maps exact address strings (e.g. "/live/song/get/tempo") to
//     handler functions. No pattern matching; last registration wins.
//   - Table is a per-entity-class descriptor table mapping property names to
//     typed getter/setter closures and method names to operations. Tables
//     are built once at startup and read-only afterwards, so supported
//     properties are an explicit enumeration rather than reflection.
//   - ListenerRegistry owns change subscriptions keyed by (entity, property)
//     with idempotent start/stop and best-effort teardown.
//
// Host-driven change events flow the other way: a host callback re-reads the
// property through its descriptor and emits the value to the property's
// "get" address via the registry's EmitFunc.
//
// The track_data bulk query mini-language, the session_info / clip_grid
// snapshot builders and the beat edge detector live here too; see query.go,
// snapshot.go and beat.go.
//
// # Concurrency
//
// The host delivers inbound requests and change notifications sequentially
// on one processing context. Internal maps are still mutex-guarded so the
// package stays safe if a transport drives it from multiple goroutines.
// Handlers must not block; there is no timeout layer here.
package bridge
