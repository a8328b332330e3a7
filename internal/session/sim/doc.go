// Package sim provides an in-memory implementation of the session graph.
//
// It backs the daemon's standalone mode (running the bridge without a live
// host attached) and the bridge's tests. Entities are pointers, so identity
// equality matches the session package's contract, property setters fire
// registered listeners synchronously, and deleted entities turn stale:
// every subsequent accessor returns session.ErrStale.
//
// Seed methods (AddScene, AddMidiTrack, AddClip, ...) build a session
// programmatically; they sit alongside the session interface methods and are
// not part of the abstract graph contract.
package sim
