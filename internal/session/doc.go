// Package session defines the abstract object graph of a music-production
// session: a song holding tracks, scenes and cue points, with tracks holding
// clip slots and devices.
//
// The bridge does not own this graph. Entities are borrowed handles into a
// live, host-owned structure that can be mutated (or destroyed) between any
// two calls. Accessors therefore return errors, and an entity that has been
// removed from the graph reports ErrStale from every accessor rather than
// panicking.
//
// # Identity
//
// Entity values are identity-bearing: two handles are the same entity exactly
// when they compare equal. Implementations must back each entity with a
// comparable value (typically a pointer), since the bridge keys listener
// subscriptions on entity identity.
//
// # Change notification
//
// Entities implement Observable. AddListener registers a host-side callback
// for one named property and returns a Handle whose Remove deregisters it.
// Callbacks carry no payload; observers re-read the property they care about.
// The host delivers all callbacks on its own processing context, sequentially
// with inbound requests.
//
// The concrete implementation used by the standalone daemon and by tests
// lives in the sim subpackage.
package session
