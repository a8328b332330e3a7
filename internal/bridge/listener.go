package bridge

import (
	"errors"
	"fmt"
	"sync"

	"github.com/liveosc/liveosc-core/internal/session"
)

// EmitFunc delivers one outbound message: a host-driven change event
// re-emitted to the address's subscribers. Implementations must not block.
type EmitFunc func(address string, args []any)

// subKey identifies one subscription by entity identity and property name.
type subKey struct {
	ref  any
	prop string
}

// beatProp is the pseudo-property the beat subscription is keyed under. The
// underlying host listener watches the raw playback time.
const beatProp = "beat"

// ListenerRegistry owns all active change subscriptions.
//
// Invariants: at most one subscription per (entity, property) key; Start on
// a subscribed key is a no-op; Stop on an unsubscribed key is a no-op and
// never fails. Deregistration failures are swallowed — cleanup is
// best-effort, since the underlying handle may already be dead when the
// entity was deleted host-side.
type ListenerRegistry struct {
	mu     sync.Mutex
	subs   map[subKey]session.Handle
	emit   EmitFunc
	logger Logger
}

// NewListenerRegistry creates a registry emitting change events through emit.
func NewListenerRegistry(emit EmitFunc, logger Logger) *ListenerRegistry {
	if logger == nil {
		logger = noopLogger{}
	}
	return &ListenerRegistry{
		subs:   make(map[subKey]session.Handle),
		emit:   emit,
		logger: logger,
	}
}

// Start subscribes to changes of prop on ref. Every change notification
// re-reads the property via read and emits the value tuple to address.
//
// Starting an already-subscribed key does nothing. If read reports a stale
// reference during a notification, the subscription tears itself down.
func (lr *ListenerRegistry) Start(ref session.Observable, prop, address string, read func() ([]any, error)) error {
	key := subKey{ref: ref, prop: prop}

	lr.mu.Lock()
	if _, ok := lr.subs[key]; ok {
		lr.mu.Unlock()
		lr.logger.Debug("listener already active", "property", prop, "address", address)
		return nil
	}
	lr.mu.Unlock()

	handle, err := ref.AddListener(prop, func() {
		values, err := read()
		if err != nil {
			if errors.Is(err, session.ErrStale) || errors.Is(err, ErrStaleReference) {
				lr.logger.Info("listener target went stale, unsubscribing", "property", prop)
				lr.Stop(ref, prop)
				return
			}
			lr.logger.Error("listener read failed", "property", prop, "error", err)
			return
		}
		lr.emit(address, values)
	})
	if err != nil {
		return fmt.Errorf("subscribing to %s: %w", prop, wrapStale(err))
	}

	lr.mu.Lock()
	// A concurrent Start may have won the race; keep the first and drop ours.
	if _, ok := lr.subs[key]; ok {
		lr.mu.Unlock()
		lr.removeQuietly(handle, prop)
		return nil
	}
	lr.subs[key] = handle
	lr.mu.Unlock()

	lr.logger.Debug("listener started", "property", prop, "address", address)
	return nil
}

// Stop unsubscribes the (ref, prop) key. Stopping a never-started or
// already-stopped key is a no-op. Deregistration failures are swallowed.
func (lr *ListenerRegistry) Stop(ref any, prop string) {
	key := subKey{ref: ref, prop: prop}

	lr.mu.Lock()
	handle, ok := lr.subs[key]
	if ok {
		delete(lr.subs, key)
	}
	lr.mu.Unlock()

	if !ok {
		return
	}
	lr.removeQuietly(handle, prop)
	lr.logger.Debug("listener stopped", "property", prop)
}

// StartBeat subscribes the beat edge detector to the song's playback time.
// A prior beat subscription is stopped first (replace, not stack), so
// re-issuing start never duplicates emissions, and the detector state resets
// on every restart.
func (lr *ListenerRegistry) StartBeat(song session.Song, address string) error {
	lr.Stop(song, beatProp)

	start, err := song.CurrentSongTime()
	if err != nil {
		return fmt.Errorf("reading playback time: %w", wrapStale(err))
	}
	detector := NewBeatDetector(start)

	handle, err := song.AddListener("current_song_time", func() {
		t, err := song.CurrentSongTime()
		if err != nil {
			if errors.Is(err, session.ErrStale) {
				lr.Stop(song, beatProp)
				return
			}
			lr.logger.Error("beat listener read failed", "error", err)
			return
		}
		if beat, fire := detector.Advance(t); fire {
			lr.emit(address, []any{beat})
		}
	})
	if err != nil {
		return fmt.Errorf("subscribing beat listener: %w", wrapStale(err))
	}

	lr.mu.Lock()
	lr.subs[subKey{ref: song, prop: beatProp}] = handle
	lr.mu.Unlock()

	lr.logger.Info("beat listener started", "address", address)
	return nil
}

// StopBeat removes the beat subscription if present.
func (lr *ListenerRegistry) StopBeat(song session.Song) {
	lr.Stop(song, beatProp)
}

// Active reports whether a subscription exists for the key. Intended for
// tests and diagnostics.
func (lr *ListenerRegistry) Active(ref any, prop string) bool {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	_, ok := lr.subs[subKey{ref: ref, prop: prop}]
	return ok
}

// Count returns the number of active subscriptions.
func (lr *ListenerRegistry) Count() int {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	return len(lr.subs)
}

// StopAll tears down every subscription. Per-entry failures are isolated so
// one dead handle cannot block the sweep. Called on bridge teardown.
func (lr *ListenerRegistry) StopAll() {
	lr.mu.Lock()
	handles := make(map[subKey]session.Handle, len(lr.subs))
	for k, h := range lr.subs {
		handles[k] = h
	}
	lr.subs = make(map[subKey]session.Handle)
	lr.mu.Unlock()

	for k, h := range handles {
		lr.removeQuietly(h, k.prop)
	}
	if len(handles) > 0 {
		lr.logger.Info("all listeners stopped", "count", len(handles))
	}
}

// removeQuietly deregisters a host handle, swallowing failures.
func (lr *ListenerRegistry) removeQuietly(h session.Handle, prop string) {
	if err := h.Remove(); err != nil {
		lr.logger.Debug("listener deregistration failed (ignored)", "property", prop, "error", err)
	}
}
