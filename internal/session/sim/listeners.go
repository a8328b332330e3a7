package sim

import (
	"fmt"
	"sync"

	"github.com/liveosc/liveosc-core/internal/session"
)

// listenerSet holds per-property change callbacks for one entity.
//
// fire is always called outside the owning entity's state lock so that
// callbacks can re-read entity properties without deadlocking.
type listenerSet struct {
	mu     sync.Mutex
	nextID int
	byProp map[string]map[int]func()
}

func newListenerSet() *listenerSet {
	return &listenerSet{byProp: make(map[string]map[int]func())}
}

func (ls *listenerSet) add(prop string, fn func()) session.Handle {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	if ls.byProp[prop] == nil {
		ls.byProp[prop] = make(map[int]func())
	}
	id := ls.nextID
	ls.nextID++
	ls.byProp[prop][id] = fn

	return &listenerHandle{set: ls, prop: prop, id: id}
}

// fire invokes every callback registered for prop. Callbacks run on the
// caller's goroutine, matching the host model of sequential delivery.
func (ls *listenerSet) fire(prop string) {
	ls.mu.Lock()
	fns := make([]func(), 0, len(ls.byProp[prop]))
	for _, fn := range ls.byProp[prop] {
		fns = append(fns, fn)
	}
	ls.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// listenerHandle implements session.Handle for one registered callback.
type listenerHandle struct {
	set  *listenerSet
	prop string
	id   int
}

func (h *listenerHandle) Remove() error {
	h.set.mu.Lock()
	defer h.set.mu.Unlock()

	fns, ok := h.set.byProp[h.prop]
	if !ok {
		return fmt.Errorf("sim: listener for %q already removed", h.prop)
	}
	if _, ok := fns[h.id]; !ok {
		return fmt.Errorf("sim: listener for %q already removed", h.prop)
	}
	delete(fns, h.id)
	return nil
}
