package sim

import (
	"sync"

	"github.com/liveosc/liveosc-core/internal/session"
)

// Track is the in-memory track implementation.
type Track struct {
	song  *Song
	mu    sync.Mutex
	ls    *listenerSet
	stale bool

	name         string
	color        int
	hasMidiInput bool
	mute         bool
	solo         bool
	arm          bool
	isFoldable   bool
	group        *Track

	slots   []*ClipSlot
	devices []*Device
}

func (t *Track) withRead(fn func()) error {
	t.mu.Lock()
	if t.stale {
		t.mu.Unlock()
		return session.ErrStale
	}
	fn()
	t.mu.Unlock()
	return nil
}

func (t *Track) setAndFire(prop string, fn func()) error {
	t.mu.Lock()
	if t.stale {
		t.mu.Unlock()
		return session.ErrStale
	}
	fn()
	t.mu.Unlock()
	t.ls.fire(prop)
	return nil
}

// AddListener implements session.Observable.
func (t *Track) AddListener(prop string, fn func()) (session.Handle, error) {
	t.mu.Lock()
	if t.stale {
		t.mu.Unlock()
		return nil, session.ErrStale
	}
	t.mu.Unlock()
	return t.ls.add(prop, fn), nil
}

func (t *Track) Name() (string, error) {
	var v string
	err := t.withRead(func() { v = t.name })
	return v, err
}

func (t *Track) SetName(v string) error {
	return t.setAndFire("name", func() { t.name = v })
}

func (t *Track) Color() (int, error) {
	var v int
	err := t.withRead(func() { v = t.color })
	return v, err
}

func (t *Track) SetColor(v int) error {
	return t.setAndFire("color", func() { t.color = v })
}

func (t *Track) HasMidiInput() (bool, error) {
	var v bool
	err := t.withRead(func() { v = t.hasMidiInput })
	return v, err
}

func (t *Track) Mute() (bool, error) {
	var v bool
	err := t.withRead(func() { v = t.mute })
	return v, err
}

func (t *Track) SetMute(v bool) error {
	return t.setAndFire("mute", func() { t.mute = v })
}

func (t *Track) Solo() (bool, error) {
	var v bool
	err := t.withRead(func() { v = t.solo })
	return v, err
}

func (t *Track) SetSolo(v bool) error {
	return t.setAndFire("solo", func() { t.solo = v })
}

func (t *Track) Arm() (bool, error) {
	var v bool
	err := t.withRead(func() { v = t.arm })
	return v, err
}

func (t *Track) SetArm(v bool) error {
	return t.setAndFire("arm", func() { t.arm = v })
}

func (t *Track) IsFoldable() (bool, error) {
	var v bool
	err := t.withRead(func() { v = t.isFoldable })
	return v, err
}

func (t *Track) GroupTrack() (session.Track, error) {
	var group *Track
	err := t.withRead(func() { group = t.group })
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, nil
	}
	return group, nil
}

func (t *Track) ClipSlots() ([]session.ClipSlot, error) {
	var out []session.ClipSlot
	err := t.withRead(func() {
		out = make([]session.ClipSlot, len(t.slots))
		for i, slot := range t.slots {
			out[i] = slot
		}
	})
	return out, err
}

func (t *Track) Devices() ([]session.Device, error) {
	var out []session.Device
	err := t.withRead(func() {
		out = make([]session.Device, len(t.devices))
		for i, d := range t.devices {
			out[i] = d
		}
	})
	return out, err
}

// insertSlot adds an empty slot at index, growing the column for a new scene.
func (t *Track) insertSlot(index int) {
	t.mu.Lock()
	slot := newClipSlot(t)
	if index < 0 || index >= len(t.slots) {
		t.slots = append(t.slots, slot)
	} else {
		t.slots = append(t.slots[:index], append([]*ClipSlot{slot}, t.slots[index:]...)...)
	}
	t.mu.Unlock()
}

// removeSlot removes and returns the slot at index, or nil if out of range.
func (t *Track) removeSlot(index int) *ClipSlot {
	t.mu.Lock()
	defer t.mu.Unlock()
	if index < 0 || index >= len(t.slots) {
		return nil
	}
	slot := t.slots[index]
	t.slots = append(t.slots[:index], t.slots[index+1:]...)
	return slot
}

// stopClips stops every playing clip on the track.
func (t *Track) stopClips() {
	t.mu.Lock()
	slots := append([]*ClipSlot(nil), t.slots...)
	t.mu.Unlock()

	for _, slot := range slots {
		slot.mu.Lock()
		clip := slot.clip
		slot.mu.Unlock()
		if clip != nil {
			clip.setAndFire("is_playing", func() { clip.isPlaying = false }) //nolint:errcheck
		}
	}
}

// markStale marks the track and everything it owns as no longer existing.
func (t *Track) markStale() {
	t.mu.Lock()
	t.stale = true
	slots := append([]*ClipSlot(nil), t.slots...)
	devices := append([]*Device(nil), t.devices...)
	t.mu.Unlock()

	for _, slot := range slots {
		slot.markStale()
	}
	for _, d := range devices {
		d.markStale()
	}
}

// ─── Seed helpers ──────────────────────────────────────────────────

// SetGroup seeds the track's enclosing group track and marks the group
// foldable, mirroring a grouped host layout.
func (t *Track) SetGroup(group *Track) {
	t.mu.Lock()
	t.group = group
	t.mu.Unlock()
	if group != nil {
		group.mu.Lock()
		group.isFoldable = true
		group.mu.Unlock()
	}
}

// AddClip seeds a clip into the slot at slotIndex. Returns nil when the
// index is out of range or the slot is already occupied.
func (t *Track) AddClip(slotIndex int, name string, length float64) *Clip {
	t.mu.Lock()
	if slotIndex < 0 || slotIndex >= len(t.slots) {
		t.mu.Unlock()
		return nil
	}
	slot := t.slots[slotIndex]
	t.mu.Unlock()

	slot.mu.Lock()
	defer slot.mu.Unlock()
	if slot.clip != nil {
		return nil
	}
	clip := &Clip{slot: slot, ls: newListenerSet(), name: name, length: length}
	slot.clip = clip
	return clip
}

// AddDevice appends a device to the track's chain.
func (t *Track) AddDevice(name, className string, typ int) *Device {
	d := &Device{ls: newListenerSet(), name: name, className: className, typ: typ}
	t.mu.Lock()
	t.devices = append(t.devices, d)
	t.mu.Unlock()
	return d
}

// ─── ClipSlot ──────────────────────────────────────────────────────

// ClipSlot is the in-memory clip slot implementation.
type ClipSlot struct {
	track *Track
	mu    sync.Mutex
	ls    *listenerSet
	stale bool

	clip          *Clip
	hasStopButton bool
}

func newClipSlot(t *Track) *ClipSlot {
	return &ClipSlot{track: t, ls: newListenerSet(), hasStopButton: true}
}

// AddListener implements session.Observable.
func (cs *ClipSlot) AddListener(prop string, fn func()) (session.Handle, error) {
	cs.mu.Lock()
	if cs.stale {
		cs.mu.Unlock()
		return nil, session.ErrStale
	}
	cs.mu.Unlock()
	return cs.ls.add(prop, fn), nil
}

func (cs *ClipSlot) HasClip() (bool, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cs.stale {
		return false, session.ErrStale
	}
	return cs.clip != nil, nil
}

func (cs *ClipSlot) HasStopButton() (bool, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cs.stale {
		return false, session.ErrStale
	}
	return cs.hasStopButton, nil
}

func (cs *ClipSlot) Clip() (session.Clip, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cs.stale {
		return nil, session.ErrStale
	}
	if cs.clip == nil {
		return nil, nil
	}
	return cs.clip, nil
}

// DeleteClip seeds removal of the slot's clip, marking it stale.
func (cs *ClipSlot) DeleteClip() {
	cs.mu.Lock()
	clip := cs.clip
	cs.clip = nil
	cs.mu.Unlock()
	if clip != nil {
		clip.markStale()
	}
	cs.ls.fire("has_clip")
}

func (cs *ClipSlot) markStale() {
	cs.mu.Lock()
	cs.stale = true
	clip := cs.clip
	cs.mu.Unlock()
	if clip != nil {
		clip.markStale()
	}
}

// ─── Clip ──────────────────────────────────────────────────────────

// Clip is the in-memory clip implementation.
type Clip struct {
	slot  *ClipSlot
	mu    sync.Mutex
	ls    *listenerSet
	stale bool

	name      string
	color     int
	length    float64
	isPlaying bool
	looping   bool
}

func (c *Clip) withRead(fn func()) error {
	c.mu.Lock()
	if c.stale {
		c.mu.Unlock()
		return session.ErrStale
	}
	fn()
	c.mu.Unlock()
	return nil
}

func (c *Clip) setAndFire(prop string, fn func()) error {
	c.mu.Lock()
	if c.stale {
		c.mu.Unlock()
		return session.ErrStale
	}
	fn()
	c.mu.Unlock()
	c.ls.fire(prop)
	return nil
}

// AddListener implements session.Observable.
func (c *Clip) AddListener(prop string, fn func()) (session.Handle, error) {
	c.mu.Lock()
	if c.stale {
		c.mu.Unlock()
		return nil, session.ErrStale
	}
	c.mu.Unlock()
	return c.ls.add(prop, fn), nil
}

func (c *Clip) Name() (string, error) {
	var v string
	err := c.withRead(func() { v = c.name })
	return v, err
}

func (c *Clip) SetName(v string) error {
	return c.setAndFire("name", func() { c.name = v })
}

func (c *Clip) Color() (int, error) {
	var v int
	err := c.withRead(func() { v = c.color })
	return v, err
}

func (c *Clip) SetColor(v int) error {
	return c.setAndFire("color", func() { c.color = v })
}

func (c *Clip) Length() (float64, error) {
	var v float64
	err := c.withRead(func() { v = c.length })
	return v, err
}

func (c *Clip) IsPlaying() (bool, error) {
	var v bool
	err := c.withRead(func() { v = c.isPlaying })
	return v, err
}

func (c *Clip) Looping() (bool, error) {
	var v bool
	err := c.withRead(func() { v = c.looping })
	return v, err
}

func (c *Clip) SetLooping(v bool) error {
	return c.setAndFire("looping", func() { c.looping = v })
}

// SetPlaying seeds the read-only is_playing property.
func (c *Clip) SetPlaying(v bool) {
	c.setAndFire("is_playing", func() { c.isPlaying = v }) //nolint:errcheck
}

func (c *Clip) markStale() {
	c.mu.Lock()
	c.stale = true
	c.mu.Unlock()
}
