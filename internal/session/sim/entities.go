package sim

import (
	"sync"

	"github.com/liveosc/liveosc-core/internal/session"
)

// Scene is the in-memory scene implementation.
type Scene struct {
	mu    sync.Mutex
	ls    *listenerSet
	stale bool

	name  string
	color int
}

// AddListener implements session.Observable.
func (sc *Scene) AddListener(prop string, fn func()) (session.Handle, error) {
	sc.mu.Lock()
	if sc.stale {
		sc.mu.Unlock()
		return nil, session.ErrStale
	}
	sc.mu.Unlock()
	return sc.ls.add(prop, fn), nil
}

func (sc *Scene) Name() (string, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.stale {
		return "", session.ErrStale
	}
	return sc.name, nil
}

func (sc *Scene) SetName(v string) error {
	sc.mu.Lock()
	if sc.stale {
		sc.mu.Unlock()
		return session.ErrStale
	}
	sc.name = v
	sc.mu.Unlock()
	sc.ls.fire("name")
	return nil
}

func (sc *Scene) Color() (int, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.stale {
		return 0, session.ErrStale
	}
	return sc.color, nil
}

// SetColor seeds the scene color.
func (sc *Scene) SetColor(v int) {
	sc.mu.Lock()
	sc.color = v
	sc.mu.Unlock()
	sc.ls.fire("color")
}

func (sc *Scene) markStale() {
	sc.mu.Lock()
	sc.stale = true
	sc.mu.Unlock()
}

// ─── Device ────────────────────────────────────────────────────────

// Device is the in-memory device implementation.
type Device struct {
	mu    sync.Mutex
	ls    *listenerSet
	stale bool

	name      string
	className string
	typ       int
	params    []*Parameter
}

// AddListener implements session.Observable.
func (d *Device) AddListener(prop string, fn func()) (session.Handle, error) {
	d.mu.Lock()
	if d.stale {
		d.mu.Unlock()
		return nil, session.ErrStale
	}
	d.mu.Unlock()
	return d.ls.add(prop, fn), nil
}

func (d *Device) Name() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stale {
		return "", session.ErrStale
	}
	return d.name, nil
}

func (d *Device) ClassName() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stale {
		return "", session.ErrStale
	}
	return d.className, nil
}

func (d *Device) Type() (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stale {
		return 0, session.ErrStale
	}
	return d.typ, nil
}

func (d *Device) Parameters() ([]session.Parameter, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stale {
		return nil, session.ErrStale
	}
	out := make([]session.Parameter, len(d.params))
	for i, p := range d.params {
		out[i] = p
	}
	return out, nil
}

// AddParameter seeds one automatable parameter on the device.
func (d *Device) AddParameter(name string, value, min, max float64, quantized bool) *Parameter {
	p := &Parameter{
		ls:        newListenerSet(),
		name:      name,
		value:     value,
		min:       min,
		max:       max,
		quantized: quantized,
	}
	d.mu.Lock()
	d.params = append(d.params, p)
	d.mu.Unlock()
	return p
}

func (d *Device) markStale() {
	d.mu.Lock()
	d.stale = true
	params := append([]*Parameter(nil), d.params...)
	d.mu.Unlock()
	for _, p := range params {
		p.markStale()
	}
}

// ─── Parameter ─────────────────────────────────────────────────────

// Parameter is the in-memory device parameter implementation.
type Parameter struct {
	mu    sync.Mutex
	ls    *listenerSet
	stale bool

	name      string
	value     float64
	min       float64
	max       float64
	quantized bool
}

// AddListener implements session.Observable.
func (p *Parameter) AddListener(prop string, fn func()) (session.Handle, error) {
	p.mu.Lock()
	if p.stale {
		p.mu.Unlock()
		return nil, session.ErrStale
	}
	p.mu.Unlock()
	return p.ls.add(prop, fn), nil
}

func (p *Parameter) Name() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stale {
		return "", session.ErrStale
	}
	return p.name, nil
}

func (p *Parameter) Value() (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stale {
		return 0, session.ErrStale
	}
	return p.value, nil
}

func (p *Parameter) SetValue(v float64) error {
	p.mu.Lock()
	if p.stale {
		p.mu.Unlock()
		return session.ErrStale
	}
	if v < p.min {
		v = p.min
	}
	if v > p.max {
		v = p.max
	}
	p.value = v
	p.mu.Unlock()
	p.ls.fire("value")
	return nil
}

func (p *Parameter) Min() (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stale {
		return 0, session.ErrStale
	}
	return p.min, nil
}

func (p *Parameter) Max() (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stale {
		return 0, session.ErrStale
	}
	return p.max, nil
}

func (p *Parameter) IsQuantized() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stale {
		return false, session.ErrStale
	}
	return p.quantized, nil
}

func (p *Parameter) markStale() {
	p.mu.Lock()
	p.stale = true
	p.mu.Unlock()
}

// ─── CuePoint ──────────────────────────────────────────────────────

// CuePoint is the in-memory cue point implementation.
type CuePoint struct {
	song  *Song
	mu    sync.Mutex
	ls    *listenerSet
	stale bool

	name string
	time float64
}

// AddListener implements session.Observable.
func (c *CuePoint) AddListener(prop string, fn func()) (session.Handle, error) {
	c.mu.Lock()
	if c.stale {
		c.mu.Unlock()
		return nil, session.ErrStale
	}
	c.mu.Unlock()
	return c.ls.add(prop, fn), nil
}

func (c *CuePoint) Name() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stale {
		return "", session.ErrStale
	}
	return c.name, nil
}

func (c *CuePoint) SetName(v string) error {
	c.mu.Lock()
	if c.stale {
		c.mu.Unlock()
		return session.ErrStale
	}
	c.name = v
	c.mu.Unlock()
	c.ls.fire("name")
	return nil
}

func (c *CuePoint) Time() (float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stale {
		return 0, session.ErrStale
	}
	return c.time, nil
}

// Jump moves the song's playhead to the cue's time.
func (c *CuePoint) Jump() error {
	c.mu.Lock()
	if c.stale {
		c.mu.Unlock()
		return session.ErrStale
	}
	song, t := c.song, c.time
	c.mu.Unlock()
	return song.SetCurrentSongTime(t)
}

func (c *CuePoint) markStale() {
	c.mu.Lock()
	c.stale = true
	c.mu.Unlock()
}
