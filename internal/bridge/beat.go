package bridge

// BeatDetector turns a continuously-varying playback time into discrete beat
// edges. The host fires its time listener many times per beat; the detector
// passes an event through only when the integer beat changes, or whenever
// time moves backward (loop wrap, rewind or manual seek) — a rewind to the
// same integer beat is still a musically meaningful edge.
//
// One detector instance belongs to one beat subscription; restarting the
// subscription creates a fresh detector, which resets the state.
type BeatDetector struct {
	lastTime float64
}

// NewBeatDetector creates a detector seeded with the playback time at the
// moment the subscription starts, so the first notification only fires if it
// crosses a beat from there.
func NewBeatDetector(start float64) *BeatDetector {
	return &BeatDetector{lastTime: start}
}

// Advance feeds the next playback time. It returns the integer beat and
// whether an edge event should fire. The remembered time is updated
// unconditionally, whether or not an edge fired.
func (d *BeatDetector) Advance(t float64) (beat int, fire bool) {
	if t < d.lastTime || int(t) > int(d.lastTime) {
		fire = true
	}
	d.lastTime = t
	return int(t), fire
}
