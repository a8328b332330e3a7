package bridge

import "testing"

func TestBeatDetector_FiltersSubBeatNotifications(t *testing.T) {
	// A playback-time notification stream crossing one beat boundary, then
	// seeking backward. Only the crossing and the seek are edges.
	times := []float64{0.4, 0.9, 1.1, 1.1, 0.2}

	d := NewBeatDetector(0)

	var fired []int
	for _, tt := range times {
		if beat, fire := d.Advance(tt); fire {
			fired = append(fired, beat)
		}
	}

	if len(fired) != 2 {
		t.Fatalf("got %d beat events %v, want exactly 2", len(fired), fired)
	}
	if fired[0] != 1 {
		t.Errorf("first edge beat = %d, want 1 (forward crossing at 1.1)", fired[0])
	}
	if fired[1] != 0 {
		t.Errorf("second edge beat = %d, want 0 (backward jump to 0.2)", fired[1])
	}
}

func TestBeatDetector_Advance(t *testing.T) {
	tests := []struct {
		name     string
		start    float64
		next     float64
		wantBeat int
		wantFire bool
	}{
		{"forward within beat", 1.0, 1.9, 1, false},
		{"forward crossing", 1.9, 2.0, 2, true},
		{"crossing several beats", 0.5, 3.2, 3, true},
		{"backward same beat", 2.5, 2.4, 2, true},
		{"backward to zero", 7.9, 0.0, 0, true},
		{"stationary", 3.0, 3.0, 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewBeatDetector(tt.start)
			beat, fire := d.Advance(tt.next)
			if beat != tt.wantBeat || fire != tt.wantFire {
				t.Errorf("Advance(%v) = (%d, %v), want (%d, %v)",
					tt.next, beat, fire, tt.wantBeat, tt.wantFire)
			}
		})
	}
}

func TestBeatDetector_SeededFromSubscriptionTime(t *testing.T) {
	// Starting mid-beat: the first notification within the same beat is not
	// an edge, only the actual crossing is.
	d := NewBeatDetector(3.7)

	if _, fire := d.Advance(3.9); fire {
		t.Error("notification within the starting beat should not fire")
	}
	beat, fire := d.Advance(4.0)
	if !fire || beat != 4 {
		t.Errorf("crossing = (%d, %v), want (4, true)", beat, fire)
	}
}

func TestBeatDetector_UpdatesStateWithoutFiring(t *testing.T) {
	// The remembered time advances even on filtered notifications, so a
	// later backward jump is measured against the latest time seen.
	d := NewBeatDetector(0)

	d.Advance(0.3)
	d.Advance(0.8)
	beat, fire := d.Advance(0.5)
	if !fire || beat != 0 {
		t.Errorf("backward jump after filtered samples = (%d, %v), want (0, true)", beat, fire)
	}
}
