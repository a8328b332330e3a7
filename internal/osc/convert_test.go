package osc

import "testing"

func TestToWire(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"int narrows to int32", 7, int32(7)},
		{"int64 narrows to int32", int64(3), int32(3)},
		{"float64 narrows to float32", 1.5, float32(1.5)},
		{"int32 passthrough", int32(9), int32(9)},
		{"float32 passthrough", float32(2.5), float32(2.5)},
		{"bool passthrough", true, true},
		{"string passthrough", "Lead", "Lead"},
		{"nil passthrough", nil, nil},
		{"unknown type stringifies", struct{ X int }{1}, "{1}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := toWire(tt.in); got != tt.want {
				t.Errorf("toWire(%v) = %v (%T), want %v (%T)", tt.in, got, got, tt.want, tt.want)
			}
		})
	}
}
