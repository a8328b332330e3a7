package osc

import "fmt"

// toWire normalizes one handler value to an OSC-encodable type. Handlers
// produce Go-native widths; OSC's default numeric tags are 32-bit. nil
// passes through as the nil tag, marking an empty value slot.
func toWire(v any) any {
	switch n := v.(type) {
	case int:
		return int32(n)
	case int64:
		return int32(n)
	case float64:
		return float32(n)
	case nil, int32, float32, bool, string, []byte:
		return v
	default:
		// Unrecognized types stringify rather than break the whole message.
		return fmt.Sprintf("%v", n)
	}
}
