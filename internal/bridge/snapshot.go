package bridge

import (
	"encoding/json"
	"fmt"

	"github.com/liveosc/liveosc-core/internal/session"
)

// unnamedClip is the placeholder for an occupied slot whose clip has an
// empty name. Clients must treat it as "present but unnamed" — distinct from
// the key being absent, which means the slot is empty.
const unnamedClip = "(unnamed)"

// SessionInfo is the fixed-shape session summary payload.
type SessionInfo struct {
	TrackNames  []string `json:"track_names"`
	TrackColors []string `json:"track_colors"`
	MidiTracks  []bool   `json:"midi_tracks"`
	NumScenes   int      `json:"num_scenes"`
	RootNote    int      `json:"root_note"`
	ScaleName   string   `json:"scale_name"`
}

// ClipGrid is the sparse clip-grid occupancy payload. Both maps are keyed by
// "<track_index>,<slot_index>"; empty slots have no key.
type ClipGrid struct {
	Clips      map[string]string `json:"clips"`
	ClipColors map[string]string `json:"clip_colors"`
}

// SnapshotBuilder produces the two fixed-shape bulk responses that replace
// many per-property round trips with one serialized payload. Counts are read
// fresh on every call; nothing is cached, since the graph can be mutated
// between requests.
type SnapshotBuilder struct {
	song session.Song
}

// NewSnapshotBuilder creates a builder over the song.
func NewSnapshotBuilder(song session.Song) *SnapshotBuilder {
	return &SnapshotBuilder{song: song}
}

// SessionInfo collects per-track metadata plus session-wide scalars in one
// pass and serializes them to JSON.
func (b *SnapshotBuilder) SessionInfo() (string, error) {
	tracks, err := b.song.Tracks()
	if err != nil {
		return "", wrapStale(err)
	}
	scenes, err := b.song.Scenes()
	if err != nil {
		return "", wrapStale(err)
	}
	rootNote, err := b.song.RootNote()
	if err != nil {
		return "", wrapStale(err)
	}
	scaleName, err := b.song.ScaleName()
	if err != nil {
		return "", wrapStale(err)
	}

	info := SessionInfo{
		TrackNames:  make([]string, 0, len(tracks)),
		TrackColors: make([]string, 0, len(tracks)),
		MidiTracks:  make([]bool, 0, len(tracks)),
		NumScenes:   len(scenes),
		RootNote:    rootNote,
		ScaleName:   scaleName,
	}

	for _, track := range tracks {
		name, err := track.Name()
		if err != nil {
			return "", wrapStale(err)
		}
		color, err := track.Color()
		if err != nil {
			return "", wrapStale(err)
		}
		midi, err := track.HasMidiInput()
		if err != nil {
			return "", wrapStale(err)
		}
		info.TrackNames = append(info.TrackNames, name)
		info.TrackColors = append(info.TrackColors, ColorHex(color))
		info.MidiTracks = append(info.MidiTracks, midi)
	}

	payload, err := json.Marshal(info)
	if err != nil {
		return "", fmt.Errorf("encoding session info: %w", err)
	}
	return string(payload), nil
}

// ClipGrid collects occupied clip slots with names and colors in one pass.
// Iteration is clamped to the scene count read at call time; a clip sitting
// in a slot beyond the last scene is not reported.
func (b *SnapshotBuilder) ClipGrid() (string, error) {
	tracks, err := b.song.Tracks()
	if err != nil {
		return "", wrapStale(err)
	}
	scenes, err := b.song.Scenes()
	if err != nil {
		return "", wrapStale(err)
	}
	numScenes := len(scenes)

	grid := ClipGrid{
		Clips:      make(map[string]string),
		ClipColors: make(map[string]string),
	}

	for trackIndex, track := range tracks {
		slots, err := track.ClipSlots()
		if err != nil {
			return "", wrapStale(err)
		}
		for slotIndex, slot := range slots {
			if slotIndex >= numScenes {
				break
			}
			clip, err := slot.Clip()
			if err != nil {
				return "", wrapStale(err)
			}
			if clip == nil {
				continue
			}

			name, err := clip.Name()
			if err != nil {
				return "", wrapStale(err)
			}
			color, err := clip.Color()
			if err != nil {
				return "", wrapStale(err)
			}

			key := fmt.Sprintf("%d,%d", trackIndex, slotIndex)
			if name == "" {
				name = unnamedClip
			}
			grid.Clips[key] = name
			grid.ClipColors[key] = ColorHex(color)
		}
	}

	payload, err := json.Marshal(grid)
	if err != nil {
		return "", fmt.Errorf("encoding clip grid: %w", err)
	}
	return string(payload), nil
}

// ColorHex encodes a packed 24-bit integer color as "#rrggbb", extracting
// the three 8-bit channels most-significant byte first.
func ColorHex(c int) string {
	return fmt.Sprintf("#%02x%02x%02x", (c>>16)&0xFF, (c>>8)&0xFF, c&0xFF)
}
