package bridge

import (
	"encoding/json"
	"testing"

	"github.com/liveosc/liveosc-core/internal/session"
	"github.com/liveosc/liveosc-core/internal/session/sim"
)

func TestColorHex(t *testing.T) {
	tests := []struct {
		color int
		want  string
	}{
		{0xFF8000, "#ff8000"},
		{0x000000, "#000000"},
		{0xFFFFFF, "#ffffff"},
		{0x0000FF, "#0000ff"},
		{0x010203, "#010203"},
	}

	for _, tt := range tests {
		if got := ColorHex(tt.color); got != tt.want {
			t.Errorf("ColorHex(%#x) = %q, want %q", tt.color, got, tt.want)
		}
	}
}

func TestSnapshotBuilder_SessionInfo(t *testing.T) {
	song := sim.NewSong()
	song.AddScene("Intro")
	song.AddScene("Verse")
	song.AddScene("Chorus")

	lead := song.AddMidiTrack("Lead")
	bass := song.AddAudioTrack("Bass")
	lead.SetColor(0xFF8000) //nolint:errcheck
	bass.SetColor(0x0000FF) //nolint:errcheck
	song.SetRootNote(2)        //nolint:errcheck
	song.SetScaleName("Dorian") //nolint:errcheck

	payload, err := NewSnapshotBuilder(song).SessionInfo()
	if err != nil {
		t.Fatalf("SessionInfo() error = %v", err)
	}

	var info SessionInfo
	if err := json.Unmarshal([]byte(payload), &info); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}

	if len(info.TrackNames) != 2 || info.TrackNames[0] != "Lead" || info.TrackNames[1] != "Bass" {
		t.Errorf("track_names = %v, want [Lead Bass]", info.TrackNames)
	}
	if len(info.TrackColors) != 2 || info.TrackColors[0] != "#ff8000" || info.TrackColors[1] != "#0000ff" {
		t.Errorf("track_colors = %v, want [#ff8000 #0000ff]", info.TrackColors)
	}
	if len(info.MidiTracks) != 2 || !info.MidiTracks[0] || info.MidiTracks[1] {
		t.Errorf("midi_tracks = %v, want [true false]", info.MidiTracks)
	}
	if info.NumScenes != 3 {
		t.Errorf("num_scenes = %d, want 3", info.NumScenes)
	}
	if info.RootNote != 2 {
		t.Errorf("root_note = %d, want 2", info.RootNote)
	}
	if info.ScaleName != "Dorian" {
		t.Errorf("scale_name = %q, want Dorian", info.ScaleName)
	}
}

func TestSnapshotBuilder_ClipGrid(t *testing.T) {
	song := sim.NewSong()
	song.AddScene("1")
	song.AddScene("2")
	lead := song.AddMidiTrack("Lead")
	bass := song.AddAudioTrack("Bass")

	clip := lead.AddClip(0, "Riff", 4)
	clip.SetColor(0xFF8000) //nolint:errcheck
	bass.AddClip(1, "", 8)  // occupied but unnamed

	payload, err := NewSnapshotBuilder(song).ClipGrid()
	if err != nil {
		t.Fatalf("ClipGrid() error = %v", err)
	}

	var grid ClipGrid
	if err := json.Unmarshal([]byte(payload), &grid); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}

	if len(grid.Clips) != 2 {
		t.Fatalf("clips = %v, want exactly 2 occupied cells", grid.Clips)
	}
	if grid.Clips["0,0"] != "Riff" {
		t.Errorf(`clips["0,0"] = %q, want Riff`, grid.Clips["0,0"])
	}
	if grid.Clips["1,1"] != "(unnamed)" {
		t.Errorf(`clips["1,1"] = %q, want the unnamed placeholder`, grid.Clips["1,1"])
	}
	if _, ok := grid.Clips["0,1"]; ok {
		t.Error(`clips["0,1"] should be absent for an empty slot`)
	}
	if grid.ClipColors["0,0"] != "#ff8000" {
		t.Errorf(`clip_colors["0,0"] = %q, want #ff8000`, grid.ClipColors["0,0"])
	}
}

// ─── Scene-count clamping ──────────────────────────────────────────
//
// A host graph can momentarily hold more slots than scenes. The embedded
// interfaces panic if anything beyond the overridden methods is touched.

type gridSong struct {
	session.Song
	tracks []session.Track
	scenes []session.Scene
}

func (s *gridSong) Tracks() ([]session.Track, error) { return s.tracks, nil }
func (s *gridSong) Scenes() ([]session.Scene, error) { return s.scenes, nil }

type gridTrack struct {
	session.Track
	slots []session.ClipSlot
}

func (t *gridTrack) ClipSlots() ([]session.ClipSlot, error) { return t.slots, nil }

type gridSlot struct {
	session.ClipSlot
	clip session.Clip
}

func (s *gridSlot) Clip() (session.Clip, error) { return s.clip, nil }

type gridClip struct {
	session.Clip
	name  string
	color int
}

func (c *gridClip) Name() (string, error) { return c.name, nil }
func (c *gridClip) Color() (int, error)   { return c.color, nil }

func TestSnapshotBuilder_ClipGridClampsToSceneCount(t *testing.T) {
	// Two slots, one scene: the clip in slot 1 sits beyond the last scene
	// and must not be reported.
	track := &gridTrack{slots: []session.ClipSlot{
		&gridSlot{clip: &gridClip{name: "Visible", color: 0x00FF00}},
		&gridSlot{clip: &gridClip{name: "Hidden", color: 0xFF0000}},
	}}
	song := &gridSong{
		tracks: []session.Track{track},
		scenes: make([]session.Scene, 1),
	}

	payload, err := NewSnapshotBuilder(song).ClipGrid()
	if err != nil {
		t.Fatalf("ClipGrid() error = %v", err)
	}

	var grid ClipGrid
	if err := json.Unmarshal([]byte(payload), &grid); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}

	if grid.Clips["0,0"] != "Visible" {
		t.Errorf(`clips["0,0"] = %q, want Visible`, grid.Clips["0,0"])
	}
	if _, ok := grid.Clips["0,1"]; ok {
		t.Error("a clip beyond the last scene should be omitted")
	}
}
