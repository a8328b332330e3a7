package bridge

import (
	"errors"
	"testing"

	"github.com/liveosc/liveosc-core/internal/session/sim"
)

func TestSongTable_GetDefaults(t *testing.T) {
	song := sim.NewSong()
	table := NewSongTable()

	tests := []struct {
		prop string
		want any
	}{
		{"tempo", 120.0},
		{"metronome", false},
		{"is_playing", false},
		{"scale_name", "Major"},
		{"signature_numerator", 4},
	}

	for _, tt := range tests {
		t.Run(tt.prop, func(t *testing.T) {
			got, err := table.Get(song, tt.prop)
			if err != nil {
				t.Fatalf("Get(%s) error = %v", tt.prop, err)
			}
			if got != tt.want {
				t.Errorf("Get(%s) = %v, want %v", tt.prop, got, tt.want)
			}
		})
	}
}

func TestSongTable_SetCoercion(t *testing.T) {
	// Wire transports deliver int32 and float32; the table widens them to
	// the declared property kind before calling the setter.
	tests := []struct {
		name  string
		prop  string
		value any
		want  any
	}{
		{"int32 to float", "tempo", int32(140), 140.0},
		{"float32 to float", "tempo", float32(98.0), 98.0},
		{"int to bool", "metronome", 1, true},
		{"zero int to bool", "metronome", 0, false},
		{"float to int", "root_note", 7.0, 7},
		{"string passthrough", "scale_name", "Dorian", "Dorian"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			song := sim.NewSong()
			table := NewSongTable()

			if err := table.Set(song, tt.prop, tt.value); err != nil {
				t.Fatalf("Set(%s, %v) error = %v", tt.prop, tt.value, err)
			}
			got, err := table.Get(song, tt.prop)
			if err != nil {
				t.Fatalf("Get(%s) error = %v", tt.prop, err)
			}
			if got != tt.want {
				t.Errorf("after Set(%s, %v): Get = %v, want %v", tt.prop, tt.value, got, tt.want)
			}
		})
	}
}

func TestSongTable_SetRejectsUncoercible(t *testing.T) {
	song := sim.NewSong()
	table := NewSongTable()

	tests := []struct {
		prop  string
		value any
	}{
		{"tempo", "fast"},
		{"scale_name", 3},
		{"metronome", "yes"},
	}

	for _, tt := range tests {
		err := table.Set(song, tt.prop, tt.value)
		if !errors.Is(err, ErrBadArguments) {
			t.Errorf("Set(%s, %v) error = %v, want ErrBadArguments", tt.prop, tt.value, err)
		}
	}
}

func TestSongTable_SetReadOnly(t *testing.T) {
	song := sim.NewSong()
	table := NewSongTable()

	for _, prop := range []string{"is_playing", "can_undo", "song_length"} {
		err := table.Set(song, prop, true)
		if !errors.Is(err, ErrReadOnlyProperty) {
			t.Errorf("Set(%s) error = %v, want ErrReadOnlyProperty", prop, err)
		}
	}
}

func TestSongTable_UnknownNames(t *testing.T) {
	song := sim.NewSong()
	table := NewSongTable()

	if _, err := table.Get(song, "reverb_amount"); !errors.Is(err, ErrUnknownProperty) {
		t.Errorf("Get(unknown) error = %v, want ErrUnknownProperty", err)
	}
	if err := table.Set(song, "reverb_amount", 1.0); !errors.Is(err, ErrUnknownProperty) {
		t.Errorf("Set(unknown) error = %v, want ErrUnknownProperty", err)
	}
	if _, err := table.Call(song, "explode", nil); !errors.Is(err, ErrUnknownMethod) {
		t.Errorf("Call(unknown) error = %v, want ErrUnknownMethod", err)
	}
}

func TestSongTable_WrongEntityClass(t *testing.T) {
	song := sim.NewSong()
	track := song.AddAudioTrack("Bass")

	table := NewSongTable()
	if _, err := table.Get(track, "tempo"); !errors.Is(err, ErrWrongEntityClass) {
		t.Errorf("Get(track via song table) error = %v, want ErrWrongEntityClass", err)
	}

	trackTable := NewTrackTable()
	if _, err := trackTable.Get(song, "mute"); !errors.Is(err, ErrWrongEntityClass) {
		t.Errorf("Get(song via track table) error = %v, want ErrWrongEntityClass", err)
	}
}

func TestTrackTable_StaleReference(t *testing.T) {
	song := sim.NewSong()
	track := song.AddAudioTrack("Doomed")
	table := NewTrackTable()

	if _, err := table.Get(track, "name"); err != nil {
		t.Fatalf("Get() before delete error = %v", err)
	}

	if err := song.DeleteTrack(0); err != nil {
		t.Fatalf("DeleteTrack() error = %v", err)
	}

	_, err := table.Get(track, "name")
	if !errors.Is(err, ErrStaleReference) {
		t.Errorf("Get() on deleted track error = %v, want ErrStaleReference", err)
	}
	if err := table.Set(track, "name", "Renamed"); !errors.Is(err, ErrStaleReference) {
		t.Errorf("Set() on deleted track error = %v, want ErrStaleReference", err)
	}
}

func TestTrackTable_GroupTrackRef(t *testing.T) {
	song := sim.NewSong()
	group := song.AddAudioTrack("Group")
	member := song.AddAudioTrack("Member")
	member.SetGroup(group)

	table := NewTrackTable()

	v, err := table.Get(member, "group_track")
	if err != nil {
		t.Fatalf("Get(group_track) error = %v", err)
	}
	if v != any(group) {
		t.Errorf("Get(group_track) = %v, want the group track handle", v)
	}

	// Ungrouped tracks yield an untyped nil, not a typed-nil interface.
	v, err = table.Get(group, "group_track")
	if err != nil {
		t.Fatalf("Get(group_track) on ungrouped error = %v", err)
	}
	if v != nil {
		t.Errorf("Get(group_track) on ungrouped = %v (%T), want nil", v, v)
	}
}

func TestSongTable_Methods(t *testing.T) {
	song := sim.NewSong()
	table := NewSongTable()

	if _, err := table.Call(song, "start_playing", nil); err != nil {
		t.Fatalf("Call(start_playing) error = %v", err)
	}
	playing, _ := song.IsPlaying()
	if !playing {
		t.Error("start_playing should set is_playing")
	}

	// Positional methods default to -1 (append) when the argument is absent.
	if _, err := table.Call(song, "create_audio_track", nil); err != nil {
		t.Fatalf("Call(create_audio_track) error = %v", err)
	}
	if _, err := table.Call(song, "create_midi_track", []any{int32(0)}); err != nil {
		t.Fatalf("Call(create_midi_track, 0) error = %v", err)
	}
	tracks, _ := song.Tracks()
	if len(tracks) != 2 {
		t.Fatalf("track count = %d, want 2", len(tracks))
	}
	midi, _ := tracks[0].HasMidiInput()
	if !midi {
		t.Error("track inserted at 0 should be the MIDI track")
	}

	// jump_by requires its argument.
	_, err := table.Call(song, "jump_by", nil)
	if !errors.Is(err, ErrBadArguments) {
		t.Errorf("Call(jump_by) without args error = %v, want ErrBadArguments", err)
	}
	if _, err := table.Call(song, "jump_by", []any{float32(4.0)}); err != nil {
		t.Fatalf("Call(jump_by, 4.0) error = %v", err)
	}
	pos, _ := song.CurrentSongTime()
	if pos != 4.0 {
		t.Errorf("current_song_time after jump_by = %v, want 4.0", pos)
	}
}

func TestTable_WritableAndNames(t *testing.T) {
	table := NewSongTable()

	if !table.Writable("tempo") {
		t.Error("tempo should be writable")
	}
	if table.Writable("is_playing") {
		t.Error("is_playing should not be writable")
	}
	if table.Writable("no_such_prop") {
		t.Error("unknown property should not be writable")
	}

	props := table.PropertyNames()
	for i := 1; i < len(props); i++ {
		if props[i-1] >= props[i] {
			t.Fatalf("PropertyNames() not sorted at %d: %q >= %q", i, props[i-1], props[i])
		}
	}
}
