package sim

import (
	"errors"
	"testing"

	"github.com/liveosc/liveosc-core/internal/session"
)

func TestSong_Defaults(t *testing.T) {
	s := NewSong()

	tempo, err := s.Tempo()
	if err != nil {
		t.Fatalf("Tempo() error = %v", err)
	}
	if tempo != 120.0 {
		t.Errorf("Tempo() = %v, want 120", tempo)
	}

	num, _ := s.SignatureNumerator()
	den, _ := s.SignatureDenominator()
	if num != 4 || den != 4 {
		t.Errorf("signature = %d/%d, want 4/4", num, den)
	}

	playing, _ := s.IsPlaying()
	if playing {
		t.Error("a fresh song should not be playing")
	}
}

func TestSong_TransportFiresListeners(t *testing.T) {
	s := NewSong()

	var fired int
	handle, err := s.AddListener("is_playing", func() { fired++ })
	if err != nil {
		t.Fatalf("AddListener() error = %v", err)
	}

	s.StartPlaying() //nolint:errcheck
	s.StopPlaying()  //nolint:errcheck
	if fired != 2 {
		t.Errorf("is_playing fired %d times, want 2", fired)
	}

	if err := handle.Remove(); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	s.StartPlaying() //nolint:errcheck
	if fired != 2 {
		t.Errorf("listener fired after Remove(), count = %d", fired)
	}

	// Removing twice reports the dead handle.
	if err := handle.Remove(); err == nil {
		t.Error("second Remove() should fail")
	}
}

func TestSong_StartPlayingRewindsToLoopStart(t *testing.T) {
	s := NewSong()
	s.SetLoopStart(8)         //nolint:errcheck
	s.SetCurrentSongTime(20) //nolint:errcheck

	s.StartPlaying() //nolint:errcheck
	pos, _ := s.CurrentSongTime()
	if pos != 8.0 {
		t.Errorf("playhead after StartPlaying = %v, want loop start 8", pos)
	}

	// ContinuePlaying resumes without rewinding.
	s.StopPlaying()          //nolint:errcheck
	s.SetCurrentSongTime(12) //nolint:errcheck
	s.ContinuePlaying()      //nolint:errcheck
	pos, _ = s.CurrentSongTime()
	if pos != 12.0 {
		t.Errorf("playhead after ContinuePlaying = %v, want 12", pos)
	}
}

func TestSong_UndoRedoFlags(t *testing.T) {
	s := NewSong()

	can, _ := s.CanUndo()
	if can {
		t.Error("fresh song should have nothing to undo")
	}

	s.CreateScene(-1) //nolint:errcheck
	can, _ = s.CanUndo()
	if !can {
		t.Error("an edit should make undo available")
	}

	s.Undo() //nolint:errcheck
	canUndo, _ := s.CanUndo()
	canRedo, _ := s.CanRedo()
	if canUndo || !canRedo {
		t.Errorf("after Undo: can_undo=%v can_redo=%v, want false/true", canUndo, canRedo)
	}
}

func TestSong_StructureEdits(t *testing.T) {
	s := NewSong()

	s.CreateAudioTrack(-1) //nolint:errcheck
	s.CreateMidiTrack(0)   //nolint:errcheck
	tracks, err := s.Tracks()
	if err != nil {
		t.Fatalf("Tracks() error = %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("track count = %d, want 2", len(tracks))
	}
	midi, _ := tracks[0].HasMidiInput()
	if !midi {
		t.Error("index 0 should be the MIDI track inserted there")
	}

	s.CreateScene(-1) //nolint:errcheck
	slots, _ := tracks[0].ClipSlots()
	if len(slots) != 1 {
		t.Errorf("slot count after CreateScene = %d, want 1", len(slots))
	}

	if err := s.DeleteTrack(0); err != nil {
		t.Fatalf("DeleteTrack() error = %v", err)
	}
	if _, err := tracks[0].Name(); !errors.Is(err, session.ErrStale) {
		t.Errorf("deleted track Name() error = %v, want ErrStale", err)
	}

	remaining, _ := s.Tracks()
	if len(remaining) != 1 {
		t.Errorf("track count after delete = %d, want 1", len(remaining))
	}
}

func TestSong_DuplicateTrack(t *testing.T) {
	s := NewSong()
	s.AddScene("1")
	lead := s.AddMidiTrack("Lead")
	lead.AddClip(0, "Riff", 4)

	if err := s.DuplicateTrack(0); err != nil {
		t.Fatalf("DuplicateTrack() error = %v", err)
	}

	tracks, _ := s.Tracks()
	if len(tracks) != 2 {
		t.Fatalf("track count = %d, want 2", len(tracks))
	}
	slots, _ := tracks[1].ClipSlots()
	clip, _ := slots[0].Clip()
	if clip == nil {
		t.Fatal("duplicate should carry the clip")
	}
	name, _ := clip.Name()
	if name != "Riff" {
		t.Errorf("duplicated clip name = %q, want Riff", name)
	}
}

func TestSong_DeleteSceneRemovesSlots(t *testing.T) {
	s := NewSong()
	s.AddScene("1")
	s.AddScene("2")
	track := s.AddAudioTrack("Audio")
	doomed := track.AddClip(1, "Doomed", 4)

	if err := s.DeleteScene(1); err != nil {
		t.Fatalf("DeleteScene() error = %v", err)
	}

	scenes, _ := s.Scenes()
	if len(scenes) != 1 {
		t.Errorf("scene count = %d, want 1", len(scenes))
	}
	slots, _ := track.ClipSlots()
	if len(slots) != 1 {
		t.Errorf("slot count = %d, want 1", len(slots))
	}
	if _, err := doomed.Name(); !errors.Is(err, session.ErrStale) {
		t.Errorf("clip in deleted scene Name() error = %v, want ErrStale", err)
	}
}

func TestSong_CueNavigation(t *testing.T) {
	s := NewSong()
	s.AddCuePoint("Verse", 8)
	s.AddCuePoint("Chorus", 24)

	s.SetCurrentSongTime(10) //nolint:errcheck
	if err := s.JumpToNextCue(); err != nil {
		t.Fatalf("JumpToNextCue() error = %v", err)
	}
	pos, _ := s.CurrentSongTime()
	if pos != 24.0 {
		t.Errorf("playhead after next cue = %v, want 24", pos)
	}

	if err := s.JumpToPrevCue(); err != nil {
		t.Fatalf("JumpToPrevCue() error = %v", err)
	}
	pos, _ = s.CurrentSongTime()
	if pos != 8.0 {
		t.Errorf("playhead after prev cue = %v, want 8", pos)
	}

	// No cue beyond the playhead: position is unchanged.
	s.SetCurrentSongTime(100) //nolint:errcheck
	if err := s.JumpToNextCue(); err != nil {
		t.Fatalf("JumpToNextCue() at end error = %v", err)
	}
	pos, _ = s.CurrentSongTime()
	if pos != 100.0 {
		t.Errorf("playhead = %v, want unchanged 100", pos)
	}
}

func TestSong_JumpByClampsAtZero(t *testing.T) {
	s := NewSong()
	s.SetCurrentSongTime(2) //nolint:errcheck

	s.JumpBy(-10) //nolint:errcheck
	pos, _ := s.CurrentSongTime()
	if pos != 0.0 {
		t.Errorf("playhead after backward jump = %v, want clamped 0", pos)
	}
}
