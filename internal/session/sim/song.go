package sim

import (
	"fmt"
	"sync"

	"github.com/liveosc/liveosc-core/internal/session"
)

// Song is the in-memory root of the simulated session graph.
type Song struct {
	mu    sync.Mutex
	ls    *listenerSet
	stale bool

	tempo           float64
	loopStart       float64
	loopLength      float64
	currentSongTime float64
	grooveAmount    float64
	songLength      float64

	rootNote                  int
	signatureNumerator        int
	signatureDenominator      int
	clipTriggerQuantization   int
	midiRecordingQuantization int
	sessionRecordStatus       int

	metronome          bool
	loop               bool
	recordMode         bool
	sessionRecord      bool
	arrangementOverdub bool
	backToArranger     bool
	punchIn            bool
	punchOut           bool
	nudgeUp            bool
	nudgeDown          bool
	isPlaying          bool
	canUndo            bool
	canRedo            bool

	scaleName string

	tracks       []*Track
	returnTracks []*Track
	scenes       []*Scene
	cues         []*CuePoint
	cueSeq       int
}

// NewSong creates an empty simulated song with host-like defaults.
func NewSong() *Song {
	return &Song{
		ls:                   newListenerSet(),
		tempo:                120.0,
		loopLength:           4.0,
		songLength:           16.0,
		signatureNumerator:   4,
		signatureDenominator: 4,
		scaleName:            "Major",
	}
}

// withRead runs fn under the state lock, failing when the song is stale.
func (s *Song) withRead(fn func()) error {
	s.mu.Lock()
	if s.stale {
		s.mu.Unlock()
		return session.ErrStale
	}
	fn()
	s.mu.Unlock()
	return nil
}

// setAndFire runs fn under the state lock and fires prop listeners after
// releasing it, so callbacks can re-read the new value.
func (s *Song) setAndFire(prop string, fn func()) error {
	s.mu.Lock()
	if s.stale {
		s.mu.Unlock()
		return session.ErrStale
	}
	fn()
	s.mu.Unlock()
	s.ls.fire(prop)
	return nil
}

// AddListener implements session.Observable.
func (s *Song) AddListener(prop string, fn func()) (session.Handle, error) {
	s.mu.Lock()
	if s.stale {
		s.mu.Unlock()
		return nil, session.ErrStale
	}
	s.mu.Unlock()
	return s.ls.add(prop, fn), nil
}

// ─── Transport and edit operations ─────────────────────────────────

func (s *Song) StartPlaying() error {
	return s.setAndFire("is_playing", func() {
		s.isPlaying = true
		s.currentSongTime = s.loopStart
	})
}

func (s *Song) StopPlaying() error {
	return s.setAndFire("is_playing", func() { s.isPlaying = false })
}

func (s *Song) ContinuePlaying() error {
	return s.setAndFire("is_playing", func() { s.isPlaying = true })
}

func (s *Song) StopAllClips() error {
	s.mu.Lock()
	if s.stale {
		s.mu.Unlock()
		return session.ErrStale
	}
	tracks := append([]*Track(nil), s.tracks...)
	s.mu.Unlock()

	for _, t := range tracks {
		t.stopClips()
	}
	return nil
}

// TapTempo is accepted but has no effect on the simulated tempo; a real host
// derives tempo from tap intervals.
func (s *Song) TapTempo() error {
	return s.withRead(func() {})
}

func (s *Song) Undo() error {
	err := s.withRead(func() {
		s.canUndo = false
		s.canRedo = true
	})
	if err != nil {
		return err
	}
	s.ls.fire("can_undo")
	s.ls.fire("can_redo")
	return nil
}

func (s *Song) Redo() error {
	err := s.withRead(func() {
		s.canRedo = false
		s.canUndo = true
	})
	if err != nil {
		return err
	}
	s.ls.fire("can_undo")
	s.ls.fire("can_redo")
	return nil
}

func (s *Song) JumpBy(beats float64) error {
	return s.setAndFire("current_song_time", func() {
		s.currentSongTime += beats
		if s.currentSongTime < 0 {
			s.currentSongTime = 0
		}
	})
}

func (s *Song) JumpToNextCue() error {
	var target *CuePoint
	err := s.withRead(func() {
		for _, cue := range s.cues {
			if cue.time > s.currentSongTime && (target == nil || cue.time < target.time) {
				target = cue
			}
		}
	})
	if err != nil || target == nil {
		return err
	}
	return target.Jump()
}

func (s *Song) JumpToPrevCue() error {
	var target *CuePoint
	err := s.withRead(func() {
		for _, cue := range s.cues {
			if cue.time < s.currentSongTime && (target == nil || cue.time > target.time) {
				target = cue
			}
		}
	})
	if err != nil || target == nil {
		return err
	}
	return target.Jump()
}

// ReEnableAutomation is a host-side edit with no observable sim state.
func (s *Song) ReEnableAutomation() error {
	return s.withRead(func() { s.canUndo = true })
}

func (s *Song) TriggerSessionRecord() error {
	return s.setAndFire("session_record", func() { s.sessionRecord = !s.sessionRecord })
}

// SetOrDeleteCue toggles a cue point at the current song time, matching the
// host behavior of the same-named operation.
func (s *Song) SetOrDeleteCue() error {
	var removed *CuePoint
	err := s.withRead(func() {
		for i, cue := range s.cues {
			if cue.time == s.currentSongTime {
				removed = cue
				s.cues = append(s.cues[:i], s.cues[i+1:]...)
				break
			}
		}
		if removed == nil {
			s.cueSeq++
			s.cues = append(s.cues, &CuePoint{
				song: s,
				ls:   newListenerSet(),
				name: fmt.Sprintf("Cue %d", s.cueSeq),
				time: s.currentSongTime,
			})
		}
		s.canUndo = true
	})
	if err != nil {
		return err
	}
	if removed != nil {
		removed.markStale()
	}
	return nil
}

// ─── Structure edits ───────────────────────────────────────────────

func (s *Song) CreateAudioTrack(index int) error {
	return s.insertTrack(index, "Audio", false)
}

func (s *Song) CreateMidiTrack(index int) error {
	return s.insertTrack(index, "MIDI", true)
}

func (s *Song) insertTrack(index int, name string, midi bool) error {
	return s.withRead(func() {
		t := s.newTrackLocked(name, midi)
		if index < 0 || index >= len(s.tracks) {
			s.tracks = append(s.tracks, t)
		} else {
			s.tracks = append(s.tracks[:index], append([]*Track{t}, s.tracks[index:]...)...)
		}
		s.canUndo = true
	})
}

func (s *Song) CreateReturnTrack() error {
	return s.withRead(func() {
		t := s.newTrackLocked(fmt.Sprintf("Return %d", len(s.returnTracks)+1), false)
		s.returnTracks = append(s.returnTracks, t)
		s.canUndo = true
	})
}

func (s *Song) CreateScene(index int) error {
	return s.withRead(func() {
		scene := &Scene{ls: newListenerSet(), name: ""}
		if index < 0 || index >= len(s.scenes) {
			index = len(s.scenes)
			s.scenes = append(s.scenes, scene)
		} else {
			s.scenes = append(s.scenes[:index], append([]*Scene{scene}, s.scenes[index:]...)...)
		}
		for _, t := range s.tracks {
			t.insertSlot(index)
		}
		s.canUndo = true
	})
}

func (s *Song) DeleteTrack(index int) error {
	var victim *Track
	err := s.withRead(func() {
		if index < 0 || index >= len(s.tracks) {
			return
		}
		victim = s.tracks[index]
		s.tracks = append(s.tracks[:index], s.tracks[index+1:]...)
		s.canUndo = true
	})
	if err != nil {
		return err
	}
	if victim == nil {
		return session.ErrIndexOutOfRange
	}
	victim.markStale()
	return nil
}

func (s *Song) DeleteReturnTrack(index int) error {
	var victim *Track
	err := s.withRead(func() {
		if index < 0 || index >= len(s.returnTracks) {
			return
		}
		victim = s.returnTracks[index]
		s.returnTracks = append(s.returnTracks[:index], s.returnTracks[index+1:]...)
		s.canUndo = true
	})
	if err != nil {
		return err
	}
	if victim == nil {
		return session.ErrIndexOutOfRange
	}
	victim.markStale()
	return nil
}

func (s *Song) DeleteScene(index int) error {
	var victimScene *Scene
	var victimSlots []*ClipSlot
	err := s.withRead(func() {
		if index < 0 || index >= len(s.scenes) {
			return
		}
		victimScene = s.scenes[index]
		s.scenes = append(s.scenes[:index], s.scenes[index+1:]...)
		for _, t := range s.tracks {
			if slot := t.removeSlot(index); slot != nil {
				victimSlots = append(victimSlots, slot)
			}
		}
		s.canUndo = true
	})
	if err != nil {
		return err
	}
	if victimScene == nil {
		return session.ErrIndexOutOfRange
	}
	victimScene.markStale()
	for _, slot := range victimSlots {
		slot.markStale()
	}
	return nil
}

func (s *Song) DuplicateTrack(index int) error {
	return s.withRead(func() {
		if index < 0 || index >= len(s.tracks) {
			return
		}
		src := s.tracks[index]
		dup := s.newTrackLocked(src.name, src.hasMidiInput)
		dup.color = src.color

		src.mu.Lock()
		for i, slot := range src.slots {
			if i >= len(dup.slots) {
				break
			}
			slot.mu.Lock()
			if clip := slot.clip; clip != nil {
				dup.slots[i].clip = &Clip{
					slot:    dup.slots[i],
					ls:      newListenerSet(),
					name:    clip.name,
					color:   clip.color,
					length:  clip.length,
					looping: clip.looping,
				}
			}
			slot.mu.Unlock()
		}
		for _, d := range src.devices {
			dup.devices = append(dup.devices, &Device{
				ls:        newListenerSet(),
				name:      d.name,
				className: d.className,
				typ:       d.typ,
			})
		}
		src.mu.Unlock()

		s.tracks = append(s.tracks[:index+1], append([]*Track{dup}, s.tracks[index+1:]...)...)
		s.canUndo = true
	})
}

func (s *Song) DuplicateScene(index int) error {
	return s.withRead(func() {
		if index < 0 || index >= len(s.scenes) {
			return
		}
		src := s.scenes[index]
		dup := &Scene{ls: newListenerSet(), name: src.name, color: src.color}
		s.scenes = append(s.scenes[:index+1], append([]*Scene{dup}, s.scenes[index+1:]...)...)
		for _, t := range s.tracks {
			t.insertSlot(index + 1)
		}
		s.canUndo = true
	})
}

// newTrackLocked builds a track with one empty slot per current scene.
// Caller holds s.mu.
func (s *Song) newTrackLocked(name string, midi bool) *Track {
	t := &Track{
		song:         s,
		ls:           newListenerSet(),
		name:         name,
		hasMidiInput: midi,
	}
	for range s.scenes {
		t.slots = append(t.slots, newClipSlot(t))
	}
	return t
}

// ─── Read/write properties ─────────────────────────────────────────

func (s *Song) Tempo() (float64, error) {
	var v float64
	err := s.withRead(func() { v = s.tempo })
	return v, err
}

func (s *Song) SetTempo(v float64) error {
	return s.setAndFire("tempo", func() { s.tempo = v })
}

func (s *Song) Metronome() (bool, error) {
	var v bool
	err := s.withRead(func() { v = s.metronome })
	return v, err
}

func (s *Song) SetMetronome(v bool) error {
	return s.setAndFire("metronome", func() { s.metronome = v })
}

func (s *Song) Loop() (bool, error) {
	var v bool
	err := s.withRead(func() { v = s.loop })
	return v, err
}

func (s *Song) SetLoop(v bool) error {
	return s.setAndFire("loop", func() { s.loop = v })
}

func (s *Song) LoopStart() (float64, error) {
	var v float64
	err := s.withRead(func() { v = s.loopStart })
	return v, err
}

func (s *Song) SetLoopStart(v float64) error {
	return s.setAndFire("loop_start", func() { s.loopStart = v })
}

func (s *Song) LoopLength() (float64, error) {
	var v float64
	err := s.withRead(func() { v = s.loopLength })
	return v, err
}

func (s *Song) SetLoopLength(v float64) error {
	return s.setAndFire("loop_length", func() { s.loopLength = v })
}

func (s *Song) CurrentSongTime() (float64, error) {
	var v float64
	err := s.withRead(func() { v = s.currentSongTime })
	return v, err
}

func (s *Song) SetCurrentSongTime(v float64) error {
	return s.setAndFire("current_song_time", func() { s.currentSongTime = v })
}

func (s *Song) RootNote() (int, error) {
	var v int
	err := s.withRead(func() { v = s.rootNote })
	return v, err
}

func (s *Song) SetRootNote(v int) error {
	return s.setAndFire("root_note", func() { s.rootNote = v })
}

func (s *Song) ScaleName() (string, error) {
	var v string
	err := s.withRead(func() { v = s.scaleName })
	return v, err
}

func (s *Song) SetScaleName(v string) error {
	return s.setAndFire("scale_name", func() { s.scaleName = v })
}

func (s *Song) SignatureNumerator() (int, error) {
	var v int
	err := s.withRead(func() { v = s.signatureNumerator })
	return v, err
}

func (s *Song) SetSignatureNumerator(v int) error {
	return s.setAndFire("signature_numerator", func() { s.signatureNumerator = v })
}

func (s *Song) SignatureDenominator() (int, error) {
	var v int
	err := s.withRead(func() { v = s.signatureDenominator })
	return v, err
}

func (s *Song) SetSignatureDenominator(v int) error {
	return s.setAndFire("signature_denominator", func() { s.signatureDenominator = v })
}

func (s *Song) RecordMode() (bool, error) {
	var v bool
	err := s.withRead(func() { v = s.recordMode })
	return v, err
}

func (s *Song) SetRecordMode(v bool) error {
	return s.setAndFire("record_mode", func() { s.recordMode = v })
}

func (s *Song) SessionRecord() (bool, error) {
	var v bool
	err := s.withRead(func() { v = s.sessionRecord })
	return v, err
}

func (s *Song) SetSessionRecord(v bool) error {
	return s.setAndFire("session_record", func() { s.sessionRecord = v })
}

func (s *Song) ClipTriggerQuantization() (int, error) {
	var v int
	err := s.withRead(func() { v = s.clipTriggerQuantization })
	return v, err
}

func (s *Song) SetClipTriggerQuantization(v int) error {
	return s.setAndFire("clip_trigger_quantization", func() { s.clipTriggerQuantization = v })
}

func (s *Song) GrooveAmount() (float64, error) {
	var v float64
	err := s.withRead(func() { v = s.grooveAmount })
	return v, err
}

func (s *Song) SetGrooveAmount(v float64) error {
	return s.setAndFire("groove_amount", func() { s.grooveAmount = v })
}

func (s *Song) ArrangementOverdub() (bool, error) {
	var v bool
	err := s.withRead(func() { v = s.arrangementOverdub })
	return v, err
}

func (s *Song) SetArrangementOverdub(v bool) error {
	return s.setAndFire("arrangement_overdub", func() { s.arrangementOverdub = v })
}

func (s *Song) BackToArranger() (bool, error) {
	var v bool
	err := s.withRead(func() { v = s.backToArranger })
	return v, err
}

func (s *Song) SetBackToArranger(v bool) error {
	return s.setAndFire("back_to_arranger", func() { s.backToArranger = v })
}

func (s *Song) PunchIn() (bool, error) {
	var v bool
	err := s.withRead(func() { v = s.punchIn })
	return v, err
}

func (s *Song) SetPunchIn(v bool) error {
	return s.setAndFire("punch_in", func() { s.punchIn = v })
}

func (s *Song) PunchOut() (bool, error) {
	var v bool
	err := s.withRead(func() { v = s.punchOut })
	return v, err
}

func (s *Song) SetPunchOut(v bool) error {
	return s.setAndFire("punch_out", func() { s.punchOut = v })
}

func (s *Song) NudgeUp() (bool, error) {
	var v bool
	err := s.withRead(func() { v = s.nudgeUp })
	return v, err
}

func (s *Song) SetNudgeUp(v bool) error {
	return s.setAndFire("nudge_up", func() { s.nudgeUp = v })
}

func (s *Song) NudgeDown() (bool, error) {
	var v bool
	err := s.withRead(func() { v = s.nudgeDown })
	return v, err
}

func (s *Song) SetNudgeDown(v bool) error {
	return s.setAndFire("nudge_down", func() { s.nudgeDown = v })
}

func (s *Song) MidiRecordingQuantization() (int, error) {
	var v int
	err := s.withRead(func() { v = s.midiRecordingQuantization })
	return v, err
}

func (s *Song) SetMidiRecordingQuantization(v int) error {
	return s.setAndFire("midi_recording_quantization", func() { s.midiRecordingQuantization = v })
}

// ─── Read-only properties ──────────────────────────────────────────

func (s *Song) IsPlaying() (bool, error) {
	var v bool
	err := s.withRead(func() { v = s.isPlaying })
	return v, err
}

func (s *Song) CanUndo() (bool, error) {
	var v bool
	err := s.withRead(func() { v = s.canUndo })
	return v, err
}

func (s *Song) CanRedo() (bool, error) {
	var v bool
	err := s.withRead(func() { v = s.canRedo })
	return v, err
}

func (s *Song) SongLength() (float64, error) {
	var v float64
	err := s.withRead(func() { v = s.songLength })
	return v, err
}

func (s *Song) SessionRecordStatus() (int, error) {
	var v int
	err := s.withRead(func() { v = s.sessionRecordStatus })
	return v, err
}

// ─── Collections ───────────────────────────────────────────────────

func (s *Song) Tracks() ([]session.Track, error) {
	var out []session.Track
	err := s.withRead(func() {
		out = make([]session.Track, len(s.tracks))
		for i, t := range s.tracks {
			out[i] = t
		}
	})
	return out, err
}

func (s *Song) Scenes() ([]session.Scene, error) {
	var out []session.Scene
	err := s.withRead(func() {
		out = make([]session.Scene, len(s.scenes))
		for i, sc := range s.scenes {
			out[i] = sc
		}
	})
	return out, err
}

func (s *Song) CuePoints() ([]session.CuePoint, error) {
	var out []session.CuePoint
	err := s.withRead(func() {
		out = make([]session.CuePoint, len(s.cues))
		for i, c := range s.cues {
			out[i] = c
		}
	})
	return out, err
}

// ─── Seed helpers (not part of session interfaces) ─────────────────

// AddScene appends a named scene, growing every track by one empty slot.
func (s *Song) AddScene(name string) *Scene {
	scene := &Scene{ls: newListenerSet(), name: name}
	s.mu.Lock()
	s.scenes = append(s.scenes, scene)
	for _, t := range s.tracks {
		t.insertSlot(len(s.scenes) - 1)
	}
	s.mu.Unlock()
	return scene
}

// AddMidiTrack appends a track that accepts note input.
func (s *Song) AddMidiTrack(name string) *Track {
	return s.addTrack(name, true)
}

// AddAudioTrack appends an audio track.
func (s *Song) AddAudioTrack(name string) *Track {
	return s.addTrack(name, false)
}

func (s *Song) addTrack(name string, midi bool) *Track {
	s.mu.Lock()
	t := s.newTrackLocked(name, midi)
	s.tracks = append(s.tracks, t)
	s.mu.Unlock()
	return t
}

// AddCuePoint appends a cue point at the given beat time.
func (s *Song) AddCuePoint(name string, time float64) *CuePoint {
	cue := &CuePoint{song: s, ls: newListenerSet(), name: name, time: time}
	s.mu.Lock()
	s.cues = append(s.cues, cue)
	s.mu.Unlock()
	return cue
}

// SetSongLength seeds the read-only song_length property.
func (s *Song) SetSongLength(v float64) {
	s.mu.Lock()
	s.songLength = v
	s.mu.Unlock()
}
