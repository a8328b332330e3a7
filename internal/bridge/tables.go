package bridge

import (
	"github.com/liveosc/liveosc-core/internal/session"
)

// Static descriptor tables, one per entity class. Built once at startup;
// adding a property or operation to the protocol surface is one registration
// line against the host interface.

// NewSongTable builds the descriptor table for the song class.
func NewSongTable() *Table {
	t := NewTable("song")

	// Read/write properties.
	t.Register(Float("tempo", session.Song.Tempo, session.Song.SetTempo))
	t.Register(Bool("metronome", session.Song.Metronome, session.Song.SetMetronome))
	t.Register(Bool("loop", session.Song.Loop, session.Song.SetLoop))
	t.Register(Float("loop_start", session.Song.LoopStart, session.Song.SetLoopStart))
	t.Register(Float("loop_length", session.Song.LoopLength, session.Song.SetLoopLength))
	t.Register(Float("current_song_time", session.Song.CurrentSongTime, session.Song.SetCurrentSongTime))
	t.Register(Int("root_note", session.Song.RootNote, session.Song.SetRootNote))
	t.Register(String("scale_name", session.Song.ScaleName, session.Song.SetScaleName))
	t.Register(Int("signature_numerator", session.Song.SignatureNumerator, session.Song.SetSignatureNumerator))
	t.Register(Int("signature_denominator", session.Song.SignatureDenominator, session.Song.SetSignatureDenominator))
	t.Register(Bool("record_mode", session.Song.RecordMode, session.Song.SetRecordMode))
	t.Register(Bool("session_record", session.Song.SessionRecord, session.Song.SetSessionRecord))
	t.Register(Int("clip_trigger_quantization", session.Song.ClipTriggerQuantization, session.Song.SetClipTriggerQuantization))
	t.Register(Float("groove_amount", session.Song.GrooveAmount, session.Song.SetGrooveAmount))
	t.Register(Bool("arrangement_overdub", session.Song.ArrangementOverdub, session.Song.SetArrangementOverdub))
	t.Register(Bool("back_to_arranger", session.Song.BackToArranger, session.Song.SetBackToArranger))
	t.Register(Bool("punch_in", session.Song.PunchIn, session.Song.SetPunchIn))
	t.Register(Bool("punch_out", session.Song.PunchOut, session.Song.SetPunchOut))
	t.Register(Bool("nudge_up", session.Song.NudgeUp, session.Song.SetNudgeUp))
	t.Register(Bool("nudge_down", session.Song.NudgeDown, session.Song.SetNudgeDown))
	t.Register(Int("midi_recording_quantization", session.Song.MidiRecordingQuantization, session.Song.SetMidiRecordingQuantization))

	// Read-only properties.
	t.Register(BoolRO("is_playing", session.Song.IsPlaying))
	t.Register(BoolRO("can_undo", session.Song.CanUndo))
	t.Register(BoolRO("can_redo", session.Song.CanRedo))
	t.Register(FloatRO("song_length", session.Song.SongLength))
	t.Register(IntRO("session_record_status", session.Song.SessionRecordStatus))

	// Operations.
	t.RegisterMethod(Method0("start_playing", session.Song.StartPlaying))
	t.RegisterMethod(Method0("stop_playing", session.Song.StopPlaying))
	t.RegisterMethod(Method0("continue_playing", session.Song.ContinuePlaying))
	t.RegisterMethod(Method0("stop_all_clips", session.Song.StopAllClips))
	t.RegisterMethod(Method0("tap_tempo", session.Song.TapTempo))
	t.RegisterMethod(Method0("undo", session.Song.Undo))
	t.RegisterMethod(Method0("redo", session.Song.Redo))
	t.RegisterMethod(Method0("jump_to_next_cue", session.Song.JumpToNextCue))
	t.RegisterMethod(Method0("jump_to_prev_cue", session.Song.JumpToPrevCue))
	t.RegisterMethod(Method0("re_enable_automation", session.Song.ReEnableAutomation))
	t.RegisterMethod(Method0("trigger_session_record", session.Song.TriggerSessionRecord))
	t.RegisterMethod(Method0("set_or_delete_cue", session.Song.SetOrDeleteCue))
	t.RegisterMethod(Method0("create_return_track", session.Song.CreateReturnTrack))
	t.RegisterMethod(MethodFloat("jump_by", session.Song.JumpBy))
	t.RegisterMethod(MethodInt("create_audio_track", session.Song.CreateAudioTrack))
	t.RegisterMethod(MethodInt("create_midi_track", session.Song.CreateMidiTrack))
	t.RegisterMethod(MethodInt("create_scene", session.Song.CreateScene))
	t.RegisterMethod(MethodInt("delete_scene", session.Song.DeleteScene))
	t.RegisterMethod(MethodInt("delete_track", session.Song.DeleteTrack))
	t.RegisterMethod(MethodInt("delete_return_track", session.Song.DeleteReturnTrack))
	t.RegisterMethod(MethodInt("duplicate_scene", session.Song.DuplicateScene))
	t.RegisterMethod(MethodInt("duplicate_track", session.Song.DuplicateTrack))

	return t
}

// NewTrackTable builds the descriptor table for the track class.
func NewTrackTable() *Table {
	t := NewTable("track")
	t.Register(String("name", session.Track.Name, session.Track.SetName))
	t.Register(Int("color", session.Track.Color, session.Track.SetColor))
	t.Register(BoolRO("has_midi_input", session.Track.HasMidiInput))
	t.Register(Bool("mute", session.Track.Mute, session.Track.SetMute))
	t.Register(Bool("solo", session.Track.Solo, session.Track.SetSolo))
	t.Register(Bool("arm", session.Track.Arm, session.Track.SetArm))
	t.Register(BoolRO("is_foldable", session.Track.IsFoldable))
	t.Register(RefRO("group_track", session.Track.GroupTrack))
	return t
}

// NewClipTable builds the descriptor table for the clip class.
func NewClipTable() *Table {
	t := NewTable("clip")
	t.Register(String("name", session.Clip.Name, session.Clip.SetName))
	t.Register(Int("color", session.Clip.Color, session.Clip.SetColor))
	t.Register(FloatRO("length", session.Clip.Length))
	t.Register(BoolRO("is_playing", session.Clip.IsPlaying))
	t.Register(Bool("looping", session.Clip.Looping, session.Clip.SetLooping))
	return t
}

// NewClipSlotTable builds the descriptor table for the clip_slot class.
func NewClipSlotTable() *Table {
	t := NewTable("clip_slot")
	t.Register(BoolRO("has_clip", session.ClipSlot.HasClip))
	t.Register(BoolRO("has_stop_button", session.ClipSlot.HasStopButton))
	return t
}

// NewDeviceTable builds the descriptor table for the device class.
func NewDeviceTable() *Table {
	t := NewTable("device")
	t.Register(StringRO("name", session.Device.Name))
	t.Register(StringRO("class_name", session.Device.ClassName))
	t.Register(IntRO("type", session.Device.Type))
	return t
}
