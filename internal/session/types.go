package session

// Handle is a host-side listener subscription. Remove deregisters the
// callback; removing an already-removed or stale handle returns an error
// that callers are expected to ignore.
type Handle interface {
	Remove() error
}

// Observable is implemented by every entity that can notify property changes.
type Observable interface {
	// AddListener registers fn to be invoked whenever the named property
	// changes. The callback carries no payload; observers re-read the
	// property. Returns ErrStale if the entity no longer exists.
	AddListener(prop string, fn func()) (Handle, error)
}

// Song is the root of the session graph.
//
// Accessors mirror the host's transport, arrangement and scale state.
// Mutating operations apply directly to host-owned state; there is no
// transaction layer above them.
type Song interface {
	Observable

	// Transport and edit operations.
	StartPlaying() error
	StopPlaying() error
	ContinuePlaying() error
	StopAllClips() error
	TapTempo() error
	Undo() error
	Redo() error
	JumpBy(beats float64) error
	JumpToNextCue() error
	JumpToPrevCue() error
	ReEnableAutomation() error
	TriggerSessionRecord() error
	SetOrDeleteCue() error

	// Structure edits. index -1 means "at the end".
	CreateAudioTrack(index int) error
	CreateMidiTrack(index int) error
	CreateReturnTrack() error
	CreateScene(index int) error
	DeleteTrack(index int) error
	DeleteScene(index int) error
	DeleteReturnTrack(index int) error
	DuplicateTrack(index int) error
	DuplicateScene(index int) error

	// Read/write properties.
	Tempo() (float64, error)
	SetTempo(v float64) error
	Metronome() (bool, error)
	SetMetronome(v bool) error
	Loop() (bool, error)
	SetLoop(v bool) error
	LoopStart() (float64, error)
	SetLoopStart(v float64) error
	LoopLength() (float64, error)
	SetLoopLength(v float64) error
	CurrentSongTime() (float64, error)
	SetCurrentSongTime(v float64) error
	RootNote() (int, error)
	SetRootNote(v int) error
	ScaleName() (string, error)
	SetScaleName(v string) error
	SignatureNumerator() (int, error)
	SetSignatureNumerator(v int) error
	SignatureDenominator() (int, error)
	SetSignatureDenominator(v int) error
	RecordMode() (bool, error)
	SetRecordMode(v bool) error
	SessionRecord() (bool, error)
	SetSessionRecord(v bool) error
	ClipTriggerQuantization() (int, error)
	SetClipTriggerQuantization(v int) error
	GrooveAmount() (float64, error)
	SetGrooveAmount(v float64) error
	ArrangementOverdub() (bool, error)
	SetArrangementOverdub(v bool) error
	BackToArranger() (bool, error)
	SetBackToArranger(v bool) error
	PunchIn() (bool, error)
	SetPunchIn(v bool) error
	PunchOut() (bool, error)
	SetPunchOut(v bool) error
	NudgeUp() (bool, error)
	SetNudgeUp(v bool) error
	NudgeDown() (bool, error)
	SetNudgeDown(v bool) error
	MidiRecordingQuantization() (int, error)
	SetMidiRecordingQuantization(v int) error

	// Read-only properties.
	IsPlaying() (bool, error)
	CanUndo() (bool, error)
	CanRedo() (bool, error)
	SongLength() (float64, error)
	SessionRecordStatus() (int, error)

	// Collections. Slices are snapshots of the current graph; entities
	// inside them remain live handles.
	Tracks() ([]Track, error)
	Scenes() ([]Scene, error)
	CuePoints() ([]CuePoint, error)
}

// Track is one mixer channel holding clip slots and a device chain.
type Track interface {
	Observable

	Name() (string, error)
	SetName(v string) error
	Color() (int, error)
	SetColor(v int) error
	HasMidiInput() (bool, error)
	Mute() (bool, error)
	SetMute(v bool) error
	Solo() (bool, error)
	SetSolo(v bool) error
	Arm() (bool, error)
	SetArm(v bool) error
	IsFoldable() (bool, error)

	// GroupTrack returns the enclosing group track, or nil when the track
	// is not grouped.
	GroupTrack() (Track, error)

	ClipSlots() ([]ClipSlot, error)
	Devices() ([]Device, error)
}

// Scene is one horizontal row of the session grid.
type Scene interface {
	Observable

	Name() (string, error)
	SetName(v string) error
	Color() (int, error)
}

// ClipSlot is a fixed position in a track's session grid column. Slots exist
// whether or not they hold a clip.
type ClipSlot interface {
	Observable

	HasClip() (bool, error)
	HasStopButton() (bool, error)

	// Clip returns the contained clip, or nil when the slot is empty.
	Clip() (Clip, error)
}

// Clip is a playable piece of material inside a clip slot.
type Clip interface {
	Observable

	Name() (string, error)
	SetName(v string) error
	Color() (int, error)
	SetColor(v int) error
	Length() (float64, error)
	IsPlaying() (bool, error)
	Looping() (bool, error)
	SetLooping(v bool) error
}

// Device is one element of a track's device chain.
type Device interface {
	Observable

	Name() (string, error)
	ClassName() (string, error)
	Type() (int, error)
	Parameters() ([]Parameter, error)
}

// Parameter is an automatable device parameter.
type Parameter interface {
	Observable

	Name() (string, error)
	Value() (float64, error)
	SetValue(v float64) error
	Min() (float64, error)
	Max() (float64, error)
	IsQuantized() (bool, error)
}

// CuePoint is a named position in the arrangement timeline.
type CuePoint interface {
	Observable

	Name() (string, error)
	SetName(v string) error
	Time() (float64, error)
	Jump() error
}
