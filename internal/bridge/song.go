package bridge

import (
	"fmt"

	"github.com/liveosc/liveosc-core/internal/session"
)

// songDomain prefixes every song-level address.
const songDomain = "/live/song"

// SongController wires the song-level protocol surface into a Router: the
// method catalog, the property get/set/listen trio per descriptor, the
// collection endpoints, the bulk query and the snapshot endpoints.
//
// One controller owns one song plus the listener subscriptions created for
// it; Close tears those down.
type SongController struct {
	song      session.Song
	router    *Router
	listeners *ListenerRegistry
	songTable *Table
	query     *QueryEngine
	snapshots *SnapshotBuilder
	logger    Logger
}

// NewSongController builds the descriptor tables and the controller.
// Call RegisterAPI to bind the address surface.
func NewSongController(song session.Song, router *Router, listeners *ListenerRegistry, logger Logger) *SongController {
	if logger == nil {
		logger = noopLogger{}
	}
	trackTable := NewTrackTable()
	return &SongController{
		song:      song,
		router:    router,
		listeners: listeners,
		songTable: NewSongTable(),
		query:     NewQueryEngine(song, trackTable, NewClipTable(), NewClipSlotTable(), NewDeviceTable(), logger),
		snapshots: NewSnapshotBuilder(song),
		logger:    logger,
	}
}

// RegisterAPI binds every song-level address. Adding a property to the song
// table automatically grows the surface by its get/set/listen addresses.
func (c *SongController) RegisterAPI() {
	// Operations: /live/song/<method>
	for _, name := range c.songTable.MethodNames() {
		c.router.Register(songDomain+"/"+name, c.callHandler(name))
	}

	// Properties: get/start_listen/stop_listen for all, set for writable.
	for _, prop := range c.songTable.PropertyNames() {
		c.router.Register(songDomain+"/get/"+prop, c.getHandler(prop))
		c.router.Register(songDomain+"/start_listen/"+prop, c.startListenHandler(prop))
		c.router.Register(songDomain+"/stop_listen/"+prop, c.stopListenHandler(prop))
		if c.songTable.Writable(prop) {
			c.router.Register(songDomain+"/set/"+prop, c.setHandler(prop))
		}
	}

	// Track collection.
	c.router.Register(songDomain+"/get/num_tracks", c.handleNumTracks)
	c.router.Register(songDomain+"/get/track_names", c.handleTrackNames)

	// Scene collection.
	c.router.Register(songDomain+"/get/num_scenes", c.handleNumScenes)
	c.router.Register(songDomain+"/get/scenes/name", c.handleSceneNames)

	// Cue points.
	c.router.Register(songDomain+"/get/cue_points", c.handleCuePoints)
	c.router.Register(songDomain+"/cue_point/jump", c.handleCueJump)
	c.router.Register(songDomain+"/cue_point/set/name", c.handleCueSetName)
	c.router.Register(songDomain+"/cue_point/add_or_delete", c.callHandler("set_or_delete_cue"))

	// Bulk endpoints: one round trip instead of many.
	c.router.Register(songDomain+"/get/session_info", c.handleSessionInfo)
	c.router.Register(songDomain+"/get/clip_grid", c.handleClipGrid)
	c.router.Register(songDomain+"/get/track_data", c.handleTrackData)

	// Beat listener: edge-triggered events derived from the playback time.
	c.router.Register(songDomain+"/start_listen/beat", c.handleStartBeat)
	c.router.Register(songDomain+"/stop_listen/beat", c.handleStopBeat)

	c.logger.Info("song API registered", "addresses", len(c.router.Addresses()))
}

// Close tears down every listener subscription created through this
// controller, isolating per-entry failures.
func (c *SongController) Close() {
	c.listeners.StopAll()
}

// ─── Property and method handlers ──────────────────────────────────

func (c *SongController) getHandler(prop string) HandlerFunc {
	return func(_ []any) ([]any, error) {
		v, err := c.songTable.Get(c.song, prop)
		if err != nil {
			return nil, err
		}
		return []any{v}, nil
	}
}

func (c *SongController) setHandler(prop string) HandlerFunc {
	return func(args []any) ([]any, error) {
		if len(args) == 0 {
			return nil, fmt.Errorf("%w: set %s requires a value", ErrBadArguments, prop)
		}
		return nil, c.songTable.Set(c.song, prop, args[0])
	}
}

func (c *SongController) callHandler(method string) HandlerFunc {
	return func(args []any) ([]any, error) {
		return c.songTable.Call(c.song, method, args)
	}
}

func (c *SongController) startListenHandler(prop string) HandlerFunc {
	address := songDomain + "/get/" + prop
	return func(_ []any) ([]any, error) {
		err := c.listeners.Start(c.song, prop, address, func() ([]any, error) {
			v, err := c.songTable.Get(c.song, prop)
			if err != nil {
				return nil, err
			}
			return []any{v}, nil
		})
		return nil, err
	}
}

func (c *SongController) stopListenHandler(prop string) HandlerFunc {
	return func(_ []any) ([]any, error) {
		c.listeners.Stop(c.song, prop)
		return nil, nil
	}
}

func (c *SongController) handleStartBeat(_ []any) ([]any, error) {
	return nil, c.listeners.StartBeat(c.song, songDomain+"/get/beat")
}

func (c *SongController) handleStopBeat(_ []any) ([]any, error) {
	c.listeners.StopBeat(c.song)
	return nil, nil
}

// ─── Collection handlers ───────────────────────────────────────────

func (c *SongController) handleNumTracks(_ []any) ([]any, error) {
	tracks, err := c.song.Tracks()
	if err != nil {
		return nil, wrapStale(err)
	}
	return []any{len(tracks)}, nil
}

// handleTrackNames returns the names of tracks [min, max). With no
// arguments the full track list is returned; a max of -1 resolves to the
// current track count.
func (c *SongController) handleTrackNames(args []any) ([]any, error) {
	tracks, err := c.song.Tracks()
	if err != nil {
		return nil, wrapStale(err)
	}

	minIndex, maxIndex := 0, len(tracks)
	if len(args) >= 2 {
		if minIndex, err = toInt(args[0]); err != nil {
			return nil, err
		}
		if maxIndex, err = toInt(args[1]); err != nil {
			return nil, err
		}
		if maxIndex == -1 {
			maxIndex = len(tracks)
		}
	}

	var out []any
	for i := minIndex; i < maxIndex; i++ {
		if i < 0 || i >= len(tracks) {
			return nil, fmt.Errorf("%w: track index %d out of range", ErrBadArguments, i)
		}
		name, err := tracks[i].Name()
		if err != nil {
			return nil, wrapStale(err)
		}
		out = append(out, name)
	}
	return out, nil
}

func (c *SongController) handleNumScenes(_ []any) ([]any, error) {
	scenes, err := c.song.Scenes()
	if err != nil {
		return nil, wrapStale(err)
	}
	return []any{len(scenes)}, nil
}

// handleSceneNames returns the names of scenes [min, max), defaulting to the
// full list when called without arguments.
func (c *SongController) handleSceneNames(args []any) ([]any, error) {
	scenes, err := c.song.Scenes()
	if err != nil {
		return nil, wrapStale(err)
	}

	minIndex, maxIndex := 0, len(scenes)
	if len(args) >= 2 {
		if minIndex, err = toInt(args[0]); err != nil {
			return nil, err
		}
		if maxIndex, err = toInt(args[1]); err != nil {
			return nil, err
		}
	}

	var out []any
	for i := minIndex; i < maxIndex; i++ {
		if i < 0 || i >= len(scenes) {
			return nil, fmt.Errorf("%w: scene index %d out of range", ErrBadArguments, i)
		}
		name, err := scenes[i].Name()
		if err != nil {
			return nil, wrapStale(err)
		}
		out = append(out, name)
	}
	return out, nil
}

// ─── Cue point handlers ────────────────────────────────────────────

// handleCuePoints returns all cue points as flattened (name, time) pairs.
func (c *SongController) handleCuePoints(_ []any) ([]any, error) {
	cues, err := c.song.CuePoints()
	if err != nil {
		return nil, wrapStale(err)
	}

	out := make([]any, 0, 2*len(cues))
	for _, cue := range cues {
		name, err := cue.Name()
		if err != nil {
			return nil, wrapStale(err)
		}
		t, err := cue.Time()
		if err != nil {
			return nil, wrapStale(err)
		}
		out = append(out, name, t)
	}
	return out, nil
}

// handleCueJump jumps to a cue point by name or by index. The wire type
// decides: a string argument is a name (every cue with that name jumps, in
// order), an integer argument is an index. A name that happens to look like
// a number is still a name. An out-of-range index is logged and ignored.
func (c *SongController) handleCueJump(args []any) ([]any, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: cue_point/jump requires a name or index", ErrBadArguments)
	}

	cues, err := c.song.CuePoints()
	if err != nil {
		return nil, wrapStale(err)
	}

	if name, ok := args[0].(string); ok {
		for _, cue := range cues {
			cueName, err := cue.Name()
			if err != nil {
				return nil, wrapStale(err)
			}
			if cueName == name {
				if err := cue.Jump(); err != nil {
					return nil, wrapStale(err)
				}
			}
		}
		return nil, nil
	}

	index, err := toInt(args[0])
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(cues) {
		c.logger.Warn("cue_point/jump index out of range, ignored",
			"index", index, "cue_points", len(cues))
		return nil, nil
	}
	return nil, wrapStale(cues[index].Jump())
}

// handleCueSetName renames the cue point at an index.
func (c *SongController) handleCueSetName(args []any) ([]any, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("%w: cue_point/set/name requires index and name", ErrBadArguments)
	}
	index, err := toInt(args[0])
	if err != nil {
		return nil, err
	}
	name, err := toString(args[1])
	if err != nil {
		return nil, err
	}

	cues, err := c.song.CuePoints()
	if err != nil {
		return nil, wrapStale(err)
	}
	if index < 0 || index >= len(cues) {
		return nil, fmt.Errorf("%w: cue point index %d out of range", ErrBadArguments, index)
	}
	return nil, wrapStale(cues[index].SetName(name))
}

// ─── Bulk handlers ─────────────────────────────────────────────────

func (c *SongController) handleSessionInfo(_ []any) ([]any, error) {
	payload, err := c.snapshots.SessionInfo()
	if err != nil {
		return nil, err
	}
	return []any{payload}, nil
}

func (c *SongController) handleClipGrid(_ []any) ([]any, error) {
	payload, err := c.snapshots.ClipGrid()
	if err != nil {
		return nil, err
	}
	return []any{payload}, nil
}

func (c *SongController) handleTrackData(args []any) ([]any, error) {
	return c.query.TrackData(args)
}
