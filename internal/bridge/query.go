package bridge

import (
	"fmt"
	"strings"

	"github.com/liveosc/liveosc-core/internal/session"
)

// Query entity keywords.
const (
	entityTrack    = "track"
	entityClip     = "clip"
	entityClipSlot = "clip_slot"
	entityDevice   = "device"
)

// derived track pseudo-properties computed by the engine itself.
const propNumDevices = "num_devices"

// QueryEngine interprets the track_data mini-language: a track index range
// followed by "entity.property" tokens, expanded into one flat, positionally
// ordered value sequence.
//
// Response arity per token, per track:
//
//   - track.<prop>: exactly one value.
//   - clip.<prop>: one value per clip slot, nil for empty slots (fixed
//     arity regardless of occupancy).
//   - clip_slot.<prop>: one value per clip slot.
//   - device.<prop>: one value per device; arity varies per track, devices
//     are not zero-padded.
//
// Clients reconstruct field identity purely from their own token order;
// there are no field names on the wire. The query is stateless and
// position-sensitive: no token may depend on another token's result.
type QueryEngine struct {
	song    session.Song
	tracks  *Table
	clips   *Table
	slots   *Table
	devices *Table
	logger  Logger
}

// NewQueryEngine creates an engine resolving tokens against the given
// descriptor tables.
func NewQueryEngine(song session.Song, tracks, clips, slots, devices *Table, logger Logger) *QueryEngine {
	if logger == nil {
		logger = noopLogger{}
	}
	return &QueryEngine{
		song:    song,
		tracks:  tracks,
		clips:   clips,
		slots:   slots,
		devices: devices,
		logger:  logger,
	}
}

// TrackData runs one query. args is the raw request tuple:
//
//	<min_index:int> <max_index:int> <token>...
//
// max_index -1 means "through the last track", resolved against the track
// count at call time. Tracks are visited in ascending index order over
// [min, max); for each track, tokens expand in request order.
//
// A token with an unknown entity keyword is logged and skipped; the rest of
// the query still produces its values. Any other failure (unknown property,
// stale entity, out-of-range track) aborts the query with an error.
func (q *QueryEngine) TrackData(args []any) ([]any, error) {
	if len(args) < 3 {
		return nil, fmt.Errorf("%w: want <min> <max> <token>..., got %d args", ErrBadArguments, len(args))
	}

	minIndex, err := toInt(args[0])
	if err != nil {
		return nil, err
	}
	maxIndex, err := toInt(args[1])
	if err != nil {
		return nil, err
	}

	tokens := make([]string, 0, len(args)-2)
	for _, raw := range args[2:] {
		tok, err := toString(raw)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}

	tracks, err := q.song.Tracks()
	if err != nil {
		return nil, wrapStale(err)
	}
	if maxIndex == -1 {
		maxIndex = len(tracks)
	}

	q.logger.Info("running track_data query",
		"tokens", strings.Join(tokens, " "),
		"min", minIndex,
		"max", maxIndex)

	var out []any
	for index := minIndex; index < maxIndex; index++ {
		if index < 0 || index >= len(tracks) {
			return nil, fmt.Errorf("%w: track index %d out of range", ErrBadArguments, index)
		}
		track := tracks[index]

		for _, token := range tokens {
			values, err := q.expandToken(track, tracks, token)
			if err != nil {
				return nil, err
			}
			out = append(out, values...)
		}
	}
	return out, nil
}

// expandToken produces the value sequence for one token on one track.
func (q *QueryEngine) expandToken(track session.Track, tracks []session.Track, token string) ([]any, error) {
	entity, prop, ok := strings.Cut(token, ".")
	if !ok {
		q.logger.Error("malformed query token, skipping", "token", token)
		return nil, nil
	}

	switch entity {
	case entityTrack:
		v, err := q.trackValue(track, tracks, prop)
		if err != nil {
			return nil, err
		}
		return []any{v}, nil

	case entityClip:
		return q.clipValues(track, prop)

	case entityClipSlot:
		return q.slotValues(track, prop)

	case entityDevice:
		return q.deviceValues(track, prop)

	default:
		// Degrade, do not abort: remaining tokens still produce values.
		q.logger.Error("unknown entity in track_data token, skipping",
			"entity", entity, "token", token)
		return nil, nil
	}
}

// trackValue reads one track-level value, computing derived counts and
// resolving cross-track references to indices — entity handles never reach
// the wire.
func (q *QueryEngine) trackValue(track session.Track, tracks []session.Track, prop string) (any, error) {
	if prop == propNumDevices {
		devices, err := track.Devices()
		if err != nil {
			return nil, wrapStale(err)
		}
		return len(devices), nil
	}

	v, err := q.tracks.Get(track, prop)
	if err != nil {
		return nil, err
	}

	if ref, ok := v.(session.Track); ok {
		for i, t := range tracks {
			if t == ref {
				return i, nil
			}
		}
		// Referenced track is no longer in the list.
		return nil, nil
	}
	return v, nil
}

// clipValues emits one value per clip slot: the clip's property when the
// slot is occupied, nil otherwise. Arity is fixed at the slot count.
func (q *QueryEngine) clipValues(track session.Track, prop string) ([]any, error) {
	slots, err := track.ClipSlots()
	if err != nil {
		return nil, wrapStale(err)
	}

	out := make([]any, 0, len(slots))
	for _, slot := range slots {
		clip, err := slot.Clip()
		if err != nil {
			return nil, wrapStale(err)
		}
		if clip == nil {
			out = append(out, nil)
			continue
		}
		v, err := q.clips.Get(clip, prop)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// slotValues emits one value per clip slot unconditionally; slots exist
// whether or not they hold a clip.
func (q *QueryEngine) slotValues(track session.Track, prop string) ([]any, error) {
	slots, err := track.ClipSlots()
	if err != nil {
		return nil, wrapStale(err)
	}

	out := make([]any, 0, len(slots))
	for _, slot := range slots {
		v, err := q.slots.Get(slot, prop)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// deviceValues emits one value per device in chain order. No padding: arity
// varies per track.
func (q *QueryEngine) deviceValues(track session.Track, prop string) ([]any, error) {
	devices, err := track.Devices()
	if err != nil {
		return nil, wrapStale(err)
	}

	out := make([]any, 0, len(devices))
	for _, d := range devices {
		v, err := q.devices.Get(d, prop)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
