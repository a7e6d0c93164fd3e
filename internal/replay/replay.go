// Package replay records the input edges of a play so the play can be
// judged again later.
package replay

import (
	"errors"
	"fmt"
	"math"

	"git.lost.host/meutraa/hitcore/internal/game"
	"git.lost.host/meutraa/hitcore/internal/timing"
	"github.com/google/uuid"
)

var (
	ErrReplayCorrupt = errors.New("replay corrupt")
	ErrSealed        = errors.New("replay sealed")
	ErrOutOfOrder    = errors.New("frame out of order")
)

type FrameKind uint8

const (
	FramePress FrameKind = iota
	FrameRelease
	FrameSeek // Clock jumped, Lane is unused
)

func (k FrameKind) String() string {
	switch k {
	case FramePress:
		return "press"
	case FrameRelease:
		return "release"
	case FrameSeek:
		return "seek"
	}
	return fmt.Sprintf("frame(%d)", uint8(k))
}

type Frame struct {
	SongTimeMs float64   `json:"t"`
	Lane       int       `json:"l,omitempty"`
	Kind       FrameKind `json:"k"`
}

func EdgeFrame(e game.Edge) Frame {
	kind := FramePress
	if e.Kind == game.Release {
		kind = FrameRelease
	}
	return Frame{SongTimeMs: e.SongTimeMs, Lane: e.Lane, Kind: kind}
}

// Edge converts an edge frame back, false for seeks.
func (f Frame) Edge() (game.Edge, bool) {
	switch f.Kind {
	case FramePress:
		return game.Edge{Lane: f.Lane, Kind: game.Press, SongTimeMs: f.SongTimeMs}, true
	case FrameRelease:
		return game.Edge{Lane: f.Lane, Kind: game.Release, SongTimeMs: f.SongTimeMs}, true
	}
	return game.Edge{}, false
}

type Header struct {
	ID          uuid.UUID     `json:"id"`
	MapIdentity string        `json:"map"`
	Preset      timing.Preset `json:"preset"` // Before mods are applied
	Mods        game.Mods     `json:"mods"`
	PlayerName  string        `json:"player"`
}

// Replay is a sealed header and frame log. It cannot be changed.
type Replay struct {
	header Header
	frames []Frame
}

// New builds a replay from stored parts. The frames are copied and not
// checked, Validate does that.
func New(h Header, frames []Frame) Replay {
	fs := make([]Frame, len(frames))
	copy(fs, frames)
	return Replay{header: h, frames: fs}
}

func (r Replay) Header() Header {
	return r.header
}

func (r Replay) Len() int {
	return len(r.frames)
}

func (r Replay) Frame(i int) Frame {
	return r.frames[i]
}

// Frames returns a copy of the frame log.
func (r Replay) Frames() []Frame {
	fs := make([]Frame, len(r.frames))
	copy(fs, r.frames)
	return fs
}

// TimingPreset rebuilds the header preset so its release windows are populated.
func (h Header) TimingPreset() (timing.Preset, error) {
	p := h.Preset
	return timing.NewPreset(p.Name, p.Windows, p.ReleaseScale, p.EarlyReleaseTier)
}

// Validate checks the frame log against a chart with the given lane count.
func (r Replay) Validate(lanes int) error {
	last := 0.0
	for i, f := range r.frames {
		if math.IsNaN(f.SongTimeMs) || math.IsInf(f.SongTimeMs, 0) {
			return fmt.Errorf("%w: frame %d at %v", ErrReplayCorrupt, i, f.SongTimeMs)
		}
		if i > 0 && f.SongTimeMs < last {
			return fmt.Errorf("%w: frame %d at %v before %v", ErrReplayCorrupt, i, f.SongTimeMs, last)
		}
		last = f.SongTimeMs
		switch f.Kind {
		case FramePress, FrameRelease:
			if f.Lane < 0 || f.Lane >= lanes {
				return fmt.Errorf("%w: frame %d in lane %d of %d", ErrReplayCorrupt, i, f.Lane, lanes)
			}
		case FrameSeek:
		default:
			return fmt.Errorf("%w: frame %d has kind %v", ErrReplayCorrupt, i, f.Kind)
		}
	}
	return nil
}
