package replay

import (
	"fmt"
	"math"

	"git.lost.host/meutraa/hitcore/internal/game"
)

// Recorder appends frames during a live play until it is sealed.
type Recorder struct {
	header Header
	frames []Frame
	last   float64
	sealed bool
}

func NewRecorder(h Header) *Recorder {
	return &Recorder{
		header: h,
		frames: []Frame{},
		last:   math.Inf(-1),
	}
}

func (r *Recorder) Header() Header {
	return r.header
}

func (r *Recorder) Len() int {
	return len(r.frames)
}

func (r *Recorder) Sealed() bool {
	return r.sealed
}

func (r *Recorder) RecordEdge(e game.Edge) error {
	return r.append(EdgeFrame(e))
}

func (r *Recorder) RecordSeek(songTimeMs float64) error {
	return r.append(Frame{SongTimeMs: songTimeMs, Kind: FrameSeek})
}

func (r *Recorder) append(f Frame) error {
	if r.sealed {
		return ErrSealed
	}
	if math.IsNaN(f.SongTimeMs) || f.SongTimeMs < r.last {
		return fmt.Errorf("%w: %v %v after %v", ErrOutOfOrder, f.Kind, f.SongTimeMs, r.last)
	}
	r.frames = append(r.frames, f)
	r.last = f.SongTimeMs
	return nil
}

// Seal hands out the finished replay. The recorder accepts nothing after.
func (r *Recorder) Seal() (Replay, error) {
	if r.sealed {
		return Replay{}, ErrSealed
	}
	r.sealed = true
	replay := Replay{header: r.header, frames: r.frames}
	r.frames = nil
	return replay, nil
}
