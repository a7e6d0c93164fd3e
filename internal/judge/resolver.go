// Package judge matches key edges to chart notes and sweeps notes whose
// windows have closed.
package judge

import (
	"errors"
	"fmt"
	"math"

	"git.lost.host/meutraa/hitcore/internal/chart"
	"git.lost.host/meutraa/hitcore/internal/game"
	"git.lost.host/meutraa/hitcore/internal/timing"
)

var ErrLaneOutOfRange = errors.New("lane out of range")

// Resolver owns the note states of one timeline. Only one goroutine may use
// it at a time.
type Resolver struct {
	timeline *chart.Timeline
	preset   timing.Preset
	swept    float64
}

func New(tl *chart.Timeline, p timing.Preset) *Resolver {
	return &Resolver{
		timeline: tl,
		preset:   p,
		swept:    math.Inf(-1),
	}
}

func (r *Resolver) Preset() timing.Preset {
	return r.preset
}

func (r *Resolver) Timeline() *chart.Timeline {
	return r.timeline
}

// Swept is the song time of the last sweep.
func (r *Resolver) Swept() float64 {
	return r.swept
}

// Pending counts notes that can still be judged.
func (r *Resolver) Pending() int {
	return r.timeline.Remaining()
}

// OnKeyEdge judges an edge against the head note of its lane. The bool is
// false for ghost inputs, which change nothing.
func (r *Resolver) OnKeyEdge(e game.Edge) (game.Judgement, bool, error) {
	if !r.timeline.InRange(e.Lane) {
		return game.Judgement{}, false, fmt.Errorf("%w: lane %d of %d", ErrLaneOutOfRange, e.Lane, r.timeline.Lanes())
	}
	head, ok := r.timeline.PeekHead(e.Lane)
	if !ok {
		return game.Judgement{}, false, nil
	}

	switch head.State {
	case game.Upcoming, game.Active:
		if e.Kind != game.Press {
			return game.Judgement{}, false, nil
		}
		return r.press(head, e)
	case game.Held:
		if e.Kind != game.Release {
			return game.Judgement{}, false, nil
		}
		return r.release(head, e)
	}
	return game.Judgement{}, false, nil
}

func (r *Resolver) press(head *game.Note, e game.Edge) (game.Judgement, bool, error) {
	delta := e.SongTimeMs - head.StartMs
	tier, ok := r.preset.Press(delta)
	if !ok {
		// Outside every window, the sweep owns misses
		return game.Judgement{}, false, nil
	}
	head.PressTier = tier
	if head.IsHold {
		head.State = game.Held
	} else {
		r.resolve(head)
	}
	return game.Judgement{
		Tier:       tier,
		DeltaMs:    delta,
		Lane:       head.Lane,
		NoteID:     head.ID,
		Edge:       game.Press,
		SongTimeMs: e.SongTimeMs,
	}, true, nil
}

func (r *Resolver) release(head *game.Note, e game.Edge) (game.Judgement, bool, error) {
	delta := e.SongTimeMs - head.EndMs
	tier, early := r.preset.Release(delta)
	r.resolve(head)
	return game.Judgement{
		Tier:         tier,
		DeltaMs:      delta,
		Lane:         head.Lane,
		NoteID:       head.ID,
		Edge:         game.Release,
		SongTimeMs:   e.SongTimeMs,
		EarlyRelease: early,
		PressTier:    head.PressTier,
	}, true, nil
}

func (r *Resolver) resolve(n *game.Note) {
	n.State = game.Resolved
	r.timeline.AdvanceHead(n.Lane)
}

// deadline is the song time after which the lane head is auto judged.
func (r *Resolver) deadline(n *game.Note) float64 {
	if n.State == game.Held {
		return n.EndMs + r.preset.ReleaseRadius()
	}
	return n.StartMs + r.preset.PressRadius()
}

// Sweep misses every head whose window closed before songTimeMs. Misses are
// emitted in order of window close, lane breaking ties, and carry the close
// time so the result does not depend on how often Sweep is called.
func (r *Resolver) Sweep(songTimeMs float64) []game.Judgement {
	if songTimeMs > r.swept {
		r.swept = songTimeMs
	}

	var judgements []game.Judgement
	for {
		var next *game.Note
		nextDeadline := math.Inf(1)
		for l := 0; l < r.timeline.Lanes(); l++ {
			head, ok := r.timeline.PeekHead(l)
			if !ok {
				continue
			}
			d := r.deadline(head)
			if songTimeMs > d && d < nextDeadline {
				next, nextDeadline = head, d
			}
		}
		if next == nil {
			break
		}
		judgements = append(judgements, r.miss(next, nextDeadline)...)
	}

	pressRadius := r.preset.PressRadius()
	for l := 0; l < r.timeline.Lanes(); l++ {
		if head, ok := r.timeline.PeekHead(l); ok && head.State == game.Upcoming && songTimeMs >= head.StartMs-pressRadius {
			head.State = game.Active
		}
	}
	return judgements
}

func (r *Resolver) miss(n *game.Note, at float64) []game.Judgement {
	if n.State == game.Held {
		r.resolve(n)
		return []game.Judgement{{
			Tier:       game.Miss,
			DeltaMs:    at - n.EndMs,
			Lane:       n.Lane,
			NoteID:     n.ID,
			Edge:       game.Release,
			SongTimeMs: at,
			Auto:       true,
			PressTier:  n.PressTier,
		}}
	}

	n.PressTier = game.Miss
	press := game.Judgement{
		Tier:       game.Miss,
		DeltaMs:    at - n.StartMs,
		Lane:       n.Lane,
		NoteID:     n.ID,
		Edge:       game.Press,
		SongTimeMs: at,
		Auto:       true,
	}
	r.resolve(n)
	if !n.IsHold {
		return []game.Judgement{press}
	}
	// A hold that was never pressed cannot be released either
	return []game.Judgement{press, {
		Tier:       game.Miss,
		DeltaMs:    at - n.EndMs,
		Lane:       n.Lane,
		NoteID:     n.ID,
		Edge:       game.Release,
		SongTimeMs: at,
		Auto:       true,
		PressTier:  game.Miss,
	}}
}

// Seek restarts sweeping at songTimeMs and judges everything the jump
// skipped over in one pass. Resolved notes are never revisited.
func (r *Resolver) Seek(songTimeMs float64) []game.Judgement {
	r.swept = songTimeMs
	return r.Sweep(songTimeMs)
}

// Finish misses every note still pending.
func (r *Resolver) Finish() []game.Judgement {
	return r.Sweep(math.Inf(1))
}
