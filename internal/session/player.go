package session

import (
	"errors"
	"fmt"

	"git.lost.host/meutraa/hitcore/internal/game"
	"git.lost.host/meutraa/hitcore/internal/replay"
	"git.lost.host/meutraa/hitcore/internal/score"
)

var ErrMismatch = errors.New("replay does not reproduce score")

type Result struct {
	State      score.State
	Judgements []game.Judgement
	Replay     replay.Replay // As re-recorded by the replaying session
}

// Play judges a replay against the chart it was recorded on, with no clock
// and no rendering. proc supplies the curve and tables, nil for defaults.
// The replay is checked in full before anything is judged.
func Play(c game.Chart, r replay.Replay, proc *score.Processor) (Result, error) {
	h := r.Header()
	if id := c.Identity(); h.MapIdentity != id {
		return Result{}, fmt.Errorf("%w: recorded on map %s, not %s", replay.ErrReplayCorrupt, h.MapIdentity, id)
	}
	preset, err := h.TimingPreset()
	if nil != err {
		return Result{}, fmt.Errorf("%w: %v", replay.ErrReplayCorrupt, err)
	}
	if err := r.Validate(c.Lanes); nil != err {
		return Result{}, err
	}

	s, err := New(c, Config{
		Preset:     preset,
		Mods:       h.Mods,
		Processor:  proc,
		PlayerName: h.PlayerName,
		ReplayID:   h.ID,
	})
	if nil != err {
		return Result{}, err
	}

	for i := 0; i < r.Len(); i++ {
		f := r.Frame(i)
		if e, ok := f.Edge(); ok {
			_, err = s.Simulate(f.SongTimeMs, []game.Edge{e})
		} else {
			_, err = s.Seek(f.SongTimeMs)
		}
		if nil != err {
			return Result{}, fmt.Errorf("%w: frame %d: %v", replay.ErrReplayCorrupt, i, err)
		}
	}

	rerecorded, _, err := s.Finish()
	if nil != err {
		return Result{}, err
	}
	if rerecorded.Len() != r.Len() {
		return Result{}, fmt.Errorf("%w: %d of %d frames arrived after the play ended", replay.ErrReplayCorrupt, r.Len()-rerecorded.Len(), r.Len())
	}
	return Result{
		State:      s.State(),
		Judgements: s.Judgements(),
		Replay:     rerecorded,
	}, nil
}

// Verify replays r and compares the outcome with the state stored for it.
func Verify(c game.Chart, r replay.Replay, expected score.State, proc *score.Processor) error {
	res, err := Play(c, r, proc)
	if nil != err {
		return err
	}
	if res.State != expected {
		return fmt.Errorf("%w: got %+v, want %+v", ErrMismatch, res.State, expected)
	}
	return nil
}
