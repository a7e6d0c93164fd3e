// Package session runs one play of one chart: the timeline, resolver,
// score processor and replay recorder, driven by a single caller.
package session

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"git.lost.host/meutraa/hitcore/internal/chart"
	"git.lost.host/meutraa/hitcore/internal/game"
	"git.lost.host/meutraa/hitcore/internal/judge"
	"git.lost.host/meutraa/hitcore/internal/replay"
	"git.lost.host/meutraa/hitcore/internal/score"
	"git.lost.host/meutraa/hitcore/internal/timing"
	"github.com/google/uuid"
)

var (
	ErrFinished     = errors.New("session finished")
	ErrSeekBackward = errors.New("seek backward")
	ErrTime         = errors.New("song time not finite")
)

func finite(ms float64) bool {
	return !math.IsNaN(ms) && !math.IsInf(ms, 0)
}

type Config struct {
	Preset     timing.Preset // Before mods, defaults to timing.Standard
	Mods       game.Mods
	Processor  *score.Processor // Curve and tables, the fail policy always follows Mods
	PlayerName string
	ReplayID   uuid.UUID // Generated when zero
}

// Tick is what one call to Simulate produced.
type Tick struct {
	Judgements []game.Judgement
	State      score.State
	Done       bool
}

type Session struct {
	chart     game.Chart
	timeline  *chart.Timeline
	resolver  *judge.Resolver
	processor *score.Processor
	recorder  *replay.Recorder

	state      score.State
	judgements []game.Judgement
	observers  []func(game.Judgement, score.State)
	now        float64
	finished   bool
}

func New(c game.Chart, cfg Config) (*Session, error) {
	tl, err := chart.New(c, cfg.Mods)
	if nil != err {
		return nil, err
	}

	base := cfg.Preset
	if len(base.Windows) == 0 {
		base = timing.Standard
	}
	// Rebuild so presets decoded from storage get their release windows
	base, err = timing.NewPreset(base.Name, base.Windows, base.ReleaseScale, base.EarlyReleaseTier)
	if nil != err {
		return nil, err
	}

	proc := score.NewProcessor(score.PolicyFor(cfg.Mods))
	if cfg.Processor != nil {
		p := *cfg.Processor
		p.Policy = score.PolicyFor(cfg.Mods)
		if p.Curve == nil {
			p.Curve = score.DefaultCurve
		}
		proc = &p
	}

	id := cfg.ReplayID
	if id == uuid.Nil {
		id = uuid.New()
	}

	return &Session{
		chart:     c,
		timeline:  tl,
		resolver:  judge.New(tl, base.WithMods(cfg.Mods)),
		processor: proc,
		recorder: replay.NewRecorder(replay.Header{
			ID:          id,
			MapIdentity: c.Identity(),
			Preset:      base,
			Mods:        cfg.Mods,
			PlayerName:  cfg.PlayerName,
		}),
		state: score.NewState(),
		now:   math.Inf(-1),
	}, nil
}

// Subscribe registers fn to be called with every judgement and the state
// right after it, in order, from inside Simulate, Seek and Finish.
func (s *Session) Subscribe(fn func(game.Judgement, score.State)) {
	s.observers = append(s.observers, fn)
}

func (s *Session) State() score.State {
	return s.state
}

// Judgements is the full judgement stream so far.
func (s *Session) Judgements() []game.Judgement {
	js := make([]game.Judgement, len(s.judgements))
	copy(js, s.judgements)
	return js
}

func (s *Session) Timeline() *chart.Timeline {
	return s.timeline
}

func (s *Session) Preset() timing.Preset {
	return s.resolver.Preset()
}

func (s *Session) Header() replay.Header {
	return s.recorder.Header()
}

// Now is the song time the session has been simulated up to.
func (s *Session) Now() float64 {
	return s.now
}

// Done reports whether further input can change the outcome: every note is
// judged, or the play failed under a stopping fail policy.
func (s *Session) Done() bool {
	return s.finished || s.timeline.Exhausted() || s.processor.Halted(s.state)
}

// Simulate advances the play to songTimeMs, judging edges in time order on
// the way. An edge older than the time already simulated is judged at that
// time, which is also the time recorded for it.
func (s *Session) Simulate(songTimeMs float64, edges []game.Edge) (Tick, error) {
	if s.finished {
		return Tick{}, ErrFinished
	}
	if !finite(songTimeMs) {
		return Tick{}, fmt.Errorf("%w: %v", ErrTime, songTimeMs)
	}
	for _, e := range edges {
		if !s.timeline.InRange(e.Lane) {
			return Tick{}, fmt.Errorf("%w: lane %d of %d", judge.ErrLaneOutOfRange, e.Lane, s.timeline.Lanes())
		}
		if !finite(e.SongTimeMs) {
			return Tick{}, fmt.Errorf("%w: %v at %v", ErrTime, e.Kind, e.SongTimeMs)
		}
	}

	ordered := make([]game.Edge, len(edges))
	copy(ordered, edges)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SongTimeMs < ordered[j].SongTimeMs
	})

	var tick Tick
	for _, e := range ordered {
		if s.Done() {
			break
		}
		if e.SongTimeMs < s.now {
			e.SongTimeMs = s.now
		}
		s.sweep(e.SongTimeMs, &tick)
		if s.Done() {
			break
		}
		if err := s.recorder.RecordEdge(e); nil != err {
			return tick, err
		}
		j, ok, err := s.resolver.OnKeyEdge(e)
		if nil != err {
			return tick, err
		}
		if ok {
			s.apply(j, &tick)
		}
	}
	if songTimeMs > s.now {
		s.sweep(songTimeMs, &tick)
	}

	tick.State = s.state
	tick.Done = s.Done()
	return tick, nil
}

// Seek jumps the clock forward to songTimeMs, such as when the intro is
// skipped. Notes the jump passed over are missed at once.
func (s *Session) Seek(songTimeMs float64) (Tick, error) {
	if s.finished {
		return Tick{}, ErrFinished
	}
	if !finite(songTimeMs) {
		return Tick{}, fmt.Errorf("%w: seek to %v", ErrTime, songTimeMs)
	}
	if songTimeMs < s.now {
		return Tick{}, fmt.Errorf("%w: %v to %v", ErrSeekBackward, s.now, songTimeMs)
	}
	if err := s.recorder.RecordSeek(songTimeMs); nil != err {
		return Tick{}, err
	}
	var tick Tick
	s.now = songTimeMs
	for _, j := range s.resolver.Seek(songTimeMs) {
		s.apply(j, &tick)
	}
	tick.State = s.state
	tick.Done = s.Done()
	return tick, nil
}

// Finish misses whatever is left and seals the replay.
func (s *Session) Finish() (replay.Replay, Tick, error) {
	if s.finished {
		return replay.Replay{}, Tick{}, ErrFinished
	}
	var tick Tick
	for _, j := range s.resolver.Finish() {
		s.apply(j, &tick)
	}
	s.finished = true
	r, err := s.recorder.Seal()
	if nil != err {
		return replay.Replay{}, tick, err
	}
	tick.State = s.state
	tick.Done = true
	return r, tick, nil
}

func (s *Session) sweep(songTimeMs float64, tick *Tick) {
	s.now = songTimeMs
	for _, j := range s.resolver.Sweep(songTimeMs) {
		s.apply(j, tick)
	}
}

func (s *Session) apply(j game.Judgement, tick *Tick) {
	s.state = s.processor.Apply(s.state, j)
	s.judgements = append(s.judgements, j)
	tick.Judgements = append(tick.Judgements, j)
	for _, fn := range s.observers {
		fn(j, s.state)
	}
}
