package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path"
	"strings"
	"time"

	"git.lost.host/meutraa/hitcore/internal/clock"
	"git.lost.host/meutraa/hitcore/internal/config"
	"git.lost.host/meutraa/hitcore/internal/game"
	"git.lost.host/meutraa/hitcore/internal/input"
	"git.lost.host/meutraa/hitcore/internal/render"
	"git.lost.host/meutraa/hitcore/internal/replay"
	"git.lost.host/meutraa/hitcore/internal/score"
	"git.lost.host/meutraa/hitcore/internal/session"
	"git.lost.host/meutraa/hitcore/internal/store"
	"git.lost.host/meutraa/hitcore/internal/theme"
	"github.com/eiannone/keyboard"
	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"github.com/google/uuid"
)

type Program struct {
	Flags    *config.Flags
	Renderer *render.DefaultRenderer
	Theme    theme.Theme
}

func NewProgram(flags *config.Flags, out io.Writer) *Program {
	r := render.New(out)
	return &Program{
		Flags:    flags,
		Renderer: r,
		Theme:    &theme.DefaultTheme{Color: r.IsTerminal()},
	}
}

func (p *Program) load(file string) (config.Session, error) {
	s, err := config.Load(file)
	if nil != err {
		return config.Session{}, err
	}
	if *p.Flags.Player != "" {
		s.Config.PlayerName = *p.Flags.Player
	}
	if *p.Flags.Rate != 0 {
		if *p.Flags.Rate < 0 || math.IsNaN(*p.Flags.Rate) {
			return config.Session{}, fmt.Errorf("invalid rate %v", *p.Flags.Rate)
		}
		s.Config.Mods.Rate = *p.Flags.Rate
	}
	if s.Config.Mods.Rate == 0 {
		s.Config.Mods.Rate = 1
	}
	return s, nil
}

func (p *Program) openStore() (*store.Store, error) {
	st, err := store.Open(*p.Flags.Database)
	if nil != err {
		return nil, fmt.Errorf("unable to open replay history: %w", err)
	}
	return st, nil
}

func (p *Program) save(r replay.Replay, state score.State) error {
	st, err := p.openStore()
	if nil != err {
		return err
	}
	defer st.Close()
	if err := st.Save(r, state); nil != err {
		return err
	}
	p.Renderer.Println(fmt.Sprintf("Saved replay %v", r.Header().ID))
	p.Renderer.Flush()
	return nil
}

// audio opens the song file and starts the speaker at the playback rate, so
// stream position stays in song samples.
func (p *Program) audio(file string, rate float64) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(file)
	if nil != err {
		return nil, beep.Format{}, err
	}
	var streamer beep.StreamSeekCloser
	var format beep.Format
	switch strings.ToLower(path.Ext(file)) {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	default:
		f.Close()
		return nil, beep.Format{}, errors.New("unsupported audio file, use .mp3 or .wav")
	}
	if nil != err {
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("unable to decode %v: %w", file, err)
	}
	if err := speaker.Init(beep.SampleRate(math.Round(float64(format.SampleRate)*rate)), format.SampleRate.N(time.Second/60)); nil != err {
		streamer.Close()
		return nil, beep.Format{}, fmt.Errorf("unable to start audio: %w", err)
	}
	return streamer, format, nil
}

func (p *Program) Play(file string) error {
	s, err := p.load(file)
	if nil != err {
		return err
	}
	keys := s.Keys
	if len(keys) == 0 {
		keys = p.Flags.Keys(s.Chart.Lanes)
	}
	if len(keys) != s.Chart.Lanes {
		return fmt.Errorf("%d keys bound for %d lanes", len(keys), s.Chart.Lanes)
	}
	bindings, err := input.NewBindings(keys)
	if nil != err {
		return err
	}
	if !p.Renderer.IsTerminal() {
		return errors.New("play needs a terminal")
	}

	play, err := session.New(s.Chart, s.Config)
	if nil != err {
		return err
	}
	last := play.Timeline().LastTime()
	play.Subscribe(func(j game.Judgement, _ score.State) {
		p.Renderer.Println(p.Theme.Judgement(j))
	})

	var src clock.Source
	var begin func()
	delay := *p.Flags.Delay
	if *p.Flags.Audio != "" {
		streamer, format, err := p.audio(*p.Flags.Audio, s.Config.Mods.Rate)
		if nil != err {
			return err
		}
		defer streamer.Close()
		sc := clock.NewStreamClock(streamer, format, *p.Flags.Offset)
		sc.Guard(speaker.Lock, speaker.Unlock)
		src = sc
		begin = func() {
			go func() {
				time.Sleep(delay)
				speaker.Play(streamer)
			}()
		}
	} else {
		c := clock.New(nil)
		if err := c.SetRate(s.Config.Mods.Rate); nil != err {
			return err
		}
		c.Seek(-float64(delay)/float64(time.Millisecond)*s.Config.Mods.Rate + float64(*p.Flags.Offset)/float64(time.Millisecond))
		src = c
		begin = c.Start
	}

	events, err := keyboard.GetKeys(128)
	if nil != err {
		return fmt.Errorf("unable to open keyboard: %w", err)
	}
	defer func() {
		if err := keyboard.Close(); nil != err {
			log.Println("unable to close keyboard", err)
		}
	}()

	if err := p.Renderer.Init(); nil != err {
		return err
	}
	p.Renderer.Println(fmt.Sprintf("%v notes on %d lanes, keys %q, escape quits", len(s.Chart.Notes), s.Chart.Lanes, string(keys)))

	var loopErr error
	begin()
	p.Renderer.RenderLoop(*p.Flags.FramePeriod, src, func(now float64) bool {
		edges, quit := input.Drain(events, bindings, now)
		tick, err := play.Simulate(now, edges)
		if nil != err {
			loopErr = err
			return false
		}
		// Give the last release window time to close
		return !quit && !tick.Done && now < last+5000
	})

	r, tick, err := play.Finish()
	if err := p.Renderer.Deinit(); nil != err {
		log.Println("unable to restore terminal", err)
	}
	if nil != loopErr {
		return loopErr
	}
	if nil != err {
		return err
	}
	p.Renderer.Println(p.Theme.Result(tick.State))
	p.Renderer.Flush()
	return p.save(r, tick.State)
}

// Simulate autoplays the session, checks the replay reproduces the score
// and prints the result.
func (p *Program) Simulate(file string, save bool) error {
	s, err := p.load(file)
	if nil != err {
		return err
	}
	play, err := session.New(s.Chart, s.Config)
	if nil != err {
		return err
	}
	edges := session.Autoplay(play.Timeline())
	if _, err := play.Simulate(play.Timeline().LastTime()+1, edges); nil != err {
		return err
	}
	r, tick, err := play.Finish()
	if nil != err {
		return err
	}
	if err := session.Verify(s.Chart, r, tick.State, s.Config.Processor); nil != err {
		return err
	}
	p.Renderer.Println(fmt.Sprintf("%d frames, %d judgements", r.Len(), len(play.Judgements())))
	p.Renderer.Println(p.Theme.Result(tick.State))
	p.Renderer.Flush()
	if save {
		return p.save(r, tick.State)
	}
	return nil
}

func (p *Program) History(file string) error {
	s, err := p.load(file)
	if nil != err {
		return err
	}
	st, err := p.openStore()
	if nil != err {
		return err
	}
	defer st.Close()
	records, err := st.Load(s.Chart.Identity())
	if nil != err {
		return err
	}
	if len(records) == 0 {
		p.Renderer.Println("No replays for this chart")
	}
	for _, rec := range records {
		h := rec.Replay.Header()
		p.Renderer.Println(fmt.Sprintf("%v  %v  %-12s %-8v %-10s %9d %7.2f%% %v",
			h.ID, rec.Created.Format(time.RFC3339), h.PlayerName, h.Mods, h.Preset.Name,
			rec.State.Score, rec.State.Accuracy, score.GradeOf(rec.State)))
	}
	p.Renderer.Flush()
	return nil
}

func (p *Program) Verify(file, id string) error {
	s, err := p.load(file)
	if nil != err {
		return err
	}
	rid, err := uuid.Parse(id)
	if nil != err {
		return fmt.Errorf("invalid replay id %q: %w", id, err)
	}
	st, err := p.openStore()
	if nil != err {
		return err
	}
	defer st.Close()
	rec, err := st.Get(rid)
	if nil != err {
		return err
	}
	if err := session.Verify(s.Chart, rec.Replay, rec.State, s.Config.Processor); nil != err {
		return err
	}
	p.Renderer.Println(fmt.Sprintf("Replay %v reproduces its score", rid))
	p.Renderer.Println(p.Theme.Result(rec.State))
	p.Renderer.Flush()
	return nil
}
