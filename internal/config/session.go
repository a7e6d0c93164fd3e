package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"git.lost.host/meutraa/hitcore/internal/game"
	"git.lost.host/meutraa/hitcore/internal/score"
	"git.lost.host/meutraa/hitcore/internal/session"
	"git.lost.host/meutraa/hitcore/internal/timing"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var ErrSessionFile = errors.New("invalid session file")

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("tier", func(fl validator.FieldLevel) bool {
		_, err := game.ParseTier(fl.Field().String())
		return nil == err
	})
	_ = validate.RegisterValidation("mod", func(fl validator.FieldLevel) bool {
		_, err := game.ParseMod(fl.Field().String())
		return nil == err
	})
	_ = validate.RegisterValidation("preset", func(fl validator.FieldLevel) bool {
		_, err := timing.Lookup(fl.Field().String())
		return nil == err
	})
	_ = validate.RegisterValidation("layout", func(fl validator.FieldLevel) bool {
		_, ok := game.NKeyMap[fl.Field().String()]
		return ok
	})
}

// File is a session file: how to judge and score a play, and the chart.
// Tier keyed tables only override the tiers they name.
type File struct {
	Player       string             `yaml:"player" validate:"max=64"`
	Preset       string             `yaml:"preset" validate:"omitempty,preset"`
	Windows      []WindowSpec       `yaml:"windows" validate:"omitempty,min=2,dive"`
	ReleaseScale float64            `yaml:"release_scale" validate:"omitempty,gte=1"`
	EarlyRelease string             `yaml:"early_release" validate:"omitempty,tier"`
	Mods         []string           `yaml:"mods" validate:"dive,mod"`
	Rate         float64            `yaml:"rate" validate:"omitempty,gt=0,lte=4"`
	Health       map[string]float64 `yaml:"health" validate:"dive,keys,tier,endkeys,gte=-100,lte=100"`
	Accuracy     map[string]float64 `yaml:"accuracy" validate:"dive,keys,tier,endkeys,gte=0,lte=100"`
	Score        *CurveSpec         `yaml:"score"`
	Keys         string             `yaml:"keys"`
	Chart        ChartSpec          `yaml:"chart"`
}

type WindowSpec struct {
	Tier string  `yaml:"tier" validate:"required,tier"`
	Ms   float64 `yaml:"ms" validate:"gt=0"`
}

type CurveSpec struct {
	Base      map[string]uint64 `yaml:"base" validate:"dive,keys,tier,endkeys"`
	ComboStep *uint32           `yaml:"combo_step"`
	StepBonus *uint64           `yaml:"step_bonus"`
	MaxBonus  *uint64           `yaml:"max_bonus" validate:"omitempty,lte=1000"`
}

type ChartSpec struct {
	Layout string          `yaml:"layout" validate:"omitempty,layout"`
	Lanes  int             `yaml:"lanes" validate:"omitempty,min=1,max=16"`
	Notes  []game.NoteSpec `yaml:"notes" validate:"required,min=1,dive"`
}

// Session is a loaded session file, ready to start a play with.
type Session struct {
	Chart  game.Chart
	Config session.Config
	Keys   []rune // Empty unless the file binds keys
}

func Load(path string) (Session, error) {
	data, err := os.ReadFile(path)
	if nil != err {
		return Session{}, fmt.Errorf("unable to read session file: %w", err)
	}
	s, err := Parse(data)
	if nil != err {
		return Session{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func Parse(data []byte) (Session, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); nil != err {
		return Session{}, fmt.Errorf("%w: %v", ErrSessionFile, err)
	}
	if err := validate.Struct(&f); nil != err {
		return Session{}, fmt.Errorf("%w: %v", ErrSessionFile, err)
	}
	return f.Build()
}

func (f *File) Build() (Session, error) {
	c, err := f.Chart.build()
	if nil != err {
		return Session{}, err
	}
	preset, err := f.preset()
	if nil != err {
		return Session{}, fmt.Errorf("%w: %v", ErrSessionFile, err)
	}
	mods, err := f.mods()
	if nil != err {
		return Session{}, fmt.Errorf("%w: %v", ErrSessionFile, err)
	}
	proc, err := f.processor(uint32(len(c.Notes) + c.HoldCount()))
	if nil != err {
		return Session{}, fmt.Errorf("%w: %v", ErrSessionFile, err)
	}

	keys := []rune(f.Keys)
	if len(keys) != 0 && len(keys) != c.Lanes {
		return Session{}, fmt.Errorf("%w: %d keys bound for %d lanes", ErrSessionFile, len(keys), c.Lanes)
	}

	return Session{
		Chart: c,
		Config: session.Config{
			Preset:     preset,
			Mods:       mods,
			Processor:  proc,
			PlayerName: f.Player,
		},
		Keys: keys,
	}, nil
}

func (c *ChartSpec) build() (game.Chart, error) {
	lanes := c.Lanes
	if c.Layout != "" {
		n := game.NKeyMap[c.Layout]
		if lanes != 0 && lanes != n {
			return game.Chart{}, fmt.Errorf("%w: layout %s has %d lanes, not %d", ErrSessionFile, c.Layout, n, lanes)
		}
		lanes = n
	}
	if lanes == 0 {
		return game.Chart{}, fmt.Errorf("%w: chart needs lanes or a layout", ErrSessionFile)
	}
	notes := make([]game.NoteSpec, len(c.Notes))
	copy(notes, c.Notes)
	return game.Chart{Lanes: lanes, Notes: notes}, nil
}

func (f *File) preset() (timing.Preset, error) {
	base := timing.Standard
	if f.Preset != "" {
		p, err := timing.Lookup(f.Preset)
		if nil != err {
			return timing.Preset{}, err
		}
		base = p
	}

	name, windows := base.Name, base.Windows
	if len(f.Windows) > 0 {
		name = "custom"
		windows = make([]timing.Window, len(f.Windows))
		for i, w := range f.Windows {
			t, err := game.ParseTier(w.Tier)
			if nil != err {
				return timing.Preset{}, err
			}
			windows[i] = timing.Window{Tier: t, RadiusMs: w.Ms}
		}
	}
	scale := base.ReleaseScale
	if f.ReleaseScale != 0 {
		scale = f.ReleaseScale
	}
	early := base.EarlyReleaseTier
	if f.EarlyRelease != "" {
		t, err := game.ParseTier(f.EarlyRelease)
		if nil != err {
			return timing.Preset{}, err
		}
		early = t
	}
	return timing.NewPreset(name, windows, scale, early)
}

func (f *File) mods() (game.Mods, error) {
	m := game.Mods{Rate: 1}
	if f.Rate != 0 {
		m.Rate = f.Rate
	}
	for _, name := range f.Mods {
		mod, err := game.ParseMod(strings.TrimSpace(name))
		if nil != err {
			return game.Mods{}, err
		}
		m.Flags |= mod
	}
	return m, nil
}

func (f *File) processor(maxCombo uint32) (*score.Processor, error) {
	// The policy is replaced from the mods when the session starts
	p := score.NewProcessor(score.FailAndStop)
	for name, v := range f.Health {
		t, err := game.ParseTier(name)
		if nil != err {
			return nil, err
		}
		p.Health[t] = v
	}
	for name, v := range f.Accuracy {
		t, err := game.ParseTier(name)
		if nil != err {
			return nil, err
		}
		p.Accuracy[t] = v
	}
	if nil == f.Score {
		return p, nil
	}

	curve := score.DefaultComboCurve
	for name, v := range f.Score.Base {
		t, err := game.ParseTier(name)
		if nil != err {
			return nil, err
		}
		curve.Base[t] = v
	}
	if nil != f.Score.ComboStep {
		curve.ComboStep = *f.Score.ComboStep
	}
	if nil != f.Score.StepBonus {
		curve.StepBonus = *f.Score.StepBonus
	}
	if nil != f.Score.MaxBonus {
		curve.MaxBonus = *f.Score.MaxBonus
	}
	if err := score.CheckCurve(curve.Points, maxCombo); nil != err {
		return nil, err
	}
	p.Curve = curve.Points
	return p, nil
}
