// Package timing holds the hit windows a play is judged against.
package timing

import (
	"errors"
	"fmt"
	"math"

	"git.lost.host/meutraa/hitcore/internal/game"
)

var ErrPresetInvalid = errors.New("invalid timing preset")

// Hard rock and easy scale windows the same way osu!mania does.
const modWindowScale = 1.4

type Window struct {
	Tier     game.Tier `json:"tier" yaml:"tier"`
	RadiusMs float64   `json:"radius" yaml:"radius"`
}

// Preset is an ordered list of symmetric windows, tightest first, ending
// with Miss. It is immutable once constructed.
type Preset struct {
	Name             string    `json:"name"`
	Windows          []Window  `json:"windows"`
	ReleaseScale     float64   `json:"release_scale"`
	EarlyReleaseTier game.Tier `json:"early_release_tier"`

	release []Window
}

func NewPreset(name string, windows []Window, releaseScale float64, earlyRelease game.Tier) (Preset, error) {
	if len(windows) < 2 {
		return Preset{}, fmt.Errorf("%w: %s: need at least one tier and a miss window", ErrPresetInvalid, name)
	}
	if windows[len(windows)-1].Tier != game.Miss {
		return Preset{}, fmt.Errorf("%w: %s: widest window must be %v", ErrPresetInvalid, name, game.Miss)
	}
	if math.IsNaN(releaseScale) || math.IsInf(releaseScale, 0) || releaseScale < 1 {
		return Preset{}, fmt.Errorf("%w: %s: release scale %v below 1", ErrPresetInvalid, name, releaseScale)
	}
	if !earlyRelease.Valid() {
		return Preset{}, fmt.Errorf("%w: %s: early release tier %v", ErrPresetInvalid, name, earlyRelease)
	}

	ws := make([]Window, len(windows))
	copy(ws, windows)
	for i, w := range ws {
		if math.IsNaN(w.RadiusMs) || math.IsInf(w.RadiusMs, 0) || w.RadiusMs <= 0 {
			return Preset{}, fmt.Errorf("%w: %s: %v radius %v", ErrPresetInvalid, name, w.Tier, w.RadiusMs)
		}
		if i == 0 {
			continue
		}
		prev := ws[i-1]
		if w.Tier <= prev.Tier {
			return Preset{}, fmt.Errorf("%w: %s: %v listed after %v", ErrPresetInvalid, name, w.Tier, prev.Tier)
		}
		if w.RadiusMs <= prev.RadiusMs {
			return Preset{}, fmt.Errorf("%w: %s: %v radius %v not wider than %v", ErrPresetInvalid, name, w.Tier, w.RadiusMs, prev.Tier)
		}
	}

	p := Preset{
		Name:             name,
		Windows:          ws,
		ReleaseScale:     releaseScale,
		EarlyReleaseTier: earlyRelease,
	}
	p.release = make([]Window, len(ws)-1)
	for i, w := range ws[:len(ws)-1] {
		p.release[i] = Window{Tier: w.Tier, RadiusMs: w.RadiusMs * releaseScale}
	}
	return p, nil
}

func mustPreset(name string, windows []Window, releaseScale float64, earlyRelease game.Tier) Preset {
	p, err := NewPreset(name, windows, releaseScale, earlyRelease)
	if nil != err {
		panic(err)
	}
	return p
}

// Scaled returns a copy with every press radius multiplied by s.
func (p Preset) Scaled(name string, s float64) (Preset, error) {
	ws := make([]Window, len(p.Windows))
	for i, w := range p.Windows {
		ws[i] = Window{Tier: w.Tier, RadiusMs: w.RadiusMs * s}
	}
	return NewPreset(name, ws, p.ReleaseScale, p.EarlyReleaseTier)
}

// WithMods applies the window changing mods. Hard rock and easy together
// cancel out. Rate is ignored, windows are always compared in song time.
func (p Preset) WithMods(mods game.Mods) Preset {
	hr, ez := mods.Has(game.HardRock), mods.Has(game.Easy)
	if hr == ez {
		return p
	}
	s := modWindowScale
	if hr {
		s = 1 / modWindowScale
	}
	scaled, err := p.Scaled(p.Name, s)
	if nil != err {
		// Scaling a valid preset by a positive factor keeps it valid
		panic(err)
	}
	return scaled
}

// PressRadius is the widest press radius, the miss window.
func (p Preset) PressRadius() float64 {
	return p.Windows[len(p.Windows)-1].RadiusMs
}

// ReleaseRadius is the widest release radius. Miss has no release window,
// letting go outside it is either an early release or a miss.
func (p Preset) ReleaseRadius() float64 {
	return p.release[len(p.release)-1].RadiusMs
}

// Press finds the tightest tier containing delta. A radius equal to |delta|
// belongs to that tier. False means the press is outside every window.
func (p Preset) Press(delta float64) (game.Tier, bool) {
	return scan(p.Windows, math.Abs(delta))
}

// Release judges a release delta against the scaled windows. Outside them,
// an early release gets the early release tier and a late one is a miss.
func (p Preset) Release(delta float64) (tier game.Tier, early bool) {
	if t, ok := scan(p.release, math.Abs(delta)); ok {
		return t, false
	}
	if delta < 0 {
		return p.EarlyReleaseTier, true
	}
	return game.Miss, false
}

func scan(windows []Window, d float64) (game.Tier, bool) {
	for _, w := range windows {
		if d <= w.RadiusMs {
			return w.Tier, true
		}
	}
	return game.Miss, false
}
