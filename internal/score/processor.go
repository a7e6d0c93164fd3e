// Package score reduces a judgement stream into score, combo, health and
// accuracy.
package score

import (
	"git.lost.host/meutraa/hitcore/internal/game"
)

const MaxHealth = 100.0

// HealthTable maps each tier to a signed health change.
type HealthTable [game.TierCount]float64

// AccuracyWeights maps each tier to the percentage it is worth.
type AccuracyWeights [game.TierCount]float64

var (
	DefaultHealth = HealthTable{
		game.Marvelous: 0.5,
		game.Perfect:   0.4,
		game.Great:     0.2,
		game.Good:      -3,
		game.Okay:      -4.5,
		game.Miss:      -6,
	}
	DefaultAccuracy = AccuracyWeights{
		game.Marvelous: 100,
		game.Perfect:   98.25,
		game.Great:     65,
		game.Good:      25,
		game.Okay:      10,
		game.Miss:      0,
	}
)

type FailPolicy uint8

const (
	FailAndStop     FailPolicy = iota // Failing ends the play
	FailAndContinue                   // Failing is recorded, judging goes on
	FailNever
)

func PolicyFor(mods game.Mods) FailPolicy {
	if mods.Has(game.NoFail) {
		return FailNever
	}
	if mods.Has(game.KeepPlaying) {
		return FailAndContinue
	}
	return FailAndStop
}

// State is a score snapshot. It holds no references, so copies are
// independent and two states compare with ==.
type State struct {
	Score       uint64
	Combo       uint32
	MaxCombo    uint32
	Health      float64
	Counts      [game.TierCount]uint32
	TotalJudged uint32
	Accuracy    float64
	Failed      bool
}

func NewState() State {
	return State{Health: MaxHealth}
}

func (s State) Count(t game.Tier) uint32 {
	return s.Counts[t]
}

type Processor struct {
	Curve    Curve
	Health   HealthTable
	Accuracy AccuracyWeights
	Policy   FailPolicy
}

func NewProcessor(policy FailPolicy) *Processor {
	return &Processor{
		Curve:    DefaultCurve,
		Health:   DefaultHealth,
		Accuracy: DefaultAccuracy,
		Policy:   policy,
	}
}

// Halted reports whether judgements are no longer applied to s.
func (p *Processor) Halted(s State) bool {
	return s.Failed && p.Policy == FailAndStop
}

// Apply returns the state after judgement j. It has no side effects.
func (p *Processor) Apply(s State, j game.Judgement) State {
	if p.Halted(s) {
		return s
	}

	s.Score += p.Curve(j.Tier, s.Combo)

	switch {
	case j.Breaks():
		s.Combo = 0
	case j.Edge == game.Release && j.PressTier == game.Miss:
		// A missed head does not let the tail grow combo back
	default:
		s.Combo++
	}
	if s.Combo > s.MaxCombo {
		s.MaxCombo = s.Combo
	}

	s.Health += p.Health[j.Tier]
	if s.Health > MaxHealth {
		s.Health = MaxHealth
	} else if s.Health < 0 {
		s.Health = 0
	}
	if s.Health == 0 && p.Policy != FailNever {
		s.Failed = true
	}

	s.Counts[j.Tier]++
	s.TotalJudged++
	s.Accuracy = p.accuracy(s)
	return s
}

func (p *Processor) accuracy(s State) float64 {
	if s.TotalJudged == 0 {
		return 0
	}
	sum := 0.0
	for t, n := range s.Counts {
		sum += p.Accuracy[t] * float64(n)
	}
	return sum / float64(s.TotalJudged)
}
