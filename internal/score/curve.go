package score

import (
	"fmt"

	"git.lost.host/meutraa/hitcore/internal/game"
)

// Curve returns the points a judgement of the given tier is worth at the
// combo held before it. A curve must not pay less for a better tier or for a
// higher combo.
type Curve func(tier game.Tier, combo uint32) uint64

// ComboCurve pays Base[tier] scaled by a combo bonus of StepBonus percent per
// ComboStep combo, capped at MaxBonus percent. Integer only, so scores are
// identical on every platform.
type ComboCurve struct {
	Base      [game.TierCount]uint64
	ComboStep uint32
	StepBonus uint64
	MaxBonus  uint64
}

var DefaultComboCurve = ComboCurve{
	Base: [game.TierCount]uint64{
		game.Marvelous: 320,
		game.Perfect:   300,
		game.Great:     200,
		game.Good:      100,
		game.Okay:      50,
		game.Miss:      0,
	},
	ComboStep: 10,
	StepBonus: 1,
	MaxBonus:  50,
}

func (c ComboCurve) Points(tier game.Tier, combo uint32) uint64 {
	bonus := uint64(0)
	if c.ComboStep > 0 {
		bonus = uint64(combo/c.ComboStep) * c.StepBonus
	}
	if bonus > c.MaxBonus {
		bonus = c.MaxBonus
	}
	return c.Base[tier] * (100 + bonus) / 100
}

func DefaultCurve(tier game.Tier, combo uint32) uint64 {
	return DefaultComboCurve.Points(tier, combo)
}

// CheckCurve probes both monotonicity rules up to maxCombo.
func CheckCurve(c Curve, maxCombo uint32) error {
	for combo := uint32(0); combo <= maxCombo; combo++ {
		for t := 1; t < game.TierCount; t++ {
			better, worse := c(game.Tier(t-1), combo), c(game.Tier(t), combo)
			if better < worse {
				return fmt.Errorf("%v pays %d, less than %v at %d at combo %d", game.Tier(t-1), better, game.Tier(t), worse, combo)
			}
		}
		if combo == 0 {
			continue
		}
		for _, t := range game.Tiers() {
			if now, before := c(t, combo), c(t, combo-1); now < before {
				return fmt.Errorf("%v pays %d at combo %d, less than %d at combo %d", t, now, combo, before, combo-1)
			}
		}
	}
	return nil
}
