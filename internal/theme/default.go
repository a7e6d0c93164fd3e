// Package theme formats judgements and results for the terminal.
package theme

import (
	"fmt"

	"git.lost.host/meutraa/hitcore/internal/game"
	"git.lost.host/meutraa/hitcore/internal/score"
)

type Theme interface {
	Tier(t game.Tier) string
	Judgement(j game.Judgement) string
	Result(s score.State) string
}

// DefaultTheme colours tiers with ANSI escapes when Color is set.
type DefaultTheme struct {
	Color bool
}

var tierColors = [game.TierCount]string{
	game.Marvelous: "\033[38;5;153m",
	game.Perfect:   "\033[1;33m",
	game.Great:     "\033[1;36m",
	game.Good:      "\033[1;32m",
	game.Okay:      "\033[38;5;208m",
	game.Miss:      "\033[1;31m",
}

func (t *DefaultTheme) Tier(tier game.Tier) string {
	name := fmt.Sprintf("%9v", tier)
	if !t.Color || !tier.Valid() {
		return name
	}
	return tierColors[tier] + name + "\033[0m"
}

func (t *DefaultTheme) Judgement(j game.Judgement) string {
	var detail string
	switch {
	case j.Auto:
		detail = "   missed"
	case j.EarlyRelease:
		detail = "    early"
	default:
		detail = fmt.Sprintf("%+7.1fms", j.DeltaMs)
	}
	return fmt.Sprintf("%9.0f  %v  %v  lane %d %v", j.SongTimeMs, t.Tier(j.Tier), detail, j.Lane, j.Edge)
}

func (t *DefaultTheme) Result(s score.State) string {
	status := ""
	if s.Failed {
		status = "  failed"
	}
	line := fmt.Sprintf("   Score: %9d  Grade: %v%s\nAccuracy: %8.2f%%  Max combo: %d\n", s.Score, score.GradeOf(s), status, s.Accuracy, s.MaxCombo)
	for _, tier := range game.Tiers() {
		line += fmt.Sprintf("%v: %6d\n", t.Tier(tier), s.Count(tier))
	}
	return line
}
