package theme

import (
	"strings"
	"testing"

	"git.lost.host/meutraa/hitcore/internal/game"
	"git.lost.host/meutraa/hitcore/internal/score"
)

func TestTier(t *testing.T) {
	plain := &DefaultTheme{}
	if s := plain.Tier(game.Great); s != "    Great" {
		t.Log("plain", s)
		t.Fail()
	}
	color := &DefaultTheme{Color: true}
	if s := color.Tier(game.Miss); s != "\033[1;31m     Miss\033[0m" {
		t.Log("color", s)
		t.Fail()
	}
}

func TestJudgement(t *testing.T) {
	th := &DefaultTheme{}
	tests := map[string]game.Judgement{
		"+12.0ms": {Tier: game.Marvelous, DeltaMs: 12, Lane: 1, SongTimeMs: 1012},
		"missed":  {Tier: game.Miss, Auto: true, Lane: 2, SongTimeMs: 1164},
		"early":   {Tier: game.Okay, EarlyRelease: true, Edge: game.Release, SongTimeMs: 2000},
		"-40.5ms": {Tier: game.Perfect, DeltaMs: -40.5, SongTimeMs: 959.5},
	}
	for want, j := range tests {
		s := th.Judgement(j)
		if !strings.Contains(s, want) || !strings.Contains(s, j.Tier.String()) {
			t.Log(want, "not in", s)
			t.Fail()
		}
	}
}

func TestResult(t *testing.T) {
	th := &DefaultTheme{}
	s := score.NewState()
	s.Failed = true
	out := th.Result(s)
	for _, want := range []string{"Grade: F", "failed", "Marvelous", "Miss"} {
		if !strings.Contains(out, want) {
			t.Log(want, "not in", out)
			t.Fail()
		}
	}
}
