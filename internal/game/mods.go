package game

import (
	"fmt"
	"strings"
)

type Mod uint16

const (
	NoFail      Mod = 1 << iota // Health never fails the play
	KeepPlaying                 // Failing marks the score but does not stop the play
	Mirror                      // Lanes are flipped left to right
	HardRock                    // Press windows tightened
	Easy                        // Press windows widened
)

var modNames = []struct {
	mod  Mod
	name string
}{
	{NoFail, "nf"},
	{KeepPlaying, "kp"},
	{Mirror, "mr"},
	{HardRock, "hr"},
	{Easy, "ez"},
}

type Mods struct {
	Flags Mod     `json:"flags"`
	Rate  float64 `json:"rate"` // Playback rate, only affects the clock
}

func (m Mods) Has(mod Mod) bool {
	return m.Flags&mod != 0
}

func (m Mods) String() string {
	names := []string{}
	for _, mn := range modNames {
		if m.Has(mn.mod) {
			names = append(names, mn.name)
		}
	}
	if m.Rate != 0 && m.Rate != 1 {
		names = append(names, fmt.Sprintf("%gx", m.Rate))
	}
	if len(names) == 0 {
		return "nm"
	}
	return strings.Join(names, ",")
}

func ParseMod(name string) (Mod, error) {
	for _, mn := range modNames {
		if strings.EqualFold(mn.name, name) {
			return mn.mod, nil
		}
	}
	return 0, fmt.Errorf("unknown mod %q", name)
}
