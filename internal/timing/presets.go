package timing

import (
	"fmt"
	"sort"

	"git.lost.host/meutraa/hitcore/internal/game"
)

const DefaultReleaseScale = 1.25

var (
	Standard = mustPreset("standard", []Window{
		{game.Marvelous, 18},
		{game.Perfect, 43},
		{game.Great, 76},
		{game.Good, 106},
		{game.Okay, 127},
		{game.Miss, 164},
	}, DefaultReleaseScale, game.Okay)

	Strict  = mustScaled(Standard, "strict", 0.75)
	Lenient = mustScaled(Standard, "lenient", 1.25)
)

var builtin = map[string]Preset{
	Standard.Name: Standard,
	Strict.Name:   Strict,
	Lenient.Name:  Lenient,
}

func mustScaled(p Preset, name string, s float64) Preset {
	scaled, err := p.Scaled(name, s)
	if nil != err {
		panic(err)
	}
	return scaled
}

func Lookup(name string) (Preset, error) {
	p, ok := builtin[name]
	if !ok {
		return Preset{}, fmt.Errorf("%w: no preset named %q", ErrPresetInvalid, name)
	}
	return p, nil
}

func Names() []string {
	names := make([]string, 0, len(builtin))
	for n := range builtin {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
