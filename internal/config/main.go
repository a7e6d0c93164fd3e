// Package config holds command line flags and the session file format.
package config

import (
	"time"

	"gopkg.in/alecthomas/kingpin.v2"
)

type Flags struct {
	Database    *string
	Player      *string
	Rate        *float64
	Offset      *time.Duration
	Delay       *time.Duration
	FramePeriod *time.Duration
	Audio       *string
	keys4       *string
	keys6       *string
	keys8       *string
}

func Register(app *kingpin.Application) *Flags {
	return &Flags{
		Database:    app.Flag("database", "Replay history database").Default("history.db").Short('D').String(),
		Player:      app.Flag("player", "Player name, overrides the session file").Short('P').String(),
		Rate:        app.Flag("rate", "Playback rate, 0 keeps the session file's").Default("0").Short('r').Float64(),
		Offset:      app.Flag("offset", "Global offset").Default("0ms").Short('o').Duration(),
		Delay:       app.Flag("delay", "Start delay").Default("1.5s").Short('d').Duration(),
		FramePeriod: app.Flag("frame-period", "Judgement loop period").Default("1ms").Short('p').Duration(),
		Audio:       app.Flag("audio", "Song audio file (.mp3 or .wav), drives the clock").Short('a').ExistingFile(),
		keys4:       app.Flag("keys-single", "Keys for 4k").Default("_-mp").Short('k').String(),
		keys6:       app.Flag("keys-solo", "Keys for 6k").Default("ieotsc").String(),
		keys8:       app.Flag("keys-double", "Keys for 8k").Default("ieonhtsc").String(),
	}
}

func (f *Flags) Keys(nKeys int) []rune {
	switch nKeys {
	case 4:
		return []rune(*f.keys4)
	case 6:
		return []rune(*f.keys6)
	case 8:
		return []rune(*f.keys8)
	}
	return []rune(*f.keys4)
}
