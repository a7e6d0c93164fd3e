// Package input maps terminal key events to lane edges.
package input

import (
	"errors"
	"fmt"
	"log"

	"git.lost.host/meutraa/hitcore/internal/game"
	"github.com/eiannone/keyboard"
)

var ErrBindings = errors.New("invalid key bindings")

// Bindings maps a key to the lane it plays.
type Bindings map[rune]int

func NewBindings(keys []rune) (Bindings, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: no keys", ErrBindings)
	}
	b := make(Bindings, len(keys))
	for i, k := range keys {
		if _, ok := b[k]; ok {
			return nil, fmt.Errorf("%w: %q bound twice", ErrBindings, k)
		}
		b[k] = i
	}
	return b, nil
}

func (b Bindings) Lanes() int {
	return len(b)
}

func (b Bindings) Lane(r rune) (int, bool) {
	l, ok := b[r]
	return l, ok
}

func keyRune(ev keyboard.KeyEvent) rune {
	if ev.Key == keyboard.KeySpace {
		return ' '
	}
	return ev.Rune
}

// FromKey turns a key event at songMs into edges. A terminal only reports
// key presses, so a bound key is a press and a release at the same instant.
func FromKey(ev keyboard.KeyEvent, b Bindings, songMs float64) ([]game.Edge, bool) {
	lane, ok := b.Lane(keyRune(ev))
	if !ok {
		return nil, false
	}
	return []game.Edge{
		{Lane: lane, Kind: game.Press, SongTimeMs: songMs},
		{Lane: lane, Kind: game.Release, SongTimeMs: songMs},
	}, true
}

// Drain takes every event already waiting on events without blocking. quit
// is set when escape was pressed or the channel closed.
func Drain(events <-chan keyboard.KeyEvent, b Bindings, songMs float64) (edges []game.Edge, quit bool) {
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return edges, true
			}
			if nil != ev.Err {
				log.Println(ev.Err, "unable to read keyboard input")
				continue
			}
			if ev.Key == keyboard.KeyEsc || ev.Key == keyboard.KeyCtrlC {
				return edges, true
			}
			if e, ok := FromKey(ev, b, songMs); ok {
				edges = append(edges, e...)
			}
		default:
			return edges, false
		}
	}
}
