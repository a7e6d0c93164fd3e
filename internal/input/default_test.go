package input

import (
	"errors"
	"testing"

	"git.lost.host/meutraa/hitcore/internal/game"
	"github.com/eiannone/keyboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBindings(t *testing.T) {
	b, err := NewBindings([]rune(" -mp"))
	require.NoError(t, err)
	assert.Equal(t, 4, b.Lanes())
	l, ok := b.Lane('m')
	assert.True(t, ok)
	assert.Equal(t, 2, l)

	_, err = NewBindings([]rune("aba"))
	assert.ErrorIs(t, err, ErrBindings)
	_, err = NewBindings(nil)
	assert.ErrorIs(t, err, ErrBindings)
}

func TestFromKey(t *testing.T) {
	b, err := NewBindings([]rune(" -mp"))
	require.NoError(t, err)

	edges, ok := FromKey(keyboard.KeyEvent{Key: keyboard.KeySpace}, b, 1234)
	require.True(t, ok)
	assert.Equal(t, []game.Edge{
		{Lane: 0, Kind: game.Press, SongTimeMs: 1234},
		{Lane: 0, Kind: game.Release, SongTimeMs: 1234},
	}, edges)

	edges, ok = FromKey(keyboard.KeyEvent{Rune: 'p'}, b, 10)
	require.True(t, ok)
	assert.Equal(t, 3, edges[0].Lane)

	_, ok = FromKey(keyboard.KeyEvent{Rune: 'x'}, b, 10)
	assert.False(t, ok)
}

func TestDrain(t *testing.T) {
	b, err := NewBindings([]rune("dfjk"))
	require.NoError(t, err)

	events := make(chan keyboard.KeyEvent, 8)
	events <- keyboard.KeyEvent{Rune: 'd'}
	events <- keyboard.KeyEvent{Rune: 'q'}
	events <- keyboard.KeyEvent{Err: errors.New("eof")}
	events <- keyboard.KeyEvent{Rune: 'k'}
	edges, quit := Drain(events, b, 500)
	assert.False(t, quit)
	require.Len(t, edges, 4)
	assert.Equal(t, 0, edges[0].Lane)
	assert.Equal(t, 3, edges[2].Lane)

	edges, quit = Drain(events, b, 600)
	assert.False(t, quit)
	assert.Empty(t, edges)

	events <- keyboard.KeyEvent{Rune: 'f'}
	events <- keyboard.KeyEvent{Key: keyboard.KeyEsc}
	events <- keyboard.KeyEvent{Rune: 'j'}
	edges, quit = Drain(events, b, 700)
	assert.True(t, quit)
	assert.Len(t, edges, 2)

	close(events)
	edges, quit = Drain(events, b, 800)
	assert.True(t, quit)
	assert.Len(t, edges, 2)
}
