package replay

import (
	"math"
	"testing"

	"git.lost.host/meutraa/hitcore/internal/game"
	"git.lost.host/meutraa/hitcore/internal/timing"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func header() Header {
	return Header{
		ID:          uuid.New(),
		MapIdentity: "map",
		Preset:      timing.Standard,
		PlayerName:  "player",
	}
}

func TestRecorder(t *testing.T) {
	r := NewRecorder(header())
	require.NoError(t, r.RecordSeek(500))
	require.NoError(t, r.RecordEdge(game.Edge{Lane: 1, Kind: game.Press, SongTimeMs: 1000}))
	require.NoError(t, r.RecordEdge(game.Edge{Lane: 2, Kind: game.Press, SongTimeMs: 1000}))
	require.NoError(t, r.RecordEdge(game.Edge{Lane: 1, Kind: game.Release, SongTimeMs: 1100}))

	err := r.RecordEdge(game.Edge{Lane: 1, Kind: game.Press, SongTimeMs: 1099})
	assert.ErrorIs(t, err, ErrOutOfOrder)
	assert.ErrorIs(t, r.RecordSeek(math.NaN()), ErrOutOfOrder)
	assert.Equal(t, 4, r.Len())

	replay, err := r.Seal()
	require.NoError(t, err)
	assert.True(t, r.Sealed())
	assert.Equal(t, []Frame{
		{SongTimeMs: 500, Kind: FrameSeek},
		{SongTimeMs: 1000, Lane: 1, Kind: FramePress},
		{SongTimeMs: 1000, Lane: 2, Kind: FramePress},
		{SongTimeMs: 1100, Lane: 1, Kind: FrameRelease},
	}, replay.Frames())

	assert.ErrorIs(t, r.RecordSeek(2000), ErrSealed)
	_, err = r.Seal()
	assert.ErrorIs(t, err, ErrSealed)
}

func TestReplayImmutable(t *testing.T) {
	frames := []Frame{{SongTimeMs: 10, Kind: FramePress}}
	replay := New(header(), frames)
	frames[0].SongTimeMs = 99

	out := replay.Frames()
	out[0].Lane = 3
	assert.Equal(t, Frame{SongTimeMs: 10, Kind: FramePress}, replay.Frame(0))
}

func TestValidate(t *testing.T) {
	ok := New(header(), []Frame{
		{SongTimeMs: 0, Kind: FrameSeek, Lane: 99},
		{SongTimeMs: 10, Lane: 3, Kind: FramePress},
		{SongTimeMs: 10, Lane: 3, Kind: FrameRelease},
	})
	assert.NoError(t, ok.Validate(4))
	assert.ErrorIs(t, ok.Validate(3), ErrReplayCorrupt)

	tests := map[string][]Frame{
		"order":    {{SongTimeMs: 10}, {SongTimeMs: 5}},
		"negative": {{SongTimeMs: 10, Lane: -1}},
		"nan":      {{SongTimeMs: math.NaN()}},
		"inf":      {{SongTimeMs: math.Inf(1)}},
		"kind":     {{SongTimeMs: 10, Kind: 7}},
	}
	for name, frames := range tests {
		assert.ErrorIs(t, New(header(), frames).Validate(4), ErrReplayCorrupt, name)
	}
}

func TestFrameEdge(t *testing.T) {
	e := game.Edge{Lane: 2, Kind: game.Release, SongTimeMs: 12.5}
	back, ok := EdgeFrame(e).Edge()
	require.True(t, ok)
	assert.Equal(t, e, back)

	_, ok = Frame{Kind: FrameSeek}.Edge()
	assert.False(t, ok)
}

func TestHeaderPreset(t *testing.T) {
	h := header()
	p, err := h.TimingPreset()
	require.NoError(t, err)
	assert.Equal(t, timing.Standard.ReleaseRadius(), p.ReleaseRadius())

	h.Preset = timing.Preset{Name: "broken"}
	_, err = h.TimingPreset()
	assert.ErrorIs(t, err, timing.ErrPresetInvalid)
}
