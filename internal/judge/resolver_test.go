package judge

import (
	"testing"

	"git.lost.host/meutraa/hitcore/internal/chart"
	"git.lost.host/meutraa/hitcore/internal/game"
	"git.lost.host/meutraa/hitcore/internal/testdata"
	"git.lost.host/meutraa/hitcore/internal/timing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResolver(t *testing.T, notes ...game.NoteSpec) *Resolver {
	t.Helper()
	tl, err := chart.New(game.Chart{Lanes: 4, Notes: notes}, game.Mods{})
	require.NoError(t, err)
	return New(tl, timing.Standard)
}

func press(lane int, at float64) game.Edge {
	return game.Edge{Lane: lane, Kind: game.Press, SongTimeMs: at}
}

func release(lane int, at float64) game.Edge {
	return game.Edge{Lane: lane, Kind: game.Release, SongTimeMs: at}
}

func mustEdge(t *testing.T, r *Resolver, e game.Edge) (game.Judgement, bool) {
	t.Helper()
	j, ok, err := r.OnKeyEdge(e)
	require.NoError(t, err)
	return j, ok
}

func TestPressTiers(t *testing.T) {
	tests := []struct {
		at   float64
		tier game.Tier
	}{
		{1000, game.Marvelous},
		{1018, game.Marvelous},
		{982, game.Marvelous},
		{1038, game.Perfect},
		{1043, game.Perfect},
		{1043.5, game.Great},
		{900, game.Good},
		{1127, game.Okay},
		{850, game.Miss},
		{1164, game.Miss},
	}
	for _, test := range tests {
		r := newResolver(t, game.Tap(0, 1000))
		j, ok := mustEdge(t, r, press(0, test.at))
		require.True(t, ok, "press at %v", test.at)
		assert.Equal(t, test.tier, j.Tier, "press at %v", test.at)
		assert.Equal(t, test.at-1000, j.DeltaMs)
		assert.Equal(t, game.Press, j.Edge)
		assert.False(t, j.Auto)
		assert.Equal(t, game.Resolved, r.Timeline().Note(0).State)
		_, ok = r.Timeline().PeekHead(0)
		assert.False(t, ok)
	}
}

func TestPressOutsideWindowIsGhost(t *testing.T) {
	r := newResolver(t, game.Tap(0, 1000))
	for _, at := range []float64{835, 1164.1, 2000} {
		_, ok := mustEdge(t, r, press(0, at))
		assert.False(t, ok, "press at %v", at)
	}
	assert.Equal(t, game.Upcoming, r.Timeline().Note(0).State)
}

func TestLateNoteNotResurrected(t *testing.T) {
	r := newResolver(t, game.Tap(0, 1000))
	misses := r.Sweep(1200)
	require.Len(t, misses, 1)
	assert.Equal(t, game.Miss, misses[0].Tier)
	assert.True(t, misses[0].Auto)
	assert.Equal(t, 1164.0, misses[0].SongTimeMs)

	_, ok := mustEdge(t, r, press(0, 1100))
	assert.False(t, ok)
}

func TestGhostInputs(t *testing.T) {
	r := newResolver(t, game.Tap(0, 1000), game.Hold(1, 1000, 2000))

	_, ok := mustEdge(t, r, press(2, 1000))
	assert.False(t, ok, "empty lane")
	_, ok = mustEdge(t, r, release(0, 1000))
	assert.False(t, ok, "release on tap")
	_, ok = mustEdge(t, r, release(1, 1000))
	assert.False(t, ok, "release before press")

	_, ok = mustEdge(t, r, press(1, 1000))
	require.True(t, ok)
	_, ok = mustEdge(t, r, press(1, 1500))
	assert.False(t, ok, "press while held")
	assert.Equal(t, game.Held, r.Timeline().Note(1).State)
}

func TestLaneOutOfRange(t *testing.T) {
	r := newResolver(t, game.Tap(0, 1000))
	_, _, err := r.OnKeyEdge(press(4, 1000))
	assert.ErrorIs(t, err, ErrLaneOutOfRange)
	_, _, err = r.OnKeyEdge(press(-1, 1000))
	assert.ErrorIs(t, err, ErrLaneOutOfRange)
}

func TestHold(t *testing.T) {
	r := newResolver(t, game.Hold(1, 1000, 2000), game.Tap(1, 2500))

	j, ok := mustEdge(t, r, press(1, 1005))
	require.True(t, ok)
	assert.Equal(t, game.Marvelous, j.Tier)
	assert.Equal(t, game.Held, r.Timeline().Note(0).State)

	head, _ := r.Timeline().PeekHead(1)
	assert.Equal(t, 0, head.ID, "held hold keeps the lane")
	assert.Empty(t, r.Sweep(2100))

	j, ok = mustEdge(t, r, release(1, 2010))
	require.True(t, ok)
	assert.Equal(t, game.Marvelous, j.Tier)
	assert.Equal(t, game.Release, j.Edge)
	assert.Equal(t, game.Marvelous, j.PressTier)
	assert.Equal(t, 10.0, j.DeltaMs)
	assert.False(t, j.EarlyRelease)

	head, _ = r.Timeline().PeekHead(1)
	assert.Equal(t, 1, head.ID)
}

func TestHoldReleaseScaled(t *testing.T) {
	r := newResolver(t, game.Hold(0, 1000, 2000))
	mustEdge(t, r, press(0, 1000))
	// 43 < 50 would be Great on a press, release windows are 1.25x
	j, _ := mustEdge(t, r, release(0, 2050))
	assert.Equal(t, game.Perfect, j.Tier)
}

func TestEarlyRelease(t *testing.T) {
	r := newResolver(t, game.Hold(0, 1000, 2000))
	mustEdge(t, r, press(0, 1000))
	j, ok := mustEdge(t, r, release(0, 1300))
	require.True(t, ok)
	assert.Equal(t, game.Okay, j.Tier)
	assert.True(t, j.EarlyRelease)
	assert.True(t, j.Breaks())
	assert.Equal(t, game.Resolved, r.Timeline().Note(0).State)
}

func TestMissPressHoldStillHeld(t *testing.T) {
	r := newResolver(t, game.Hold(0, 1000, 2000))
	j, ok := mustEdge(t, r, press(0, 850))
	require.True(t, ok)
	assert.Equal(t, game.Miss, j.Tier)
	assert.Equal(t, game.Held, r.Timeline().Note(0).State)

	j, ok = mustEdge(t, r, release(0, 2000))
	require.True(t, ok)
	assert.Equal(t, game.Marvelous, j.Tier)
	assert.Equal(t, game.Miss, j.PressTier)
}

func TestSweepHeldPastEnd(t *testing.T) {
	r := newResolver(t, game.Hold(0, 1000, 2000))
	mustEdge(t, r, press(0, 1000))
	assert.Empty(t, r.Sweep(2000+127*1.25))

	js := r.Sweep(2200)
	require.Len(t, js, 1)
	assert.Equal(t, game.Miss, js[0].Tier)
	assert.Equal(t, game.Release, js[0].Edge)
	assert.Equal(t, game.Marvelous, js[0].PressTier)
	assert.True(t, js[0].Auto)
}

func TestSweepUnpressedHold(t *testing.T) {
	r := newResolver(t, game.Hold(0, 1000, 2000))
	js := r.Sweep(1165)
	require.Len(t, js, 2)
	assert.Equal(t, game.Press, js[0].Edge)
	assert.Equal(t, game.Release, js[1].Edge)
	for _, j := range js {
		assert.Equal(t, game.Miss, j.Tier)
		assert.Equal(t, 0, j.NoteID)
	}
	assert.Equal(t, 0, r.Pending())
}

func TestSweepOrder(t *testing.T) {
	r := newResolver(t,
		game.Tap(1, 1000),
		game.Tap(0, 1100),
		game.Tap(0, 1200),
		game.Tap(2, 1000),
		game.Tap(3, 5000),
	)
	js := r.Sweep(2000)
	ids := []int{}
	for _, j := range js {
		ids = append(ids, j.NoteID)
	}
	assert.Equal(t, []int{0, 3, 1, 2}, ids)
	assert.Equal(t, 1, r.Pending())
	assert.Equal(t, game.Upcoming, r.Timeline().Note(4).State)

	assert.Empty(t, r.Sweep(4836))
	assert.Equal(t, game.Active, r.Timeline().Note(4).State)
}

func TestSweepBoundary(t *testing.T) {
	r := newResolver(t, game.Tap(0, 1000))
	assert.Empty(t, r.Sweep(1164), "window still open at its radius")
	assert.Len(t, r.Sweep(1164.001), 1)
}

func TestSweepIndependentOfCadence(t *testing.T) {
	c, err := testdata.GetChart()
	require.NoError(t, err)

	run := func(step float64) []game.Judgement {
		tl, err := chart.New(*c, game.Mods{})
		require.NoError(t, err)
		r := New(tl, timing.Standard)
		var js []game.Judgement
		for now := 0.0; now < 7000; now += step {
			js = append(js, r.Sweep(now)...)
		}
		return append(js, r.Finish()...)
	}
	fine := run(1)
	assert.Len(t, fine, 20)
	assert.Equal(t, fine, run(333))
	assert.Equal(t, fine, run(10000))
}

func TestSeek(t *testing.T) {
	r := newResolver(t, game.Tap(0, 1000), game.Tap(1, 2000), game.Tap(2, 9000))
	js := r.Seek(5000)
	assert.Len(t, js, 2)
	assert.Equal(t, 5000.0, r.Swept())

	// Seeking does not judge the same notes again
	assert.Empty(t, r.Seek(6000))

	j, ok := mustEdge(t, r, press(2, 9000))
	require.True(t, ok)
	assert.Equal(t, game.Marvelous, j.Tier)
}

func TestFinish(t *testing.T) {
	r := newResolver(t, game.Tap(0, 1000), game.Hold(1, 2000, 3000))
	mustEdge(t, r, press(1, 2000))
	js := r.Finish()
	require.Len(t, js, 2)
	assert.Equal(t, 0, r.Pending())
	assert.Empty(t, r.Finish())
}
