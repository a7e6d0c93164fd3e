package store

import (
	"testing"

	"git.lost.host/meutraa/hitcore/internal/replay"
)

var press, release, seek = replay.FramePress, replay.FrameRelease, replay.FrameSeek

var compactTests = []struct {
	frames   []replay.Frame
	expected framesCompact
}{
	{[]replay.Frame{}, framesCompact{Lanes: []InputsCompact{}}},
	{
		[]replay.Frame{{SongTimeMs: 100, Lane: 0, Kind: press}, {SongTimeMs: 200, Lane: 3, Kind: press}},
		framesCompact{Lanes: []InputsCompact{
			{Index: 0, Press: []Stamp{{0, 100}}, Release: []Stamp{}},
			{Index: 1, Press: []Stamp{}, Release: []Stamp{}},
			{Index: 2, Press: []Stamp{}, Release: []Stamp{}},
			{Index: 3, Press: []Stamp{{1, 200}}, Release: []Stamp{}},
		}},
	},
	{
		[]replay.Frame{{SongTimeMs: 1, Lane: 1, Kind: press}, {SongTimeMs: 2, Lane: 1, Kind: release}, {SongTimeMs: 500, Lane: 0, Kind: seek}, {SongTimeMs: 501, Lane: 1, Kind: press}},
		framesCompact{
			Lanes: []InputsCompact{
				{Index: 0, Press: []Stamp{}, Release: []Stamp{}},
				{Index: 1, Press: []Stamp{{0, 1}, {3, 501}}, Release: []Stamp{{1, 2}}},
			},
			Seeks: []Stamp{{2, 500}},
		},
	},
}

func TestCompactFrames(t *testing.T) {
	equalStamps := func(p, q []Stamp) bool {
		if len(p) != len(q) {
			return false
		}
		for i := range p {
			if p[i] != q[i] {
				return false
			}
		}
		return true
	}
	equal := func(p, q framesCompact) bool {
		if len(p.Lanes) != len(q.Lanes) || !equalStamps(p.Seeks, q.Seeks) {
			return false
		}
		for i := 0; i < len(p.Lanes); i++ {
			pi, qi := p.Lanes[i], q.Lanes[i]
			if pi.Index != qi.Index {
				return false
			}
			if !equalStamps(pi.Press, qi.Press) || !equalStamps(pi.Release, qi.Release) {
				return false
			}
		}
		return true
	}

	for _, test := range compactTests {
		out := compactFrames(test.frames)
		if !equal(out, test.expected) {
			t.Log("out     ", out)
			t.Log("expected", test.expected)
			t.Fail()
		}
	}
}

func TestUncompactFrames(t *testing.T) {
	for _, test := range compactTests {
		out := uncompactFrames(test.expected)
		if len(out) != len(test.frames) {
			t.Log("out     ", out)
			t.Log("expected", test.frames)
			t.Fail()
			continue
		}
		for i := range out {
			if out[i] != test.frames[i] {
				t.Log("frame", i, "out", out[i], "expected", test.frames[i])
				t.Fail()
			}
		}
	}
}
