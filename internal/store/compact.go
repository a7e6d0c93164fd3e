package store

import (
	"sort"

	"git.lost.host/meutraa/hitcore/internal/replay"
)

// Stamp places a frame in the log, N is its index.
type Stamp struct {
	N int     `json:"n"`
	T float64 `json:"t"`
}

type InputsCompact struct {
	Index   int     `json:"i"`
	Press   []Stamp `json:"p"`
	Release []Stamp `json:"r"`
}

type framesCompact struct {
	Lanes []InputsCompact `json:"lanes"`
	Seeks []Stamp         `json:"seeks,omitempty"`
}

func compactFrames(frames []replay.Frame) framesCompact {
	colCount := 0
	for _, f := range frames {
		if f.Kind != replay.FrameSeek && f.Lane >= colCount {
			colCount = f.Lane + 1
		}
	}
	fc := framesCompact{Lanes: make([]InputsCompact, colCount)}
	for i := range fc.Lanes {
		fc.Lanes[i] = InputsCompact{Index: i, Press: []Stamp{}, Release: []Stamp{}}
	}
	for n, f := range frames {
		s := Stamp{N: n, T: f.SongTimeMs}
		switch f.Kind {
		case replay.FramePress:
			fc.Lanes[f.Lane].Press = append(fc.Lanes[f.Lane].Press, s)
		case replay.FrameRelease:
			fc.Lanes[f.Lane].Release = append(fc.Lanes[f.Lane].Release, s)
		case replay.FrameSeek:
			fc.Seeks = append(fc.Seeks, s)
		}
	}
	return fc
}

func uncompactFrames(fc framesCompact) []replay.Frame {
	type indexed struct {
		n int
		f replay.Frame
	}
	all := []indexed{}
	for _, l := range fc.Lanes {
		for _, s := range l.Press {
			all = append(all, indexed{s.N, replay.Frame{SongTimeMs: s.T, Lane: l.Index, Kind: replay.FramePress}})
		}
		for _, s := range l.Release {
			all = append(all, indexed{s.N, replay.Frame{SongTimeMs: s.T, Lane: l.Index, Kind: replay.FrameRelease}})
		}
	}
	for _, s := range fc.Seeks {
		all = append(all, indexed{s.N, replay.Frame{SongTimeMs: s.T, Kind: replay.FrameSeek}})
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].n < all[j].n
	})
	frames := make([]replay.Frame, len(all))
	for i, x := range all {
		frames[i] = x.f
	}
	return frames
}
