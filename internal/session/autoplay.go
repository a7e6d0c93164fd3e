package session

import (
	"sort"

	"git.lost.host/meutraa/hitcore/internal/chart"
	"git.lost.host/meutraa/hitcore/internal/game"
)

// Autoplay returns edges that hit every note dead on, in time order. Taps
// are released 1ms after they are pressed.
func Autoplay(tl *chart.Timeline) []game.Edge {
	edges := []game.Edge{}
	for _, n := range tl.ByStart() {
		edges = append(edges, game.Edge{Lane: n.Lane, Kind: game.Press, SongTimeMs: n.StartMs})
		end := n.StartMs + 1
		if n.IsHold {
			end = n.EndMs
		}
		edges = append(edges, game.Edge{Lane: n.Lane, Kind: game.Release, SongTimeMs: end})
	}
	sort.SliceStable(edges, func(i, j int) bool {
		return edges[i].SongTimeMs < edges[j].SongTimeMs
	})
	return edges
}
