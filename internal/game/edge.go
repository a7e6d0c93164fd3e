package game

import "fmt"

type EdgeKind uint8

const (
	Press EdgeKind = iota
	Release
)

func (k EdgeKind) String() string {
	switch k {
	case Press:
		return "press"
	case Release:
		return "release"
	}
	return fmt.Sprintf("edge(%d)", uint8(k))
}

// Edge is a single debounced key transition on a lane.
type Edge struct {
	Lane       int
	Kind       EdgeKind
	SongTimeMs float64
}
