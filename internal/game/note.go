package game

import "fmt"

type NoteState uint8

const (
	Upcoming NoteState = iota
	Active             // The press window has opened
	Held               // Hold head judged, waiting for the release
	Resolved
)

func (s NoteState) String() string {
	switch s {
	case Upcoming:
		return "upcoming"
	case Active:
		return "active"
	case Held:
		return "held"
	case Resolved:
		return "resolved"
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// Terminal reports whether no further judgement can target the note.
func (s NoteState) Terminal() bool {
	return s == Resolved
}

type Note struct {
	ID      int     // Position in the source chart
	Lane    int     // The chart column
	StartMs float64 // The time the note should be hit
	EndMs   float64 // The time a hold should be released, zero for taps
	IsHold  bool

	// This is state
	State     NoteState
	PressTier Tier // Tier of the press judgement, valid once Held or Resolved
}

func (n *Note) EdgeCount() int {
	if n.IsHold {
		return 2
	}
	return 1
}
