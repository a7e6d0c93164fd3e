// Package chart turns a parsed chart into per-lane note sequences with a
// cursor on the earliest note that can still be judged.
package chart

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"git.lost.host/meutraa/hitcore/internal/game"
)

var ErrChartInvalid = errors.New("chart invalid")

type lane struct {
	notes  []*game.Note
	cursor int
}

type Timeline struct {
	notes []*game.Note // Chart order, indexed by note ID
	lanes []lane
	edges int
}

// New validates the chart and freezes its notes in the Upcoming state.
// Mirror flips lanes, every other mod is ignored here.
func New(c game.Chart, mods game.Mods) (*Timeline, error) {
	if c.Lanes < 1 {
		return nil, fmt.Errorf("%w: %d lanes", ErrChartInvalid, c.Lanes)
	}
	if len(c.Notes) == 0 {
		return nil, fmt.Errorf("%w: no notes", ErrChartInvalid)
	}

	t := &Timeline{
		notes: make([]*game.Note, len(c.Notes)),
		lanes: make([]lane, c.Lanes),
	}
	for i, ns := range c.Notes {
		if ns.Lane < 0 || ns.Lane >= c.Lanes {
			return nil, fmt.Errorf("%w: note %d in lane %d of %d", ErrChartInvalid, i, ns.Lane, c.Lanes)
		}
		if !finite(ns.StartMs) {
			return nil, fmt.Errorf("%w: note %d starts at %v", ErrChartInvalid, i, ns.StartMs)
		}
		note := &game.Note{ID: i, Lane: ns.Lane, StartMs: ns.StartMs}
		if ns.EndMs != nil {
			if !finite(*ns.EndMs) || *ns.EndMs <= ns.StartMs {
				return nil, fmt.Errorf("%w: hold %d ends at %v, starts at %v", ErrChartInvalid, i, *ns.EndMs, ns.StartMs)
			}
			note.IsHold = true
			note.EndMs = *ns.EndMs
		}
		if mods.Has(game.Mirror) {
			note.Lane = c.Lanes - 1 - note.Lane
		}
		t.notes[i] = note
		t.edges += note.EdgeCount()
		l := &t.lanes[note.Lane]
		l.notes = append(l.notes, note)
	}

	for li, l := range t.lanes {
		for i := 1; i < len(l.notes); i++ {
			prev, note := l.notes[i-1], l.notes[i]
			if note.StartMs <= prev.StartMs {
				return nil, fmt.Errorf("%w: lane %d: note %d at %v not after note %d at %v", ErrChartInvalid, li, note.ID, note.StartMs, prev.ID, prev.StartMs)
			}
			if prev.IsHold && note.StartMs <= prev.EndMs {
				return nil, fmt.Errorf("%w: lane %d: note %d at %v overlaps hold %d ending at %v", ErrChartInvalid, li, note.ID, note.StartMs, prev.ID, prev.EndMs)
			}
		}
	}
	return t, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (t *Timeline) Lanes() int {
	return len(t.lanes)
}

func (t *Timeline) InRange(l int) bool {
	return l >= 0 && l < len(t.lanes)
}

// EdgeCount is the number of judgements a fully judged chart produces.
func (t *Timeline) EdgeCount() int {
	return t.edges
}

// Note returns the note with the given chart index.
func (t *Timeline) Note(id int) *game.Note {
	return t.notes[id]
}

func (t *Timeline) Notes() []*game.Note {
	return t.notes
}

// PeekHead returns the earliest note in the lane that is not resolved.
func (t *Timeline) PeekHead(l int) (*game.Note, bool) {
	ln := &t.lanes[l]
	if ln.cursor >= len(ln.notes) {
		return nil, false
	}
	return ln.notes[ln.cursor], true
}

// AdvanceHead moves the lane cursor past a resolved head.
func (t *Timeline) AdvanceHead(l int) {
	ln := &t.lanes[l]
	if ln.cursor >= len(ln.notes) {
		panic(fmt.Sprintf("chart: advance past end of lane %d", l))
	}
	if head := ln.notes[ln.cursor]; !head.State.Terminal() {
		panic(fmt.Sprintf("chart: advance lane %d over %v note %d", l, head.State, head.ID))
	}
	ln.cursor++
}

// Remaining counts notes not yet resolved.
func (t *Timeline) Remaining() int {
	n := 0
	for _, l := range t.lanes {
		n += len(l.notes) - l.cursor
	}
	return n
}

func (t *Timeline) Exhausted() bool {
	for _, l := range t.lanes {
		if l.cursor < len(l.notes) {
			return false
		}
	}
	return true
}

// LastTime is the latest start or end time in the chart.
func (t *Timeline) LastTime() float64 {
	last := math.Inf(-1)
	for _, n := range t.notes {
		last = math.Max(last, n.StartMs)
		if n.IsHold {
			last = math.Max(last, n.EndMs)
		}
	}
	return last
}

// ByStart returns every note ordered by start time, lane breaking ties.
func (t *Timeline) ByStart() []*game.Note {
	ns := make([]*game.Note, len(t.notes))
	copy(ns, t.notes)
	sort.SliceStable(ns, func(i, j int) bool {
		if ns[i].StartMs != ns[j].StartMs {
			return ns[i].StartMs < ns[j].StartMs
		}
		return ns[i].Lane < ns[j].Lane
	})
	return ns
}
