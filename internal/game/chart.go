package game

import (
	"crypto/sha256"
	"encoding/base64"
	"strconv"
	"strings"
)

// NoteSpec is a chart note as handed over by the chart loader. A nil EndMs
// is a tap note.
type NoteSpec struct {
	Lane    int      `json:"lane" yaml:"lane"`
	StartMs float64  `json:"start" yaml:"start"`
	EndMs   *float64 `json:"end,omitempty" yaml:"end,omitempty"`
}

type Chart struct {
	Lanes int        `json:"lanes" yaml:"lanes"`
	Notes []NoteSpec `json:"notes" yaml:"notes"`
}

func Tap(lane int, start float64) NoteSpec {
	return NoteSpec{Lane: lane, StartMs: start}
}

func Hold(lane int, start, end float64) NoteSpec {
	return NoteSpec{Lane: lane, StartMs: start, EndMs: &end}
}

func (c *Chart) HoldCount() int {
	n := 0
	for _, note := range c.Notes {
		if note.EndMs != nil {
			n++
		}
	}
	return n
}

// Identity hashes the lane count and every note so a replay can be matched
// back to the chart it was recorded against.
func (c *Chart) Identity() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(c.Lanes))
	for _, n := range c.Notes {
		b.WriteByte(';')
		b.WriteString(strconv.Itoa(n.Lane))
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(n.StartMs, 'g', -1, 64))
		if n.EndMs != nil {
			b.WriteByte(',')
			b.WriteString(strconv.FormatFloat(*n.EndMs, 'g', -1, 64))
		}
	}
	sum := sha256.Sum256([]byte(b.String()))
	return base64.StdEncoding.EncodeToString(sum[:])
}
