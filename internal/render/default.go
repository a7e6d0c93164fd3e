// Package render owns the terminal during a play and paces the judgement
// loop.
package render

import (
	"io"
	"os"
	"strings"
	"time"

	"git.lost.host/meutraa/hitcore/internal/clock"
	"golang.org/x/term"
)

type DefaultRenderer struct {
	out          io.Writer
	buffer       strings.Builder
	restoreState *term.State
	fd           int

	wall  func() time.Time
	sleep func(time.Duration)
}

func New(out io.Writer) *DefaultRenderer {
	fd := -1
	if f, ok := out.(*os.File); ok {
		fd = int(f.Fd())
	}
	return &DefaultRenderer{out: out, fd: fd, wall: time.Now, sleep: time.Sleep}
}

// IsTerminal reports whether output goes to a terminal.
func (r *DefaultRenderer) IsTerminal() bool {
	return r.fd >= 0 && term.IsTerminal(r.fd)
}

// Init puts a terminal in raw mode so keys arrive unbuffered and hides the
// cursor. Other writers are left alone.
func (r *DefaultRenderer) Init() error {
	if !r.IsTerminal() {
		return nil
	}
	state, err := term.MakeRaw(r.fd)
	if nil != err {
		return err
	}
	r.restoreState = state
	r.buffer.WriteString("\033[?25l") // Make the cursor invisible
	r.flush()
	return nil
}

func (r *DefaultRenderer) Deinit() error {
	if nil == r.restoreState {
		return nil
	}
	r.buffer.WriteString("\033[?25h") // Make the cursor visible
	r.flush()
	state := r.restoreState
	r.restoreState = nil
	return term.Restore(r.fd, state)
}

// Println queues a line, written at the end of the current frame. Raw mode
// needs the carriage return.
func (r *DefaultRenderer) Println(message string) {
	r.buffer.WriteString(strings.ReplaceAll(message, "\n", "\r\n"))
	r.buffer.WriteString("\r\n")
}

// RenderLoop calls render once per frame period with the song time read
// from src, until render returns false.
func (r *DefaultRenderer) RenderLoop(
	period time.Duration,
	src clock.Source,
	render func(songTimeMs float64) bool,
) {
	cont := true
	for cont {
		now := r.wall()
		deadline := now.Add(period)

		cont = render(src.Now())
		r.flush()

		if remaining := deadline.Sub(r.wall()); remaining > 0 {
			r.sleep(remaining)
		}
	}
}

func (r *DefaultRenderer) Flush() {
	r.flush()
}

func (r *DefaultRenderer) flush() {
	if r.buffer.Len() == 0 {
		return
	}
	io.WriteString(r.out, r.buffer.String())
	r.buffer.Reset()
}
