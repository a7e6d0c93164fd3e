// Package clock turns a time source into song time in milliseconds, the
// only notion of time the session understands.
package clock

import (
	"errors"
	"time"

	"github.com/faiface/beep"
)

var ErrRate = errors.New("rate must be positive")

// Source is anything the play loop can read song time from.
type Source interface {
	Now() float64
}

// Clock follows a wall source. Song time advances by elapsed wall time
// multiplied by the rate, and only moves backward through Seek.
type Clock struct {
	wall    func() time.Time
	anchor  time.Time
	offset  float64
	rate    float64
	running bool
}

// New returns a stopped clock at song time 0. A nil wall uses time.Now.
func New(wall func() time.Time) *Clock {
	if nil == wall {
		wall = time.Now
	}
	return &Clock{wall: wall, rate: 1}
}

func (c *Clock) Start() {
	c.Resume()
}

func (c *Clock) Running() bool {
	return c.running
}

func (c *Clock) Rate() float64 {
	return c.rate
}

func (c *Clock) Now() float64 {
	if !c.running {
		return c.offset
	}
	elapsed := c.wall().Sub(c.anchor)
	return c.offset + float64(elapsed)/float64(time.Millisecond)*c.rate
}

func (c *Clock) Seek(songTimeMs float64) {
	c.offset = songTimeMs
	c.anchor = c.wall()
}

func (c *Clock) Pause() {
	if !c.running {
		return
	}
	c.offset = c.Now()
	c.running = false
}

func (c *Clock) Resume() {
	if c.running {
		return
	}
	c.anchor = c.wall()
	c.running = true
}

func (c *Clock) SetRate(rate float64) error {
	if rate <= 0 {
		return ErrRate
	}
	c.offset = c.Now()
	c.anchor = c.wall()
	c.rate = rate
	return nil
}

// StreamClock reads song time from the position of the audio stream being
// played, so judgement follows what is heard. Wrap the decoded source and
// not a resampled one, the position is then in song samples at any rate.
type StreamClock struct {
	stream       beep.StreamSeeker
	format       beep.Format
	offset       time.Duration
	lock, unlock func()
}

func NewStreamClock(s beep.StreamSeeker, f beep.Format, offset time.Duration) *StreamClock {
	nop := func() {}
	return &StreamClock{stream: s, format: f, offset: offset, lock: nop, unlock: nop}
}

// Guard sets the functions that serialise access to the stream while it is
// being played, speaker.Lock and speaker.Unlock.
func (c *StreamClock) Guard(lock, unlock func()) {
	c.lock, c.unlock = lock, unlock
}

func (c *StreamClock) Now() float64 {
	c.lock()
	pos := c.stream.Position()
	c.unlock()
	d := c.format.SampleRate.D(pos) + c.offset
	return float64(d) / float64(time.Millisecond)
}

// Seek moves the stream to songTimeMs, clamped to the stream bounds.
func (c *StreamClock) Seek(songTimeMs float64) error {
	d := time.Duration(songTimeMs*float64(time.Millisecond)) - c.offset
	n := c.format.SampleRate.N(d)
	if n < 0 {
		n = 0
	}
	if l := c.stream.Len(); n > l {
		n = l
	}
	c.lock()
	defer c.unlock()
	return c.stream.Seek(n)
}
