// Package live runs the phase engine against real MIDI ports
package live

import (
	"time"
)

// DefaultBPM is used when no usable tempo is given
const DefaultBPM = 120.0

// Clock maps wall time to beat positions at a fixed tempo
type Clock struct {
	bpm   float64
	start time.Time
	now   func() time.Time
}

// NewClock starts a clock at beat 0. A non-positive bpm uses DefaultBPM.
func NewClock(bpm float64) *Clock {
	if bpm <= 0 {
		bpm = DefaultBPM
	}
	return &Clock{bpm: bpm, start: time.Now(), now: time.Now}
}

func (c *Clock) BPM() float64 { return c.bpm }

// Now is the current beat position
func (c *Clock) Now() float64 {
	return c.now().Sub(c.start).Seconds() * c.bpm / 60
}

// Until is the wall time left before beat; negative once it has passed
func (c *Clock) Until(beat float64) time.Duration {
	at := c.start.Add(time.Duration(beat * float64(time.Minute) / c.bpm))
	return at.Sub(c.now())
}
