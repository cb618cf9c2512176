package live

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/james-see/phaseseq/pkg/phase"
	"gitlab.com/gomidi/midi/v2"
)

// Timer is the part of *time.Timer the player needs
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// queued is an event waiting for its beat; seq keeps send order among
// events on the same beat
type queued struct {
	ev  phase.Event
	seq uint64
}

// Player is a phase.Host that sends events to a MIDI output when their
// beat position comes due. Events leave in (beat, send order) order:
// a note-off and the next note-on on the same beat never swap.
type Player struct {
	send   func(msg midi.Message) error
	clock  *Clock
	after  AfterFunc
	logger *slog.Logger

	mu     sync.Mutex
	queue  []queued
	next   uint64
	timer  Timer
	closed bool
}

// PlayerOption configures a Player
type PlayerOption func(*Player)

func WithAfterFunc(f AfterFunc) PlayerOption {
	return func(p *Player) { p.after = f }
}

func WithPlayerLogger(l *slog.Logger) PlayerOption {
	return func(p *Player) { p.logger = l }
}

// NewPlayer creates a player writing through send, usually the function
// returned by midi.SendTo
func NewPlayer(send func(msg midi.Message) error, clock *Clock, opts ...PlayerOption) *Player {
	p := &Player{
		send:   send,
		clock:  clock,
		after:  realAfterFunc,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Send queues ev for its beat position and plays everything already due
func (p *Player) Send(ev phase.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}

	item := queued{ev: ev, seq: p.next}
	p.next++
	i := sort.Search(len(p.queue), func(i int) bool {
		return p.queue[i].ev.BeatPos > ev.BeatPos
	})
	p.queue = append(p.queue, queued{})
	copy(p.queue[i+1:], p.queue[i:])
	p.queue[i] = item

	p.drain()
}

func (p *Player) Normalize(value float64) uint8 {
	return phase.NormalizeData(value)
}

// Pending is the number of scheduled events not yet sent
func (p *Player) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

func (p *Player) fire() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.drain()
	}
}

// drain sends due events from the head of the queue and arms one timer for
// the next. p.mu must be held.
func (p *Player) drain() {
	n := 0
	for n < len(p.queue) && p.clock.Until(p.queue[n].ev.BeatPos) <= 0 {
		p.emit(p.queue[n].ev)
		n++
	}
	p.queue = p.queue[n:]

	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	if len(p.queue) > 0 {
		p.timer = p.after(p.clock.Until(p.queue[0].ev.BeatPos), p.fire)
	}
}

func (p *Player) emit(ev phase.Event) {
	if err := p.send(ev.Message()); err != nil {
		p.logger.Warn("failed to send MIDI", "kind", ev.Kind.String(), "err", err)
	}
}

// Close cancels scheduled events. Pending note-offs are sent right away
// so no note is left hanging.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}

	flushed := 0
	for _, item := range p.queue {
		if item.ev.Kind == phase.EventNoteOff {
			p.emit(item.ev)
			flushed++
		}
	}
	p.queue = nil
	if flushed > 0 {
		p.logger.Debug("flushed note-offs", "count", flushed)
	}
}
