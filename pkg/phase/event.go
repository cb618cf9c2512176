// Package phase implements the step sequencing engine: durations, chords,
// score elements, sequence building and the per-trigger step scheduler.
package phase

import (
	"gitlab.com/gomidi/midi/v2"
)

// EventKind identifies the events the engine cares about
type EventKind uint8

const (
	EventOther EventKind = iota
	EventNoteOn
	EventNoteOff
	EventControlChange
)

func (k EventKind) String() string {
	switch k {
	case EventNoteOn:
		return "note-on"
	case EventNoteOff:
		return "note-off"
	case EventControlChange:
		return "cc"
	default:
		return "other"
	}
}

// Named control change numbers
const (
	ModWheel uint8 = 1
	// Volume is the standard CC 7; pattern files written for a CC 2 volume lane sound different here
	Volume   uint8 = 7
	Pan      uint8 = 10
	Sustain  uint8 = 64
)

// Event is a MIDI event stamped with a beat position.
// Pitch is kept as an int so transposition can leave the MIDI range
// without wrapping; Message clamps it.
type Event struct {
	Kind     EventKind
	Channel  uint8
	Pitch    int
	Velocity uint8
	Number   uint8 // controller number for EventControlChange
	Value    uint8 // controller value for EventControlChange
	BeatPos  float64
	Raw      midi.Message // original bytes for EventOther
}

// EventFromMessage classifies a MIDI message. A note-on with velocity 0 is
// a note-off.
func EventFromMessage(msg midi.Message, beatPos float64) Event {
	var ch, key, vel, num, val uint8

	switch {
	case msg.GetNoteOn(&ch, &key, &vel) && vel > 0:
		return Event{Kind: EventNoteOn, Channel: ch, Pitch: int(key), Velocity: vel, BeatPos: beatPos}
	case msg.GetNoteEnd(&ch, &key):
		return Event{Kind: EventNoteOff, Channel: ch, Pitch: int(key), BeatPos: beatPos}
	case msg.GetControlChange(&ch, &num, &val):
		return Event{Kind: EventControlChange, Channel: ch, Number: num, Value: val, BeatPos: beatPos}
	}

	raw := make(midi.Message, len(msg))
	copy(raw, msg)
	return Event{Kind: EventOther, Raw: raw, BeatPos: beatPos}
}

// Message converts the event back into MIDI bytes
func (e Event) Message() midi.Message {
	switch e.Kind {
	case EventNoteOn:
		return midi.NoteOn(e.Channel, clampPitch(e.Pitch), e.Velocity)
	case EventNoteOff:
		return midi.NoteOff(e.Channel, clampPitch(e.Pitch))
	case EventControlChange:
		return midi.ControlChange(e.Channel, e.Number, e.Value)
	default:
		return e.Raw
	}
}

func clampPitch(p int) uint8 {
	if p < 0 {
		return 0
	}
	if p > 127 {
		return 127
	}
	return uint8(p)
}
