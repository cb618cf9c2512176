// Package render plays standard MIDI files through the phase engine offline.
// Every note-on in the input triggers a sequence; the generated events are
// written to a new file with the same time format.
package render

import (
	"bytes"
	"math"
	"sort"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/james-see/phaseseq/pkg/phase"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// Renderer runs SMF data through an engine configured with one pattern
type Renderer struct {
	pattern  phase.Pattern
	settings phase.Settings
	opts     []phase.Option
}

// Result holds the rendered file and what went into it
type Result struct {
	Data     []byte
	Tracks   int
	Triggers int
	Notes    int
}

// New creates a renderer. opts are applied to the engine of every track
// after the pattern and settings.
func New(pattern phase.Pattern, settings phase.Settings, opts ...phase.Option) *Renderer {
	return &Renderer{
		pattern:  pattern.Clone(),
		settings: settings,
		opts:     opts,
	}
}

// Render parses MIDI data, plays every track through a fresh engine and
// returns the generated MIDI file
func (r *Renderer) Render(data []byte) (*Result, error) {
	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, fault.Wrap(err,
			fmsg.WithDesc("failed to parse MIDI", "The uploaded file is not a valid MIDI file"),
			ftag.With(ftag.InvalidArgument))
	}

	mt, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, fault.New("only metric time formats are supported",
			fmsg.WithDesc("SMPTE time format", "MIDI files with SMPTE timing are not supported"),
			ftag.With(ftag.InvalidArgument))
	}
	resolution := float64(mt.Resolution())

	out := smf.New()
	out.TimeFormat = mt
	result := &Result{}

	for _, track := range s.Tracks {
		col := &collector{}
		opts := append([]phase.Option{phase.WithPattern(r.pattern), phase.WithSettings(r.settings)}, r.opts...)
		engine := phase.NewEngine(col, opts...)

		var tick int64
		for _, ev := range track {
			tick += int64(ev.Delta)

			msg := midi.Message(ev.Message)
			if isEndOfTrack(msg) {
				continue
			}

			in := phase.EventFromMessage(msg, float64(tick)/resolution)
			if in.Kind == phase.EventNoteOn {
				result.Triggers++
			}
			engine.HandleEvent(in)
		}

		if err := out.Add(col.track(resolution)); err != nil {
			return nil, fault.Wrap(err, fmsg.With("failed to add track"))
		}
		result.Tracks++
		result.Notes += col.notes
	}

	var buf bytes.Buffer
	if _, err := out.WriteTo(&buf); err != nil {
		return nil, fault.Wrap(err, fmsg.With("failed to write MIDI"))
	}
	result.Data = buf.Bytes()
	return result, nil
}

// End of track meta: FF 2F 00
func isEndOfTrack(msg []byte) bool {
	return len(msg) >= 2 && msg[0] == 0xFF && msg[1] == 0x2F
}

// collector is the offline host: it records events in send order
type collector struct {
	events []phase.Event
	notes  int
}

func (c *collector) Send(ev phase.Event) {
	if ev.Kind == phase.EventNoteOn {
		c.notes++
	}
	c.events = append(c.events, ev)
}

func (c *collector) Normalize(value float64) uint8 {
	return phase.NormalizeData(value)
}

// track orders the recorded events by tick, keeping send order for equal
// ticks, and delta-encodes them
func (c *collector) track(resolution float64) smf.Track {
	type timed struct {
		tick int64
		msg  midi.Message
	}

	events := make([]timed, 0, len(c.events))
	for _, ev := range c.events {
		tick := int64(math.Round(ev.BeatPos * resolution))
		if tick < 0 {
			tick = 0
		}
		events = append(events, timed{tick: tick, msg: ev.Message()})
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].tick < events[j].tick
	})

	var track smf.Track
	var last int64
	for _, ev := range events {
		track.Add(uint32(ev.tick-last), ev.msg)
		last = ev.tick
	}
	track.Close(0)
	return track
}
