package phase

// recordingHost captures everything the engine sends
type recordingHost struct {
	events []Event
}

func (h *recordingHost) Send(ev Event) { h.events = append(h.events, ev) }

func (h *recordingHost) Normalize(v float64) uint8 { return NormalizeData(v) }

func (h *recordingHost) ofKind(kind EventKind) []Event {
	var out []Event
	for _, ev := range h.events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

// scriptedSource replays fixed draws, cycling when exhausted
type scriptedSource struct {
	values []float64
	calls  int
}

func (s *scriptedSource) Float64() float64 {
	v := s.values[s.calls%len(s.values)]
	s.calls++
	return v
}

func quietSettings() Settings {
	s := DefaultSettings()
	s.HumanizeBeatPos = 0
	s.HumanizeVelocity = 0
	return s
}

func noteOn(pitch int, velocity uint8, beat float64) Event {
	return Event{Kind: EventNoteOn, Pitch: pitch, Velocity: velocity, BeatPos: beat}
}

func beats(events []Event) []float64 {
	out := make([]float64, len(events))
	for i, ev := range events {
		out[i] = ev.BeatPos
	}
	return out
}

func pitches(events []Event) []int {
	out := make([]int, len(events))
	for i, ev := range events {
		out[i] = ev.Pitch
	}
	return out
}
