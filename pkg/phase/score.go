package phase

// ElementKind tags the variant held by a ScoreElement
type ElementKind uint8

const (
	ElementNote ElementKind = iota
	ElementRest
	ElementChord
)

func (k ElementKind) String() string {
	switch k {
	case ElementNote:
		return "note"
	case ElementRest:
		return "rest"
	case ElementChord:
		return "chord"
	default:
		return "unknown"
	}
}

// ScoreElement is one step of a sequence: a note, a rest or a chord.
// Pitch and Pitches are offsets from the pitch of the event being expanded.
type ScoreElement struct {
	Kind     ElementKind
	Duration Duration
	Pitch    int   // note
	Velocity uint8 // note; 0 keeps the trigger velocity
	Pitches  []int // chord
}

func Note(pitch int, d Duration, velocity uint8) ScoreElement {
	return ScoreElement{Kind: ElementNote, Pitch: pitch, Duration: d, Velocity: velocity}
}

func Rest(d Duration) ScoreElement {
	return ScoreElement{Kind: ElementRest, Duration: d}
}

func Chord(pitches []int, d Duration) ScoreElement {
	return ScoreElement{Kind: ElementChord, Pitches: pitches, Duration: d}
}

// Expand turns a note-on into the note-ons this element plays. Other event
// kinds are returned unchanged.
func (s ScoreElement) Expand(trigger Event) []Event {
	if trigger.Kind != EventNoteOn {
		return []Event{trigger}
	}

	switch s.Kind {
	case ElementNote:
		ev := trigger
		ev.Pitch += s.Pitch
		if s.Velocity > 0 {
			ev.Velocity = s.Velocity
		}
		return []Event{ev}
	case ElementChord:
		events := make([]Event, 0, len(s.Pitches))
		for _, p := range s.Pitches {
			ev := trigger
			ev.Pitch += p
			events = append(events, ev)
		}
		return events
	default:
		return nil
	}
}
