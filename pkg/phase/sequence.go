package phase

// ControlLane sends one controller value per step
type ControlLane struct {
	Number uint8
	Steps  []float64
}

// Pattern is the per-step configuration of a sequence. Every slice is read
// at index mod its length; an empty slice disables that modifier.
type Pattern struct {
	Durations    []Duration
	Chords       []ChordType
	Pitches      []int
	Gates        []float64
	Chances      []float64
	Velocities   []float64
	ControlLanes []ControlLane
}

// DefaultPattern is four quarter notes at the played pitch
func DefaultPattern() Pattern {
	return Pattern{
		Durations: Denominators(4, 4, 4, 4),
		Pitches:   []int{0},
		Gates:     []float64{1},
		Chances:   []float64{1},
	}
}

// Clone returns a deep copy so callers cannot alias engine state
func (p Pattern) Clone() Pattern {
	out := Pattern{
		Durations:  append([]Duration(nil), p.Durations...),
		Chords:     append([]ChordType(nil), p.Chords...),
		Pitches:    append([]int(nil), p.Pitches...),
		Gates:      append([]float64(nil), p.Gates...),
		Chances:    append([]float64(nil), p.Chances...),
		Velocities: append([]float64(nil), p.Velocities...),
	}
	if p.ControlLanes != nil {
		out.ControlLanes = make([]ControlLane, len(p.ControlLanes))
		for i, lane := range p.ControlLanes {
			out.ControlLanes[i] = ControlLane{Number: lane.Number, Steps: append([]float64(nil), lane.Steps...)}
		}
	}
	return out
}

// BuildSequence materializes the steps of a pattern: one note per duration,
// or, when chords are configured, one chord per duration rooted at 0.
// An unknown chord type becomes a rest so the step still takes its time.
func BuildSequence(p Pattern) []ScoreElement {
	steps := make([]ScoreElement, len(p.Durations))
	for i, d := range p.Durations {
		steps[i] = Note(0, d, 0)
	}

	if len(p.Chords) == 0 {
		return steps
	}

	for i, step := range steps {
		d := step.Duration
		if !d.IsSet() {
			d = Beats(1)
		}

		kind := p.Chords[i%len(p.Chords)]
		chord, ok := BuildChord(kind, 0)
		if !ok {
			logger().Warn("unknown chord type, step will rest", "chord", string(kind), "step", i)
			steps[i] = Rest(d)
			continue
		}
		chord.Duration = d
		steps[i] = chord
	}
	return steps
}
