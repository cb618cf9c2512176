package phase

import (
	"reflect"
	"testing"
)

func TestBuildSequenceNotes(t *testing.T) {
	steps := BuildSequence(DefaultPattern())
	if len(steps) != 4 {
		t.Fatalf("BuildSequence() returned %d steps, want 4", len(steps))
	}
	for i, step := range steps {
		if step.Kind != ElementNote {
			t.Errorf("step %d kind = %v, want note", i, step.Kind)
		}
		if step.Pitch != 0 || step.Velocity != 0 {
			t.Errorf("step %d = %+v, want pitch 0 and inherited velocity", i, step)
		}
		if step.Duration.Resolve() != 1 {
			t.Errorf("step %d duration = %v, want 1 beat", i, step.Duration.Resolve())
		}
	}
}

func TestBuildSequenceChords(t *testing.T) {
	p := Pattern{
		Durations: []Duration{Denominator(4), Denominator(8), {}},
		Chords:    []ChordType{ChordMajor, ChordMinor},
	}

	steps := BuildSequence(p)
	want := []ScoreElement{
		Chord([]int{0, 4, 7}, Denominator(4)),
		Chord([]int{0, 3, 7}, Denominator(8)),
		Chord([]int{0, 4, 7}, Beats(1)),
	}
	if !reflect.DeepEqual(steps, want) {
		t.Errorf("BuildSequence() = %+v, want %+v", steps, want)
	}
}

func TestBuildSequenceUnknownChordRests(t *testing.T) {
	p := Pattern{
		Durations: Denominators(4, 2),
		Chords:    []ChordType{"nope", ChordSus4},
	}

	steps := BuildSequence(p)
	if steps[0].Kind != ElementRest {
		t.Errorf("step 0 kind = %v, want rest", steps[0].Kind)
	}
	if steps[0].Duration != Denominator(4) {
		t.Errorf("rest lost its duration: %+v", steps[0].Duration)
	}
	if steps[1].Kind != ElementChord {
		t.Errorf("step 1 kind = %v, want chord", steps[1].Kind)
	}
}

func TestBuildSequenceIdempotent(t *testing.T) {
	p := Pattern{
		Durations: []Duration{Notation("4d"), Beats(0.5)},
		Chords:    []ChordType{ChordDominant7},
	}
	first := BuildSequence(p)
	first[0].Pitches[0] = 42

	second := BuildSequence(p)
	third := BuildSequence(p)
	if !reflect.DeepEqual(second, third) {
		t.Errorf("rebuilds differ: %+v vs %+v", second, third)
	}
	if second[0].Pitches[0] != 0 {
		t.Error("mutating one build leaked into the next")
	}
}

func TestBuildSequenceEmpty(t *testing.T) {
	if steps := BuildSequence(Pattern{Chords: []ChordType{ChordMajor}}); len(steps) != 0 {
		t.Errorf("BuildSequence() returned %d steps for no durations", len(steps))
	}
}

func TestPatternClone(t *testing.T) {
	p := DefaultPattern()
	p.ControlLanes = []ControlLane{{Number: Pan, Steps: []float64{0, 127}}}

	c := p.Clone()
	c.Pitches[0] = 12
	c.ControlLanes[0].Steps[0] = 64

	if p.Pitches[0] != 0 || p.ControlLanes[0].Steps[0] != 0 {
		t.Error("Clone() shares slices with the original")
	}
}
