package phase

import (
	"reflect"
	"sync"
	"testing"

	"gitlab.com/gomidi/midi/v2"
)

func TestEngineForwardsNonNoteOn(t *testing.T) {
	host := &recordingHost{}
	e := NewEngine(host, WithSettings(quietSettings()))

	events := []Event{
		{Kind: EventNoteOff, Channel: 1, Pitch: 60, BeatPos: 3},
		{Kind: EventControlChange, Number: Sustain, Value: 127, BeatPos: 1},
		EventFromMessage(midi.Pitchbend(0, 100), 2),
	}
	for _, ev := range events {
		e.HandleEvent(ev)
	}

	if !reflect.DeepEqual(host.events, events) {
		t.Errorf("forwarded events = %+v, want %+v", host.events, events)
	}
}

func TestEngineTriggersSequence(t *testing.T) {
	host := &recordingHost{}
	e := NewEngine(host, WithSettings(quietSettings()), WithRandom(&scriptedSource{values: []float64{0}}))

	e.HandleEvent(noteOn(64, 80, 0))

	if n := len(host.ofKind(EventNoteOn)); n != 4 {
		t.Errorf("got %d note-ons, want 4", n)
	}
	if n := len(host.ofKind(EventNoteOff)); n != 4 {
		t.Errorf("got %d note-offs, want 4", n)
	}
}

func TestEngineEmptyPatternForwardsTrigger(t *testing.T) {
	host := &recordingHost{}
	e := NewEngine(host, WithPattern(Pattern{}))

	trigger := noteOn(60, 100, 0)
	e.HandleEvent(trigger)

	if !reflect.DeepEqual(host.events, []Event{trigger}) {
		t.Errorf("events = %+v, want only the trigger", host.events)
	}
}

func TestEngineParameterChanged(t *testing.T) {
	e := NewEngine(&recordingHost{})

	e.ParameterChanged(ParamSpeed, 200)
	e.ParameterChanged(ParamTranspose, 5)
	e.ParameterChanged(ParamClampVelocity, 1)
	e.ParameterChanged(ParamVelocityHeader, 9)
	e.ParameterChanged(ParamID(42), 9)

	s := e.Settings()
	want := DefaultSettings()
	want.Speed = 2
	want.Transpose = 5
	want.ClampVelocity = true
	if s != want {
		t.Errorf("Settings() = %+v, want %+v", s, want)
	}
}

func TestEngineParameterAppliesToNextTrigger(t *testing.T) {
	host := &recordingHost{}
	e := NewEngine(host, WithSettings(quietSettings()))

	e.HandleEvent(noteOn(60, 100, 0))
	e.ParameterChanged(ParamSequenceLength, 2)
	host.events = nil
	e.HandleEvent(noteOn(60, 100, 0))

	if n := len(host.ofKind(EventNoteOn)); n != 2 {
		t.Errorf("got %d note-ons after setting length 2", n)
	}
}

func TestEnginePatternIsCopied(t *testing.T) {
	p := DefaultPattern()
	e := NewEngine(&recordingHost{}, WithPattern(p))

	p.Pitches[0] = 12
	got := e.Pattern()
	if got.Pitches[0] != 0 {
		t.Error("engine pattern aliases the caller's slice")
	}

	got.Gates[0] = 0.1
	if e.Pattern().Gates[0] != 1 {
		t.Error("Pattern() returned engine state")
	}
}

func TestEngineConcurrentUse(t *testing.T) {
	var mu sync.Mutex
	count := 0
	host := HostFunc(func(ev Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})
	e := NewEngine(host, WithSettings(quietSettings()))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			e.HandleEvent(noteOn(60, 100, 0))
		}()
		go func(v float64) {
			defer wg.Done()
			e.ParameterChanged(ParamTranspose, v)
		}(float64(i))
	}
	wg.Wait()

	if count != 8*8 {
		t.Errorf("got %d events, want %d", count, 8*8)
	}
}

func TestEngineReplaceIsAtomic(t *testing.T) {
	four := DefaultPattern()
	two := Pattern{Durations: Denominators(2, 2)}
	low := quietSettings()
	high := quietSettings()
	high.Transpose = 12

	var mu sync.Mutex
	groups := map[int][]int{}
	host := HostFunc(func(ev Event) {
		if ev.Kind != EventNoteOn {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		g := int(ev.BeatPos / 100)
		groups[g] = append(groups[g], ev.Pitch)
	})
	e := NewEngine(host, WithPattern(four), WithSettings(low))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			e.HandleEvent(noteOn(60, 100, float64(i*100)))
		}(i)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				e.Replace(two, high)
			} else {
				e.Replace(four, low)
			}
		}(i)
	}
	wg.Wait()

	for g, notes := range groups {
		switch {
		case len(notes) == 4 && notes[0] == 60:
		case len(notes) == 2 && notes[0] == 72:
		default:
			t.Errorf("trigger %d played %v, mixing a pattern with the other settings", g, notes)
		}
	}

	e.Replace(two, high)
	p, s := e.Snapshot()
	if len(p.Durations) != 2 || s.Transpose != 12 {
		t.Errorf("Snapshot() = %+v, %+v after Replace", p, s)
	}
}
