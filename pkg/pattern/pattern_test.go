package pattern

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/Southclaws/fault/ftag"
	"github.com/james-see/phaseseq/pkg/phase"
)

const sampleYAML = `
name: rising arp
durations: [4, "/8", "8t", {beats: 1.5}]
chords: [maj, MIN7]
pitches: [0, 7, 12]
gates: [0.5]
chances: [1, 0.75]
velocities: [100, 80]
controlChannels:
  - number: 10
    steps: [0, 127]
  - number: 1
    steps: [64]
settings:
  transpose: -12
  speed: 200
  sequenceLength: 8
  humanizeBeatPos: 0
  clampVelocity: true
  normalizeVelocity: false
  minVelocity: 30
`

func TestParse(t *testing.T) {
	f, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if f.Name != "rising arp" {
		t.Errorf("Name = %q", f.Name)
	}

	wantDurations := []phase.Duration{
		phase.Denominator(4),
		phase.Notation("/8"),
		phase.Notation("8t"),
		phase.Beats(1.5),
	}
	if !reflect.DeepEqual(f.Pattern.Durations, wantDurations) {
		t.Errorf("Durations = %+v, want %+v", f.Pattern.Durations, wantDurations)
	}
	if !reflect.DeepEqual(f.Pattern.Chords, []phase.ChordType{phase.ChordMajor, phase.ChordMinor7}) {
		t.Errorf("Chords = %v", f.Pattern.Chords)
	}
	if !reflect.DeepEqual(f.Pattern.Pitches, []int{0, 7, 12}) {
		t.Errorf("Pitches = %v", f.Pattern.Pitches)
	}
	wantLanes := []phase.ControlLane{
		{Number: phase.Pan, Steps: []float64{0, 127}},
		{Number: phase.ModWheel, Steps: []float64{64}},
	}
	if !reflect.DeepEqual(f.Pattern.ControlLanes, wantLanes) {
		t.Errorf("ControlLanes = %+v", f.Pattern.ControlLanes)
	}

	want := phase.DefaultSettings()
	want.Transpose = -12
	want.Speed = 2
	want.SequenceLength = 8
	want.HumanizeBeatPos = 0
	want.ClampVelocity = true
	want.NormalizeVelocity = false
	want.MinVelocity = 30
	if f.Settings != want {
		t.Errorf("Settings = %+v, want %+v", f.Settings, want)
	}
}

func TestParseDefaults(t *testing.T) {
	f, err := Parse([]byte("name: only chords\nchords: [sus4]\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !reflect.DeepEqual(f.Pattern.Durations, phase.DefaultPattern().Durations) {
		t.Errorf("Durations = %+v, want the default quarter notes", f.Pattern.Durations)
	}
	if f.Pattern.Gates != nil || f.Pattern.Chances != nil {
		t.Error("missing arrays should stay disabled")
	}
	if f.Settings != phase.DefaultSettings() {
		t.Errorf("Settings = %+v, want defaults", f.Settings)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad yaml", "durations: [4, 8"},
		{"unknown chord", "chords: [power]"},
		{"gate out of range", "gates: [1.5]"},
		{"negative chance", "chances: [-0.1]"},
		{"cc out of range", "controlChannels:\n  - number: 200\n    steps: [1]"},
		{"velocity range inverted", "settings:\n  minVelocity: 120\n  maxVelocity: 20"},
		{"duration mapping without beats", "durations: [{bars: 2}]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("Parse() should fail")
			}
			if ftag.Get(err) != ftag.InvalidArgument {
				t.Errorf("error kind = %v, want InvalidArgument", ftag.Get(err))
			}
		})
	}
}

func TestLoad(t *testing.T) {
	f, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if f.Name != "default" {
		t.Errorf("Load(\"\") name = %q, want default", f.Name)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "arp.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0644); err != nil {
		t.Fatal(err)
	}
	f, err = Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(f.Pattern.Durations) != 4 {
		t.Errorf("Load() got %d durations", len(f.Pattern.Durations))
	}

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	if ftag.Get(err) != ftag.NotFound {
		t.Errorf("missing file error kind = %v, want NotFound", ftag.Get(err))
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	f, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	data, err := Marshal(f)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	back, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse(Marshal()) error = %v\n%s", err, data)
	}

	if !reflect.DeepEqual(back.Pattern, f.Pattern) {
		t.Errorf("pattern changed:\n got %+v\nwant %+v", back.Pattern, f.Pattern)
	}
	if back.Settings != f.Settings {
		t.Errorf("settings changed:\n got %+v\nwant %+v", back.Settings, f.Settings)
	}
}
