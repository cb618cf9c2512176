// Package pattern loads sequence patterns and engine settings from YAML
package pattern

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/goccy/go-yaml"
	"github.com/james-see/phaseseq/pkg/phase"
)

// File is a parsed pattern file
type File struct {
	Name     string
	Pattern  phase.Pattern
	Settings phase.Settings
}

// Default returns the built-in pattern with factory settings
func Default() *File {
	return &File{
		Name:     "default",
		Pattern:  phase.DefaultPattern(),
		Settings: phase.DefaultSettings(),
	}
}

// document is the on-disk layout
//
//	name: rising arp
//	durations: [4, "/8", "8t", {beats: 1.5}]   # number = denominator
//	chords: [maj, min7]
//	pitches: [0, 7, 12]
//	gates: [0.5]
//	chances: [1, 0.75]
//	velocities: [100, 80]
//	controlChannels:
//	  - number: 10
//	    steps: [0, 127]
//	settings:
//	  speed: 100        # percent
//	  clampVelocity: true
type document struct {
	Name            string         `yaml:"name"`
	Durations       []durationSpec `yaml:"durations"`
	Chords          []string       `yaml:"chords,omitempty"`
	Pitches         []int          `yaml:"pitches,omitempty"`
	Gates           []float64      `yaml:"gates,omitempty"`
	Chances         []float64      `yaml:"chances,omitempty"`
	Velocities      []float64      `yaml:"velocities,omitempty"`
	ControlChannels []laneSpec     `yaml:"controlChannels,omitempty"`
	Settings        *settingsSpec  `yaml:"settings,omitempty"`
}

type laneSpec struct {
	Number int       `yaml:"number"`
	Steps  []float64 `yaml:"steps"`
}

// settingsSpec holds settings in parameter units; unset fields keep defaults
type settingsSpec struct {
	Transpose         *float64 `yaml:"transpose,omitempty"`
	SequenceLength    *float64 `yaml:"sequenceLength,omitempty"`
	Speed             *float64 `yaml:"speed,omitempty"`
	HumanizeBeatPos   *float64 `yaml:"humanizeBeatPos,omitempty"`
	HumanizeVelocity  *float64 `yaml:"humanizeVelocity,omitempty"`
	ClampVelocity     *bool    `yaml:"clampVelocity,omitempty"`
	NormalizeVelocity *bool    `yaml:"normalizeVelocity,omitempty"`
	MinVelocity       *float64 `yaml:"minVelocity,omitempty"`
	MaxVelocity       *float64 `yaml:"maxVelocity,omitempty"`
}

type durationSpec struct {
	phase.Duration
}

func (d *durationSpec) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw interface{}
	if err := unmarshal(&raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case uint64:
		d.Duration = phase.Denominator(float64(v))
	case int64:
		d.Duration = phase.Denominator(float64(v))
	case int:
		d.Duration = phase.Denominator(float64(v))
	case float64:
		d.Duration = phase.Denominator(v)
	case string:
		d.Duration = phase.Notation(strings.TrimSpace(v))
	case map[string]interface{}:
		beats, ok := v["beats"]
		if !ok {
			return errors.New("duration mapping needs a beats key")
		}
		b, err := toFloat(beats)
		if err != nil {
			return fmt.Errorf("duration beats: %w", err)
		}
		d.Duration = phase.Beats(b)
	default:
		return fmt.Errorf("unsupported duration %v", raw)
	}
	return nil
}

func (d durationSpec) MarshalYAML() (interface{}, error) {
	switch d.Kind {
	case phase.DurationDenominator:
		return d.Value, nil
	case phase.DurationBeats:
		return map[string]float64{"beats": d.Value}, nil
	default:
		return d.Notation, nil
	}
}

func toFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case uint64:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int:
		return float64(n), nil
	case float64:
		return n, nil
	case string:
		return strconv.ParseFloat(n, 64)
	}
	return 0, fmt.Errorf("not a number: %v", v)
}

// Load reads a pattern file. An empty path returns Default.
func Load(path string) (*File, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fault.Wrap(err,
				fmsg.WithDesc("pattern file not found", fmt.Sprintf("No pattern file at %s", path)),
				ftag.With(ftag.NotFound))
		}
		return nil, fault.Wrap(err, fmsg.With("failed to read pattern file"))
	}

	f, err := Parse(data)
	if err != nil {
		return nil, fault.Wrap(err, fmsg.With(fmt.Sprintf("pattern %s", path)))
	}
	return f, nil
}

// Parse decodes and validates a pattern document. Missing durations fall
// back to four quarter notes; other missing arrays disable their modifier.
func Parse(data []byte) (*File, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fault.Wrap(err,
			fmsg.WithDesc("invalid pattern YAML", "The pattern file is not valid YAML"),
			ftag.With(ftag.InvalidArgument))
	}

	f := &File{
		Name:     doc.Name,
		Settings: phase.DefaultSettings(),
		Pattern: phase.Pattern{
			Pitches:    doc.Pitches,
			Gates:      doc.Gates,
			Chances:    doc.Chances,
			Velocities: doc.Velocities,
		},
	}

	if len(doc.Durations) == 0 {
		f.Pattern.Durations = phase.DefaultPattern().Durations
	}
	for _, d := range doc.Durations {
		f.Pattern.Durations = append(f.Pattern.Durations, d.Duration)
	}

	for _, name := range doc.Chords {
		c, err := phase.ParseChordType(name)
		if err != nil {
			return nil, fault.Wrap(err, ftag.With(ftag.InvalidArgument))
		}
		f.Pattern.Chords = append(f.Pattern.Chords, c)
	}

	for _, lane := range doc.ControlChannels {
		if lane.Number < 0 || lane.Number > 127 {
			return nil, fault.New(fmt.Sprintf("control channel %d out of range 0-127", lane.Number),
				ftag.With(ftag.InvalidArgument))
		}
		f.Pattern.ControlLanes = append(f.Pattern.ControlLanes, phase.ControlLane{
			Number: uint8(lane.Number),
			Steps:  lane.Steps,
		})
	}

	if doc.Settings != nil {
		doc.Settings.applyTo(&f.Settings)
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *settingsSpec) applyTo(settings *phase.Settings) {
	set := func(id phase.ParamID, v *float64) {
		if v != nil {
			settings.Apply(id, *v)
		}
	}
	flag := func(id phase.ParamID, v *bool) {
		if v == nil {
			return
		}
		value := 0.0
		if *v {
			value = 1
		}
		settings.Apply(id, value)
	}

	set(phase.ParamTranspose, s.Transpose)
	set(phase.ParamSequenceLength, s.SequenceLength)
	set(phase.ParamSpeed, s.Speed)
	set(phase.ParamHumanizeBeatPos, s.HumanizeBeatPos)
	set(phase.ParamHumanizeVelocity, s.HumanizeVelocity)
	flag(phase.ParamClampVelocity, s.ClampVelocity)
	flag(phase.ParamNormalizeVelocity, s.NormalizeVelocity)
	set(phase.ParamMinVelocity, s.MinVelocity)
	set(phase.ParamMaxVelocity, s.MaxVelocity)
}

// Validate checks ranges the engine cannot use meaningfully
func (f *File) Validate() error {
	for i, g := range f.Pattern.Gates {
		if g < 0 || g > 1 {
			return invalid("gate %d is %v, want 0-1", i, g)
		}
	}
	for i, c := range f.Pattern.Chances {
		if c < 0 || c > 1 {
			return invalid("chance %d is %v, want 0-1", i, c)
		}
	}
	for _, c := range f.Pattern.Chords {
		if _, ok := c.Intervals(); !ok {
			return invalid("unknown chord type %q", c)
		}
	}
	if f.Settings.MinVelocity > f.Settings.MaxVelocity {
		return invalid("min velocity %v is above max velocity %v", f.Settings.MinVelocity, f.Settings.MaxVelocity)
	}
	return nil
}

func invalid(format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	return fault.New(msg, fmsg.WithDesc(msg, "The pattern is invalid: "+msg), ftag.With(ftag.InvalidArgument))
}

// Marshal encodes a pattern file back to YAML
func Marshal(f *File) ([]byte, error) {
	doc := document{
		Name:       f.Name,
		Pitches:    f.Pattern.Pitches,
		Gates:      f.Pattern.Gates,
		Chances:    f.Pattern.Chances,
		Velocities: f.Pattern.Velocities,
	}
	for _, d := range f.Pattern.Durations {
		doc.Durations = append(doc.Durations, durationSpec{d})
	}
	for _, c := range f.Pattern.Chords {
		doc.Chords = append(doc.Chords, string(c))
	}
	for _, lane := range f.Pattern.ControlLanes {
		doc.ControlChannels = append(doc.ControlChannels, laneSpec{Number: int(lane.Number), Steps: lane.Steps})
	}

	s := f.Settings
	transpose := float64(s.Transpose)
	length := float64(s.SequenceLength)
	speed := s.Speed * 100
	doc.Settings = &settingsSpec{
		Transpose:         &transpose,
		SequenceLength:    &length,
		Speed:             &speed,
		HumanizeBeatPos:   &s.HumanizeBeatPos,
		HumanizeVelocity:  &s.HumanizeVelocity,
		ClampVelocity:     &s.ClampVelocity,
		NormalizeVelocity: &s.NormalizeVelocity,
		MinVelocity:       &s.MinVelocity,
		MaxVelocity:       &s.MaxVelocity,
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fault.Wrap(err, fmsg.With("failed to encode pattern"))
	}
	return data, nil
}
