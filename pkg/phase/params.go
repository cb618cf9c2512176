package phase

import (
	"math"
)

// ParamID is a host parameter index
type ParamID int

const (
	ParamTranspose ParamID = iota
	ParamSequenceLength
	ParamSpeed
	ParamHumanizeBeatPos
	ParamVelocityHeader
	ParamHumanizeVelocity
	ParamClampVelocity
	ParamMinVelocity
	ParamMaxVelocity
	ParamNormalizeVelocity
)

// ParamType is how the host presents a parameter
type ParamType string

const (
	ParamLinear ParamType = "lin"
	ParamMenu   ParamType = "menu"
	ParamText   ParamType = "text"
)

// ParamDescriptor describes one host parameter
type ParamDescriptor struct {
	ID           ParamID   `json:"id"`
	Name         string    `json:"name"`
	Type         ParamType `json:"type"`
	Unit         string    `json:"unit,omitempty"`
	Min          float64   `json:"min"`
	Max          float64   `json:"max"`
	Steps        int       `json:"steps,omitempty"`
	Default      float64   `json:"default"`
	ValueStrings []string  `json:"valueStrings,omitempty"`
}

// StepSize is the increment between adjacent values
func (d ParamDescriptor) StepSize() float64 {
	if d.Type == ParamText || d.Max <= d.Min {
		return 0
	}
	if d.Steps > 0 {
		return (d.Max - d.Min) / float64(d.Steps)
	}
	return (d.Max - d.Min) / 100
}

// Clamp constrains v to the descriptor's range
func (d ParamDescriptor) Clamp(v float64) float64 {
	return math.Min(d.Max, math.Max(d.Min, v))
}

// Descriptors lists the parameters in host order with defaults taken from s
func Descriptors(s Settings) []ParamDescriptor {
	onOff := []string{"Off", "On"}
	return []ParamDescriptor{
		{ID: ParamTranspose, Name: "Transpose", Type: ParamLinear, Min: -63, Max: 63, Steps: 126, Default: float64(s.Transpose)},
		{ID: ParamSequenceLength, Name: "Sequence Length", Type: ParamLinear, Min: 0, Max: 12, Steps: 12, Default: float64(s.SequenceLength)},
		{ID: ParamSpeed, Name: "Speed", Type: ParamLinear, Unit: "%", Min: 0, Max: 300, Steps: 300, Default: s.Speed * 100},
		{ID: ParamHumanizeBeatPos, Name: "Humanize Beat Pos", Type: ParamLinear, Min: 0, Max: 0.25, Default: s.HumanizeBeatPos},
		{ID: ParamVelocityHeader, Name: "Velocity Controls", Type: ParamText},
		{ID: ParamHumanizeVelocity, Name: "Humanize Velocity", Type: ParamLinear, Min: 0, Max: 63, Steps: 63, Default: s.HumanizeVelocity},
		{ID: ParamClampVelocity, Name: "Clamp Velocity", Type: ParamMenu, Max: 1, Steps: 2, Default: boolValue(s.ClampVelocity), ValueStrings: onOff},
		{ID: ParamMinVelocity, Name: "Min Velocity", Type: ParamLinear, Min: 0, Max: 127, Steps: 127, Default: s.MinVelocity},
		{ID: ParamMaxVelocity, Name: "Max Velocity", Type: ParamLinear, Min: 0, Max: 127, Steps: 127, Default: s.MaxVelocity},
		{ID: ParamNormalizeVelocity, Name: "Normalize Velocity", Type: ParamMenu, Max: 1, Steps: 2, Default: boolValue(s.NormalizeVelocity), ValueStrings: onOff},
	}
}

// Descriptor looks up a single parameter
func Descriptor(id ParamID) (ParamDescriptor, bool) {
	for _, d := range Descriptors(DefaultSettings()) {
		if d.ID == id {
			return d, true
		}
	}
	return ParamDescriptor{}, false
}

// Apply stores a host value. It reports false for ids that are not settable.
func (s *Settings) Apply(id ParamID, value float64) bool {
	switch id {
	case ParamTranspose:
		s.Transpose = int(math.Round(value))
	case ParamSequenceLength:
		s.SequenceLength = int(math.Round(value))
	case ParamSpeed:
		s.Speed = value / 100
	case ParamHumanizeBeatPos:
		s.HumanizeBeatPos = value
	case ParamHumanizeVelocity:
		s.HumanizeVelocity = value
	case ParamClampVelocity:
		s.ClampVelocity = value != 0
	case ParamMinVelocity:
		s.MinVelocity = value
	case ParamMaxVelocity:
		s.MaxVelocity = value
	case ParamNormalizeVelocity:
		s.NormalizeVelocity = value != 0
	default:
		return false
	}
	return true
}

// Value reads a parameter back in host units
func (s Settings) Value(id ParamID) (float64, bool) {
	switch id {
	case ParamTranspose:
		return float64(s.Transpose), true
	case ParamSequenceLength:
		return float64(s.SequenceLength), true
	case ParamSpeed:
		return s.Speed * 100, true
	case ParamHumanizeBeatPos:
		return s.HumanizeBeatPos, true
	case ParamHumanizeVelocity:
		return s.HumanizeVelocity, true
	case ParamClampVelocity:
		return boolValue(s.ClampVelocity), true
	case ParamMinVelocity:
		return s.MinVelocity, true
	case ParamMaxVelocity:
		return s.MaxVelocity, true
	case ParamNormalizeVelocity:
		return boolValue(s.NormalizeVelocity), true
	}
	return 0, false
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
