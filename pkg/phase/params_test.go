package phase

import (
	"testing"
)

func TestDescriptorsOrder(t *testing.T) {
	descs := Descriptors(DefaultSettings())
	if len(descs) != 10 {
		t.Fatalf("Descriptors() returned %d entries, want 10", len(descs))
	}
	for i, d := range descs {
		if d.ID != ParamID(i) {
			t.Errorf("descriptor %d has id %d", i, d.ID)
		}
	}
	if descs[ParamVelocityHeader].Type != ParamText {
		t.Error("velocity header should be a text parameter")
	}
}

func TestDescriptorsDefaults(t *testing.T) {
	descs := Descriptors(DefaultSettings())
	tests := []struct {
		id   ParamID
		want float64
	}{
		{ParamTranspose, 0},
		{ParamSequenceLength, 0},
		{ParamSpeed, 100},
		{ParamHumanizeBeatPos, 0.025},
		{ParamHumanizeVelocity, 10},
		{ParamClampVelocity, 0},
		{ParamMinVelocity, 60},
		{ParamMaxVelocity, 100},
		{ParamNormalizeVelocity, 1},
	}
	for _, tt := range tests {
		if got := descs[tt.id].Default; got != tt.want {
			t.Errorf("%s default = %v, want %v", descs[tt.id].Name, got, tt.want)
		}
	}
}

func TestSettingsApplyAndValue(t *testing.T) {
	tests := []struct {
		id    ParamID
		value float64
		check func(Settings) bool
	}{
		{ParamTranspose, -7, func(s Settings) bool { return s.Transpose == -7 }},
		{ParamSequenceLength, 6, func(s Settings) bool { return s.SequenceLength == 6 }},
		{ParamSpeed, 150, func(s Settings) bool { return s.Speed == 1.5 }},
		{ParamHumanizeBeatPos, 0.1, func(s Settings) bool { return s.HumanizeBeatPos == 0.1 }},
		{ParamHumanizeVelocity, 20, func(s Settings) bool { return s.HumanizeVelocity == 20 }},
		{ParamClampVelocity, 1, func(s Settings) bool { return s.ClampVelocity }},
		{ParamMinVelocity, 10, func(s Settings) bool { return s.MinVelocity == 10 }},
		{ParamMaxVelocity, 110, func(s Settings) bool { return s.MaxVelocity == 110 }},
		{ParamNormalizeVelocity, 0, func(s Settings) bool { return !s.NormalizeVelocity }},
	}

	for _, tt := range tests {
		s := DefaultSettings()
		if !s.Apply(tt.id, tt.value) {
			t.Errorf("Apply(%d) reported unknown id", tt.id)
			continue
		}
		if !tt.check(s) {
			t.Errorf("Apply(%d, %v) produced %+v", tt.id, tt.value, s)
		}
		if got, ok := s.Value(tt.id); !ok || got != tt.value {
			t.Errorf("Value(%d) = %v, %v; want %v", tt.id, got, ok, tt.value)
		}
	}
}

func TestSettingsApplyIgnoresUnknown(t *testing.T) {
	s := DefaultSettings()
	for _, id := range []ParamID{ParamVelocityHeader, -1, 99} {
		if s.Apply(id, 5) {
			t.Errorf("Apply(%d) should be ignored", id)
		}
	}
	if s != DefaultSettings() {
		t.Errorf("ignored parameters changed settings: %+v", s)
	}
}

func TestDescriptorStepSize(t *testing.T) {
	speed, _ := Descriptor(ParamSpeed)
	if got := speed.StepSize(); got != 1 {
		t.Errorf("speed step = %v, want 1", got)
	}
	humanize, _ := Descriptor(ParamHumanizeBeatPos)
	if got := humanize.StepSize(); got != 0.0025 {
		t.Errorf("humanize step = %v, want 0.0025", got)
	}
	header, _ := Descriptor(ParamVelocityHeader)
	if got := header.StepSize(); got != 0 {
		t.Errorf("header step = %v, want 0", got)
	}
	if got := speed.Clamp(500); got != 300 {
		t.Errorf("Clamp(500) = %v, want 300", got)
	}
}
