package phase

// Settings are the scalar engine controls edited through parameters
type Settings struct {
	Transpose      int     // semitones
	Speed          float64 // 1 is normal, 2 plays twice as fast
	SequenceLength int     // steps per trigger; 0 uses the pattern length

	HumanizeBeatPos  float64 // max onset jitter in beats
	HumanizeVelocity float64 // max velocity jitter

	ClampVelocity     bool
	NormalizeVelocity bool // scale into the clamp range instead of clipping
	MinVelocity       float64
	MaxVelocity       float64
}

// DefaultSettings returns the factory settings
func DefaultSettings() Settings {
	return Settings{
		Transpose:         0,
		Speed:             1,
		SequenceLength:    0,
		HumanizeBeatPos:   0.025,
		HumanizeVelocity:  10,
		ClampVelocity:     false,
		NormalizeVelocity: true,
		MinVelocity:       60,
		MaxVelocity:       100,
	}
}

// speedFactor scales step durations. A non-positive speed plays at normal
// speed rather than producing infinite durations.
func (s Settings) speedFactor() float64 {
	if s.Speed <= 0 {
		return 1
	}
	return 1.0 / s.Speed
}
