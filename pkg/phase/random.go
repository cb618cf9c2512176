package phase

import (
	"math/rand/v2"
)

// RandomSource draws uniform values in [0,1)
type RandomSource interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// DefaultSource draws from the process-wide generator
func DefaultSource() RandomSource { return globalSource{} }

// NewSeededSource returns a reproducible source
func NewSeededSource(seed uint64) RandomSource {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// RandomDelta returns a value in [-r, r]: magnitude first, then sign.
// It draws nothing when r <= 0.
func RandomDelta(src RandomSource, r float64) float64 {
	if r <= 0 {
		return 0
	}
	delta := src.Float64() * r
	if src.Float64() > 0.5 {
		return delta
	}
	return -delta
}
