package phase

import (
	"log/slog"
	"math"
	"sync/atomic"
)

// Host is the runtime the engine plays into
type Host interface {
	// Send dispatches a fully built event at its attached beat position
	Send(ev Event)
	// Normalize turns a raw velocity or controller value into MIDI data
	Normalize(value float64) uint8
}

// HostFunc adapts a send function into a Host using NormalizeData
type HostFunc func(ev Event)

func (f HostFunc) Send(ev Event) { f(ev) }

func (f HostFunc) Normalize(value float64) uint8 { return NormalizeData(value) }

// NormalizeData rounds a value and constrains it to 0-127
func NormalizeData(value float64) uint8 {
	if math.IsNaN(value) {
		return 0
	}
	v := math.Round(value)
	if v < 0 {
		return 0
	}
	if v > 127 {
		return 127
	}
	return uint8(v)
}

var pkgLogger atomic.Pointer[slog.Logger]

// SetLogger sets the logger used for diagnostics outside an Engine
// (duration parsing, sequence building). Nil restores slog.Default.
func SetLogger(l *slog.Logger) {
	pkgLogger.Store(l)
}

func logger() *slog.Logger {
	if l := pkgLogger.Load(); l != nil {
		return l
	}
	return slog.Default()
}
