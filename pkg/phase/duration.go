package phase

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DurationKind selects how a Duration is expressed
type DurationKind uint8

const (
	DurationUnset DurationKind = iota
	DurationBeats
	DurationDenominator
	DurationNotation
)

// ErrBadNotation is returned for note length strings outside the grammar
var ErrBadNotation = errors.New("note length in wrong format")

// Duration is a note length in one of three forms, all of which resolve to
// beats (quarter note = 1.0).
//
//	Beats(0.5)        half a beat
//	Denominator(8)    an eighth note, 4/8 beats
//	Notation("/8")    same as Denominator(8)
//	Notation("4d")    dotted quarter, 1.5 beats
//	Notation("4t")    quarter triplet, 2/3 beat
//
// A negative Beats or Denominator value is a rest of that many beats.
type Duration struct {
	Kind     DurationKind
	Value    float64 // beats or denominator
	Notation string
}

func Beats(b float64) Duration {
	return Duration{Kind: DurationBeats, Value: b}
}

func Denominator(d float64) Duration {
	return Duration{Kind: DurationDenominator, Value: d}
}

func Notation(s string) Duration {
	return Duration{Kind: DurationNotation, Notation: s}
}

// Denominators builds a denominator duration per value
func Denominators(values ...float64) []Duration {
	out := make([]Duration, len(values))
	for i, v := range values {
		out[i] = Denominator(v)
	}
	return out
}

// IsSet reports whether the duration carries a value
func (d Duration) IsSet() bool {
	return d.Kind != DurationUnset
}

// Beats resolves the duration without side effects
func (d Duration) Beats() (float64, error) {
	switch d.Kind {
	case DurationBeats:
		return d.Value, nil
	case DurationDenominator:
		return denominatorBeats(d.Value)
	case DurationNotation:
		return ParseNotation(d.Notation)
	default:
		return 0, errors.New("duration not set")
	}
}

// Resolve returns the duration in beats. Anything unresolvable is logged and
// resolves to 0.
func (d Duration) Resolve() float64 {
	beats, err := d.Beats()
	if err != nil {
		logger().Warn("unresolvable duration", "duration", d.String(), "err", err)
		return 0
	}
	return beats
}

func (d Duration) String() string {
	switch d.Kind {
	case DurationBeats:
		return strconv.FormatFloat(d.Value, 'g', -1, 64) + "b"
	case DurationDenominator:
		return "/" + strconv.FormatFloat(d.Value, 'g', -1, 64)
	case DurationNotation:
		return d.Notation
	default:
		return "unset"
	}
}

// ParseNotation resolves a note length string: "/D", "Dd" (dotted) or
// "Dt" (triplet), case-insensitive suffix.
func ParseNotation(s string) (float64, error) {
	switch {
	case strings.HasPrefix(s, "/"):
		return denominatorString(s[1:], s)
	case strings.HasSuffix(s, "d") || strings.HasSuffix(s, "D"):
		beats, err := denominatorString(s[:len(s)-1], s)
		return beats * 1.5, err
	case strings.HasSuffix(s, "t") || strings.HasSuffix(s, "T"):
		beats, err := denominatorString(s[:len(s)-1], s)
		return beats * 2.0 / 3.0, err
	}
	return 0, fmt.Errorf("%w: %q", ErrBadNotation, s)
}

func denominatorString(digits, whole string) (float64, error) {
	if digits == "" || strings.TrimLeft(digits, "0123456789") != "" {
		return 0, fmt.Errorf("%w: %q", ErrBadNotation, whole)
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadNotation, whole)
	}
	return denominatorBeats(float64(n))
}

// denominatorBeats converts a note denominator to beats. A negative
// denominator gives negative beats, which the scheduler plays as a rest.
func denominatorBeats(d float64) (float64, error) {
	if d == 0 {
		return 0, errors.New("denominator must not be zero")
	}
	return 4.0 / d, nil
}
