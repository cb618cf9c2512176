package phase

import (
	"fmt"
	"strings"
)

// ChordType is the short notation of a chord
type ChordType string

const (
	ChordMajor      ChordType = "maj"
	ChordMinor      ChordType = "min"
	ChordDiminished ChordType = "dim"
	ChordMajor7     ChordType = "maj7"
	ChordDominant7  ChordType = "dom7"
	ChordMinor7     ChordType = "min7"
	ChordSus2       ChordType = "sus2"
	ChordSus4       ChordType = "sus4"
	ChordAugmented  ChordType = "aug"
)

type chordEntry struct {
	kind      ChordType
	intervals []int
}

// Semitone offsets from the root, in table order
var chordTable = []chordEntry{
	{ChordMajor, []int{0, 4, 7}},
	{ChordDiminished, []int{0, 3, 6}},
	{ChordMajor7, []int{0, 4, 7, 11}},
	{ChordDominant7, []int{0, 4, 7, 10}},
	{ChordMinor, []int{0, 3, 7}},
	{ChordMinor7, []int{0, 3, 7, 10}},
	{ChordSus2, []int{0, 2, 7}},
	{ChordSus4, []int{0, 5, 7}},
	{ChordAugmented, []int{0, 4, 8}},
}

// ChordTypes lists every known chord type in table order
func ChordTypes() []ChordType {
	out := make([]ChordType, len(chordTable))
	for i, e := range chordTable {
		out[i] = e.kind
	}
	return out
}

// Intervals returns a copy of the chord's semitone offsets
func (c ChordType) Intervals() ([]int, bool) {
	for _, e := range chordTable {
		if e.kind == c {
			out := make([]int, len(e.intervals))
			copy(out, e.intervals)
			return out, true
		}
	}
	return nil, false
}

// ParseChordType accepts the short notation in any case
func ParseChordType(s string) (ChordType, error) {
	c := ChordType(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := c.Intervals(); !ok {
		return "", fmt.Errorf("unknown chord type %q", s)
	}
	return c, nil
}

// BuildChord returns a chord element whose pitches are root plus each
// interval. ok is false for an unknown chord type.
func BuildChord(c ChordType, root int) (el ScoreElement, ok bool) {
	intervals, ok := c.Intervals()
	if !ok {
		return ScoreElement{}, false
	}
	for i := range intervals {
		intervals[i] += root
	}
	return Chord(intervals, Duration{}), true
}
