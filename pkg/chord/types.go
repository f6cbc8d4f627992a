// Package chord derives chord identity from notes and parses chord names
package chord

import (
	"errors"

	"github.com/james-see/chordkit/pkg/theory"
)

// Construction and parse failures
var (
	ErrUnknownChordQuality = errors.New("unknown chord quality")
	ErrUnknownQualityLabel = errors.New("unknown quality label")
	ErrMalformedChordName  = errors.New("malformed chord name")
)

// Chord is an immutable harmonic structure over a root.
// Color notes are the members other than the root and the slash note,
// kept in ascending interval order.
type Chord struct {
	root      theory.PitchClass
	colors    []theory.PitchClass
	intervals []theory.Interval
	slash     theory.PitchClass
	quality   string
}

// Root returns the chord's root
func (c *Chord) Root() theory.PitchClass {
	return c.root
}

// Slash returns the bass note and whether the chord has one
func (c *Chord) Slash() (theory.PitchClass, bool) {
	return c.slash, c.slash != theory.NoPitch
}

// IsSlash reports whether the chord is voiced over a separate bass note
func (c *Chord) IsSlash() bool {
	return c.slash != theory.NoPitch
}

// Quality returns the canonical quality label, e.g. "maj7"
func (c *Chord) Quality() string {
	return c.quality
}

// Intervals returns the color notes' intervals above the root, ascending
func (c *Chord) Intervals() []theory.Interval {
	return append([]theory.Interval(nil), c.intervals...)
}

// ColorNotes returns the members other than root and slash, ascending by interval
func (c *Chord) ColorNotes() []theory.PitchClass {
	return append([]theory.PitchClass(nil), c.colors...)
}

// Notes returns every sounding pitch class: root, color notes, then the slash note
func (c *Chord) Notes() []theory.PitchClass {
	res := make([]theory.PitchClass, 0, len(c.colors)+2)
	res = append(res, c.root)
	res = append(res, c.colors...)
	if c.IsSlash() && !c.Contains(c.slash) {
		res = append(res, c.slash)
	}
	return res
}

// Contains reports whether p is the root or a color note
func (c *Chord) Contains(p theory.PitchClass) bool {
	if p == c.root {
		return true
	}
	for _, n := range c.colors {
		if n == p {
			return true
		}
	}
	return false
}

// Name returns root + quality, with "/slash" appended for slash chords
func (c *Chord) Name() string {
	name := c.root.String() + c.quality
	if c.IsSlash() {
		name += "/" + c.slash.String()
	}
	return name
}

func (c *Chord) String() string {
	return c.Name()
}

// MarshalText encodes the chord as its name
func (c *Chord) MarshalText() ([]byte, error) {
	return []byte(c.Name()), nil
}

// UnmarshalText parses a chord name into c
func (c *Chord) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*c = *parsed
	return nil
}
