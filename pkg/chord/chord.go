package chord

import (
	"fmt"
	"sort"
	"strings"

	"github.com/james-see/chordkit/pkg/theory"
)

// New builds a chord from a root, a set of notes and an optional slash note
// (theory.NoPitch for none). The root and slash are removed from notes, the
// remaining notes are measured against the root and the resulting intervals
// must match a quality exactly. A slash equal to the root is dropped.
func New(root theory.PitchClass, notes []theory.PitchClass, slash theory.PitchClass) (*Chord, error) {
	if !root.Valid() {
		return nil, fmt.Errorf("%w: root %d", theory.ErrInvalidPitchClass, root)
	}
	if slash != theory.NoPitch && !slash.Valid() {
		return nil, fmt.Errorf("%w: slash %d", theory.ErrInvalidPitchClass, slash)
	}
	if slash == root {
		slash = theory.NoPitch
	}

	seen := make(map[theory.PitchClass]bool, len(notes))
	var colors []theory.PitchClass
	for _, n := range notes {
		if !n.Valid() {
			return nil, fmt.Errorf("%w: note %d", theory.ErrInvalidPitchClass, n)
		}
		if n == root || n == slash || seen[n] {
			continue
		}
		seen[n] = true
		colors = append(colors, n)
	}

	intervals := make([]theory.Interval, len(colors))
	for i, n := range colors {
		iv, err := theory.Subtract(n, root)
		if err != nil {
			return nil, err
		}
		intervals[i] = iv
	}
	sort.Slice(colors, func(i, j int) bool {
		a, _ := theory.Subtract(colors[i], root)
		b, _ := theory.Subtract(colors[j], root)
		return a < b
	})
	sort.Slice(intervals, func(i, j int) bool {
		return intervals[i] < intervals[j]
	})

	quality, err := Classify(intervals)
	if err != nil {
		return nil, fmt.Errorf("%s with notes %s: %w", root, joinPitches(colors), err)
	}

	return &Chord{
		root:      root,
		colors:    colors,
		intervals: intervals,
		slash:     slash,
		quality:   quality,
	}, nil
}

// FromQuality builds a chord from a root, a quality label and an optional slash note
func FromQuality(root theory.PitchClass, quality string, slash theory.PitchClass) (*Chord, error) {
	if !root.Valid() {
		return nil, fmt.Errorf("%w: root %d", theory.ErrInvalidPitchClass, root)
	}
	if slash != theory.NoPitch && !slash.Valid() {
		return nil, fmt.Errorf("%w: slash %d", theory.ErrInvalidPitchClass, slash)
	}
	intervals, err := IntervalsForQuality(quality)
	if err != nil {
		return nil, err
	}
	if slash == root {
		slash = theory.NoPitch
	}

	colors := make([]theory.PitchClass, len(intervals))
	for i, iv := range intervals {
		n, err := theory.Add(root, iv)
		if err != nil {
			return nil, err
		}
		colors[i] = n
	}

	return &Chord{
		root:      root,
		colors:    colors,
		intervals: intervals,
		slash:     slash,
		quality:   quality,
	}, nil
}

// Parse reads a chord name of the form Root[b]Quality[/Slash], e.g. "Cmaj9/G"
func Parse(name string) (*Chord, error) {
	segments := strings.Split(name, "/")
	if len(segments) > 2 {
		return nil, fmt.Errorf("%w: %q has more than one '/'", ErrMalformedChordName, name)
	}
	for _, s := range segments {
		if s == "" {
			return nil, fmt.Errorf("%w: %q has an empty segment", ErrMalformedChordName, name)
		}
	}

	root, quality, err := splitRoot(segments[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrMalformedChordName, name, err)
	}

	slash := theory.NoPitch
	if len(segments) == 2 {
		slash, err = theory.ParsePitchClass(segments[1])
		if err != nil {
			return nil, fmt.Errorf("%w: %q: slash note: %v", ErrMalformedChordName, name, err)
		}
	}

	c, err := FromQuality(root, quality, slash)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", name, err)
	}
	return c, nil
}

// MustParse is like Parse but panics on error
func MustParse(name string) *Chord {
	c, err := Parse(name)
	if err != nil {
		panic(err)
	}
	return c
}

// splitRoot separates the root spelling from the quality label
func splitRoot(segment string) (theory.PitchClass, string, error) {
	n := 1
	if len(segment) > 1 && segment[1] == 'b' {
		n = 2
	}
	root, err := theory.ParsePitchClass(segment[:n])
	if err != nil {
		return theory.NoPitch, "", err
	}
	return root, segment[n:], nil
}

// Transpose returns the same chord moved by the given number of semitones
func (c *Chord) Transpose(semitones int) (*Chord, error) {
	root, err := theory.Transpose(c.root, semitones)
	if err != nil {
		return nil, err
	}
	slash := theory.NoPitch
	if c.IsSlash() {
		if slash, err = theory.Transpose(c.slash, semitones); err != nil {
			return nil, err
		}
	}
	return FromQuality(root, c.quality, slash)
}

// Description returns a sentence describing the chord's root, notes and intervals
func (c *Chord) Description() string {
	var s strings.Builder
	if c.IsSlash() {
		s.WriteString("This is a slash chord named ")
		s.WriteString(c.Name())
		s.WriteString(" over ")
		s.WriteString(c.slash.String())
	} else {
		s.WriteString("This is a chord named ")
		s.WriteString(c.Name())
	}

	names := make([]string, len(c.intervals))
	for i, iv := range c.intervals {
		names[i] = iv.Name()
	}
	fmt.Fprintf(&s, ", with root note %s, and component notes %s, which are respectively %s above the root.",
		c.root, joinPitches(c.colors), strings.Join(names, ", "))
	return s.String()
}

func joinPitches(notes []theory.PitchClass) string {
	names := make([]string, len(notes))
	for i, n := range notes {
		names[i] = n.String()
	}
	return strings.Join(names, ", ")
}
