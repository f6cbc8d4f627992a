// Package scale builds scales over a root and tests chord membership
package scale

import (
	"errors"
	"fmt"
	"strings"

	"github.com/james-see/chordkit/pkg/chord"
	"github.com/james-see/chordkit/pkg/theory"
)

// Mode identifies a scale's step pattern
type Mode string

const (
	ModeMajor           Mode = "major"
	ModeNaturalMinor    Mode = "minor"
	ModeHarmonicMinor   Mode = "harmonic-minor"
	ModeMelodicMinor    Mode = "melodic-minor"
	ModeDorian          Mode = "dorian"
	ModePhrygian        Mode = "phrygian"
	ModeLydian          Mode = "lydian"
	ModeMixolydian      Mode = "mixolydian"
	ModeLocrian         Mode = "locrian"
	ModeMajorPentatonic Mode = "major-pentatonic"
	ModeMinorPentatonic Mode = "minor-pentatonic"
	ModeBlues           Mode = "blues"
)

// ErrUnknownMode is returned by ParseMode for unrecognised names
var ErrUnknownMode = errors.New("unknown scale mode")

// semitone offsets above the root, root excluded
var modeSteps = map[Mode][]int{
	ModeMajor:           {2, 4, 5, 7, 9, 11},
	ModeNaturalMinor:    {2, 3, 5, 7, 8, 10},
	ModeHarmonicMinor:   {2, 3, 5, 7, 8, 11},
	ModeMelodicMinor:    {2, 3, 5, 7, 9, 11},
	ModeDorian:          {2, 3, 5, 7, 9, 10},
	ModePhrygian:        {1, 3, 5, 7, 8, 10},
	ModeLydian:          {2, 4, 6, 7, 9, 11},
	ModeMixolydian:      {2, 4, 5, 7, 9, 10},
	ModeLocrian:         {1, 3, 5, 6, 8, 10},
	ModeMajorPentatonic: {2, 4, 7, 9},
	ModeMinorPentatonic: {3, 5, 7, 10},
	ModeBlues:           {3, 5, 6, 7, 10},
}

var modeAliases = map[string]Mode{
	"ionian":          ModeMajor,
	"aeolian":         ModeNaturalMinor,
	"natural-minor":   ModeNaturalMinor,
	"pentatonic":      ModeMajorPentatonic,
	"minor-blues":     ModeBlues,
	"harmonicminor":   ModeHarmonicMinor,
	"melodicminor":    ModeMelodicMinor,
	"majorpentatonic": ModeMajorPentatonic,
	"minorpentatonic": ModeMinorPentatonic,
}

// Modes returns every supported mode
func Modes() []Mode {
	return []Mode{
		ModeMajor, ModeNaturalMinor, ModeHarmonicMinor, ModeMelodicMinor,
		ModeDorian, ModePhrygian, ModeLydian, ModeMixolydian, ModeLocrian,
		ModeMajorPentatonic, ModeMinorPentatonic, ModeBlues,
	}
}

// ParseMode accepts a mode name or alias, case-insensitively
func ParseMode(name string) (Mode, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, " ", "-")
	n = strings.ReplaceAll(n, "_", "-")
	if _, ok := modeSteps[Mode(n)]; ok {
		return Mode(n), nil
	}
	if m, ok := modeAliases[n]; ok {
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, name)
}

// Scale is a root plus a mode
type Scale struct {
	Root theory.PitchClass
	Mode Mode
}

// New creates a scale, validating root and mode
func New(root theory.PitchClass, mode Mode) (*Scale, error) {
	if !root.Valid() {
		return nil, fmt.Errorf("%w: root %d", theory.ErrInvalidPitchClass, root)
	}
	if _, ok := modeSteps[mode]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	return &Scale{Root: root, Mode: mode}, nil
}

// Name returns e.g. "D dorian"
func (s *Scale) Name() string {
	return s.Root.String() + " " + string(s.Mode)
}

// Notes returns the scale degrees in ascending order starting at the root
func (s *Scale) Notes() []theory.PitchClass {
	steps := modeSteps[s.Mode]
	notes := make([]theory.PitchClass, 0, len(steps)+1)
	notes = append(notes, s.Root)
	for _, step := range steps {
		p, err := theory.Transpose(s.Root, step)
		if err != nil {
			continue
		}
		notes = append(notes, p)
	}
	return notes
}

// Contains reports whether p is a degree of the scale
func (s *Scale) Contains(p theory.PitchClass) bool {
	for _, n := range s.Notes() {
		if n == p {
			return true
		}
	}
	return false
}

// ContainsChord reports whether every sounding note of c, slash included, is in the scale
func (s *Scale) ContainsChord(c *chord.Chord) bool {
	for _, n := range c.Notes() {
		if !s.Contains(n) {
			return false
		}
	}
	return true
}

// Triads stacks thirds on each degree of a seven-note scale and names the result.
// Degrees whose stacked notes form no known quality are omitted.
func (s *Scale) Triads() []*chord.Chord {
	return s.stack(3)
}

// Sevenths is like Triads but stacks four notes per degree
func (s *Scale) Sevenths() []*chord.Chord {
	return s.stack(4)
}

func (s *Scale) stack(size int) []*chord.Chord {
	notes := s.Notes()
	if len(notes) != 7 {
		return nil
	}
	var res []*chord.Chord
	for degree := range notes {
		voicing := make([]theory.PitchClass, size)
		for k := 0; k < size; k++ {
			voicing[k] = notes[(degree+2*k)%len(notes)]
		}
		c, err := chord.New(notes[degree], voicing, theory.NoPitch)
		if err != nil {
			continue
		}
		res = append(res, c)
	}
	return res
}
