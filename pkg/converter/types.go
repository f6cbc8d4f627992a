// Package converter provides conversion between MIDI files and chord progressions
package converter

import (
	"errors"

	"github.com/james-see/chordkit/pkg/chord"
)

// Default rendering values
const (
	DefaultTicksPerQuarter = 480
	DefaultTempo           = 120.0
	DefaultOctave          = 4
	DefaultVelocity        = 96
	DefaultBeatsPerChord   = 4
)

// Octaves in which every chord, slash note included, fits the MIDI key range
const (
	MinOctave = 0
	MaxOctave = 7
)

// ErrEmptyProgression is returned when a progression holds no chords
var ErrEmptyProgression = errors.New("progression has no chords")

// Voicing controls how chords are rendered to MIDI
type Voicing struct {
	Octave        int     // Octave of the root (C4 = MIDI 60)
	Velocity      uint8   // Note-on velocity (1-127)
	BeatsPerChord int     // Quarter notes each chord sounds for
	Tempo         float64 // Beats per minute
	Channel       uint8   // MIDI channel (0-15)
}

// DefaultVoicing returns one bar of 4/4 per chord at 120 BPM, rooted in octave 4
func DefaultVoicing() Voicing {
	return Voicing{
		Octave:        DefaultOctave,
		Velocity:      DefaultVelocity,
		BeatsPerChord: DefaultBeatsPerChord,
		Tempo:         DefaultTempo,
	}
}

// Progression is an ordered sequence of chords
type Progression struct {
	Name   string
	Chords []*chord.Chord
	Tempo  float64
}

// Names returns the chord names in order
func (p *Progression) Names() []string {
	names := make([]string, len(p.Chords))
	for i, c := range p.Chords {
		names[i] = c.Name()
	}
	return names
}

// Detection is a chord recognised in a MIDI file
type Detection struct {
	Tick  int64        // Absolute tick where the chord starts sounding
	Keys  []uint8      // Sounding MIDI keys, ascending
	Chord *chord.Chord // Identified chord
}

// Converter handles format conversions
type Converter struct {
	voicing Voicing
}

// New creates a new Converter with the given voicing
func New(voicing Voicing) *Converter {
	return &Converter{voicing: voicing}
}

// GetVoicing returns the current voicing
func (c *Converter) GetVoicing() Voicing {
	return c.voicing
}

// SetVoicing sets the voicing used when rendering MIDI
func (c *Converter) SetVoicing(voicing Voicing) {
	c.voicing = voicing
}
