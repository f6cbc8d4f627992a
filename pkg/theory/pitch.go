// Package theory provides the pitch-class and interval arithmetic used by chordkit
package theory

import (
	"errors"
	"fmt"
	"math"
)

// PitchClass is one of the twelve pitch classes, spelled with flats.
// Its numeric value is the semitone index 1..12 (C = 1); the zero value is NoPitch.
type PitchClass uint8

const (
	NoPitch PitchClass = iota
	C
	Db
	D
	Eb
	E
	F
	Gb
	G
	Ab
	A
	Bb
	B
)

// Semitone reference constants
const (
	SemitonesPerOctave = 12
	ReferenceMIDINote  = 69    // A4
	ReferenceFrequency = 440.0 // Hz
)

// ErrInvalidPitchClass is returned for unknown spellings or indices outside 1..12
var ErrInvalidPitchClass = errors.New("invalid pitch class")

var pitchNames = [...]string{"", "C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "Bb", "B"}

// PitchClasses returns all twelve pitch classes in ascending semitone order
func PitchClasses() []PitchClass {
	return []PitchClass{C, Db, D, Eb, E, F, Gb, G, Ab, A, Bb, B}
}

// Valid reports whether p is one of the twelve pitch classes
func (p PitchClass) Valid() bool {
	return p >= C && p <= B
}

// SemitoneIndex returns the 1-based semitone index (C = 1, B = 12)
func (p PitchClass) SemitoneIndex() int {
	return int(p)
}

// String returns the canonical spelling, or "?" for an invalid value
func (p PitchClass) String() string {
	if !p.Valid() {
		return "?"
	}
	return pitchNames[p]
}

// PitchClassFromIndex maps a semitone index 1..12 back to its pitch class
func PitchClassFromIndex(index int) (PitchClass, error) {
	if index < 1 || index > SemitonesPerOctave {
		return NoPitch, fmt.Errorf("%w: index %d", ErrInvalidPitchClass, index)
	}
	return PitchClass(index), nil
}

// ParsePitchClass parses a canonical spelling such as "C", "Eb" or "Bb".
// Sharps are not accepted; use the flat spelling of the same semitone.
func ParsePitchClass(s string) (PitchClass, error) {
	for _, p := range PitchClasses() {
		if pitchNames[p] == s {
			return p, nil
		}
	}
	return NoPitch, fmt.Errorf("%w: %q", ErrInvalidPitchClass, s)
}

// MIDINote returns the MIDI note number of p in the given octave (C4 = 60)
func MIDINote(p PitchClass, octave int) int {
	return (octave+1)*SemitonesPerOctave + p.SemitoneIndex() - 1
}

// PitchClassFromMIDI returns the pitch class of a MIDI note number
func PitchClassFromMIDI(note uint8) PitchClass {
	return PitchClass(int(note)%SemitonesPerOctave + 1)
}

// Frequency returns the equal-tempered fundamental of p in the given octave, tuned to A4 = 440 Hz
func Frequency(p PitchClass, octave int) float64 {
	offset := MIDINote(p, octave) - ReferenceMIDINote
	return ReferenceFrequency * math.Pow(2, float64(offset)/SemitonesPerOctave)
}
