package theory

import (
	"errors"
	"fmt"
)

// Interval is an ascending distance of 1..12 semitones. A distance of
// zero modulo the octave is represented as Octave, never as zero.
type Interval uint8

const (
	MinorSecond Interval = iota + 1
	MajorSecond
	MinorThird
	MajorThird
	PerfectFourth
	Tritone
	PerfectFifth
	MinorSixth
	MajorSixth
	MinorSeventh
	MajorSeventh
	Octave
)

// ErrInvalidInterval is returned when a semitone count has no Interval
var ErrInvalidInterval = errors.New("invalid interval")

type intervalNames struct {
	full  string
	short string
}

var intervalTable = [...]intervalNames{
	MinorSecond:   {"minor second", "m2"},
	MajorSecond:   {"major second", "M2"},
	MinorThird:    {"minor third", "m3"},
	MajorThird:    {"major third", "M3"},
	PerfectFourth: {"perfect fourth", "P4"},
	Tritone:       {"tritone", "TT"},
	PerfectFifth:  {"perfect fifth", "P5"},
	MinorSixth:    {"minor sixth", "m6"},
	MajorSixth:    {"major sixth", "M6"},
	MinorSeventh:  {"minor seventh", "m7"},
	MajorSeventh:  {"major seventh", "M7"},
	Octave:        {"octave", "P8"},
}

// Intervals returns every interval in ascending order
func Intervals() []Interval {
	res := make([]Interval, 0, SemitonesPerOctave)
	for i := MinorSecond; i <= Octave; i++ {
		res = append(res, i)
	}
	return res
}

// Valid reports whether i is one of the twelve intervals
func (i Interval) Valid() bool {
	return i >= MinorSecond && i <= Octave
}

// Semitones returns the interval size, 1..12
func (i Interval) Semitones() int {
	return int(i)
}

// Name returns the full name, e.g. "major third"
func (i Interval) Name() string {
	if !i.Valid() {
		return "unknown interval"
	}
	return intervalTable[i].full
}

// ShortName returns the abbreviated name, e.g. "M3"
func (i Interval) ShortName() string {
	if !i.Valid() {
		return "?"
	}
	return intervalTable[i].short
}

func (i Interval) String() string {
	return i.Name()
}

// IntervalFromSemitones reduces n modulo the octave and returns the matching
// interval. Multiples of twelve, including zero, map to Octave.
func IntervalFromSemitones(n int) (Interval, error) {
	r := mod12(n)
	if r == 0 {
		r = SemitonesPerOctave
	}
	i := Interval(r)
	if !i.Valid() {
		return 0, fmt.Errorf("%w: %d semitones", ErrInvalidInterval, n)
	}
	return i, nil
}

// ParseInterval accepts either the full or the short name of an interval
func ParseInterval(s string) (Interval, error) {
	for _, i := range Intervals() {
		if intervalTable[i].full == s || intervalTable[i].short == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidInterval, s)
}

func mod12(n int) int {
	return ((n % SemitonesPerOctave) + SemitonesPerOctave) % SemitonesPerOctave
}
