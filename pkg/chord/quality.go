package chord

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/james-see/chordkit/pkg/theory"
)

// QualityDef pairs a quality label with the intervals above the root that define it
type QualityDef struct {
	Label       string
	Description string
	Intervals   []theory.Interval
}

// qualityTable is the only definition of which interval sets form named chords.
// Keys are ascending and exclude both the root and any slash note.
var qualityTable = []QualityDef{
	{"", "major triad", ivs(4, 7)},
	{"m", "minor triad", ivs(3, 7)},
	{"dim", "diminished triad", ivs(3, 6)},
	{"aug", "augmented triad", ivs(4, 8)},
	{"sus2", "suspended second", ivs(2, 7)},
	{"sus4", "suspended fourth", ivs(5, 7)},
	{"5", "power chord", ivs(7)},
	{"add9", "major add nine", ivs(2, 4, 7)},
	{"madd9", "minor add nine", ivs(2, 3, 7)},
	{"add11", "major add eleven", ivs(4, 5, 7)},
	{"6", "major sixth", ivs(4, 7, 9)},
	{"m6", "minor sixth", ivs(3, 7, 9)},
	{"7", "dominant seventh", ivs(4, 7, 10)},
	{"maj7", "major seventh", ivs(4, 7, 11)},
	{"m7", "minor seventh", ivs(3, 7, 10)},
	{"mMaj7", "minor major seventh", ivs(3, 7, 11)},
	{"m7b5", "half-diminished seventh", ivs(3, 6, 10)},
	{"dim7", "diminished seventh", ivs(3, 6, 9)},
	{"aug7", "augmented seventh", ivs(4, 8, 10)},
	{"augMaj7", "augmented major seventh", ivs(4, 8, 11)},
	{"7sus4", "dominant seventh suspended fourth", ivs(5, 7, 10)},
	{"7b5", "dominant seventh flat five", ivs(4, 6, 10)},
	{"69", "six nine", ivs(2, 4, 7, 9)},
	{"9", "dominant ninth", ivs(2, 4, 7, 10)},
	{"maj9", "major ninth", ivs(2, 4, 7, 11)},
	{"m9", "minor ninth", ivs(2, 3, 7, 10)},
	{"7b9", "dominant seventh flat nine", ivs(1, 4, 7, 10)},
	{"7#9", "dominant seventh sharp nine", ivs(3, 4, 7, 10)},
	{"11", "dominant eleventh", ivs(2, 5, 7, 10)},
	{"m11", "minor eleventh", ivs(2, 3, 5, 7, 10)},
	{"13", "dominant thirteenth", ivs(2, 4, 7, 9, 10)},
	{"maj13", "major thirteenth", ivs(2, 4, 7, 9, 11)},
	{"m13", "minor thirteenth", ivs(2, 3, 7, 9, 10)},
}

var (
	labelByKey       = make(map[string]string, len(qualityTable))
	intervalsByLabel = make(map[string][]theory.Interval, len(qualityTable))
)

func init() {
	for _, q := range qualityTable {
		key := CreateIntervalKey(q.Intervals)
		if _, dup := labelByKey[key]; dup {
			panic("chord: duplicate quality key " + key)
		}
		if _, dup := intervalsByLabel[q.Label]; dup {
			panic("chord: duplicate quality label " + q.Label)
		}
		if strings.Contains(q.Label, "/") {
			panic("chord: quality label contains '/': " + q.Label)
		}
		labelByKey[key] = q.Label
		intervalsByLabel[q.Label] = q.Intervals
	}
}

func ivs(semitones ...int) []theory.Interval {
	res := make([]theory.Interval, len(semitones))
	for i, s := range semitones {
		res[i] = theory.Interval(s)
	}
	return res
}

// CreateIntervalKey joins interval sizes in their given order, e.g. "4-7-11"
func CreateIntervalKey(intervals []theory.Interval) string {
	parts := make([]string, len(intervals))
	for i, iv := range intervals {
		parts[i] = strconv.Itoa(iv.Semitones())
	}
	return strings.Join(parts, "-")
}

// Classify returns the quality label for an exact interval sequence.
// Order and count matter: no subset, superset or reordering matches.
func Classify(intervals []theory.Interval) (string, error) {
	label, ok := labelByKey[CreateIntervalKey(intervals)]
	if !ok {
		return "", fmt.Errorf("%w: intervals [%s]", ErrUnknownChordQuality, shortNames(intervals))
	}
	return label, nil
}

// IntervalsForQuality returns the interval sequence that defines label
func IntervalsForQuality(label string) ([]theory.Interval, error) {
	intervals, ok := intervalsByLabel[label]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownQualityLabel, label)
	}
	return append([]theory.Interval(nil), intervals...), nil
}

// Qualities returns a copy of the quality table in declaration order
func Qualities() []QualityDef {
	res := make([]QualityDef, len(qualityTable))
	for i, q := range qualityTable {
		q.Intervals = append([]theory.Interval(nil), q.Intervals...)
		res[i] = q
	}
	return res
}

func shortNames(intervals []theory.Interval) string {
	names := make([]string, len(intervals))
	for i, iv := range intervals {
		names[i] = iv.ShortName()
	}
	return strings.Join(names, " ")
}
