package chord

import (
	"fmt"

	"github.com/james-see/chordkit/pkg/theory"
)

// Identify names an unordered set of sounding pitch classes heard over bass.
// The bass is tried as the root first. Otherwise each other note is tried
// as the root with the bass as slash: first keeping the bass as a chord
// member (inversions such as C/E), then as a non-member bass note.
// Pass theory.NoPitch as bass to use the first note.
func Identify(notes []theory.PitchClass, bass theory.PitchClass) (*Chord, error) {
	unique := dedupe(notes)
	if len(unique) == 0 {
		return nil, fmt.Errorf("%w: no notes", ErrUnknownChordQuality)
	}
	if bass == theory.NoPitch {
		bass = unique[0]
	}

	candidates := []theory.PitchClass{bass}
	for _, n := range unique {
		if n != bass {
			candidates = append(candidates, n)
		}
	}

	if c, err := New(bass, unique, theory.NoPitch); err == nil {
		return c, nil
	}
	for _, root := range candidates[1:] {
		if c, err := New(root, unique, theory.NoPitch); err == nil {
			return FromQuality(root, c.Quality(), bass)
		}
	}
	for _, root := range candidates[1:] {
		if c, err := New(root, unique, bass); err == nil {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: notes %s over %s", ErrUnknownChordQuality, joinPitches(unique), bass)
}

func dedupe(notes []theory.PitchClass) []theory.PitchClass {
	seen := make(map[theory.PitchClass]bool, len(notes))
	var res []theory.PitchClass
	for _, n := range notes {
		if seen[n] {
			continue
		}
		seen[n] = true
		res = append(res, n)
	}
	return res
}
