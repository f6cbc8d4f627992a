package theory

import "fmt"

// Subtract returns the interval one ascends from b to reach a.
// Equal pitch classes are an Octave apart.
func Subtract(a, b PitchClass) (Interval, error) {
	if !a.Valid() || !b.Valid() {
		return 0, fmt.Errorf("%w: %d - %d", ErrInvalidPitchClass, a, b)
	}
	return IntervalFromSemitones(a.SemitoneIndex() - b.SemitoneIndex())
}

// Add returns the pitch class reached by ascending i from root
func Add(root PitchClass, i Interval) (PitchClass, error) {
	if !root.Valid() {
		return NoPitch, fmt.Errorf("%w: %d", ErrInvalidPitchClass, root)
	}
	if !i.Valid() {
		return NoPitch, fmt.Errorf("%w: %d", ErrInvalidInterval, i)
	}
	return PitchClassFromIndex(mod12(root.SemitoneIndex()-1+i.Semitones()) + 1)
}

// Transpose moves p by any number of semitones, up or down
func Transpose(p PitchClass, semitones int) (PitchClass, error) {
	if !p.Valid() {
		return NoPitch, fmt.Errorf("%w: %d", ErrInvalidPitchClass, p)
	}
	return PitchClassFromIndex(mod12(p.SemitoneIndex()-1+semitones) + 1)
}
