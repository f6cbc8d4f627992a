package chord

import (
	"testing"

	"github.com/james-see/chordkit/pkg/theory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifierBijection(t *testing.T) {
	for _, q := range Qualities() {
		t.Run(q.Label, func(t *testing.T) {
			intervals, err := IntervalsForQuality(q.Label)
			require.NoError(t, err)

			label, err := Classify(intervals)
			require.NoError(t, err)
			if label != q.Label {
				t.Errorf("Classify(IntervalsForQuality(%q)) = %q", q.Label, label)
			}
		})
	}
}

func TestQualityTableInvariants(t *testing.T) {
	for _, q := range Qualities() {
		assert.NotContains(t, q.Label, "/", "label %q", q.Label)
		require.NotEmpty(t, q.Intervals, "label %q", q.Label)
		for i, iv := range q.Intervals {
			assert.True(t, iv.Valid(), "label %q", q.Label)
			assert.NotEqual(t, theory.Octave, iv, "label %q", q.Label)
			if i > 0 && iv <= q.Intervals[i-1] {
				t.Errorf("quality %q intervals not strictly ascending: %v", q.Label, q.Intervals)
			}
		}
	}
}

func TestClassifyExactMatchOnly(t *testing.T) {
	tests := []struct {
		name      string
		intervals []theory.Interval
	}{
		{"strict subset", []theory.Interval{theory.MajorThird}},
		{"strict superset", []theory.Interval{theory.MajorThird, theory.PerfectFifth, theory.MajorSixth, theory.MajorSeventh, theory.MinorSecond}},
		{"reordered", []theory.Interval{theory.PerfectFifth, theory.MajorThird}},
		{"duplicate", []theory.Interval{theory.MajorThird, theory.MajorThird, theory.PerfectFifth}},
		{"empty", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Classify(tt.intervals)
			assert.ErrorIs(t, err, ErrUnknownChordQuality)
		})
	}
}

func TestIntervalsForQualityUnknown(t *testing.T) {
	_, err := IntervalsForQuality("min")
	assert.ErrorIs(t, err, ErrUnknownQualityLabel)
}

func TestQualitiesReturnsCopy(t *testing.T) {
	qs := Qualities()
	qs[0].Intervals[0] = theory.MinorSecond

	intervals, err := IntervalsForQuality(qs[0].Label)
	require.NoError(t, err)
	assert.Equal(t, theory.MajorThird, intervals[0])
}

func TestCreateIntervalKey(t *testing.T) {
	key := CreateIntervalKey([]theory.Interval{theory.MajorThird, theory.PerfectFifth, theory.MajorSeventh})
	assert.Equal(t, "4-7-11", key)
	assert.Equal(t, "", CreateIntervalKey(nil))
}
