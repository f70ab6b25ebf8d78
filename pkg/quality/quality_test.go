package quality

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAverage(t *testing.T) {
	tests := []struct {
		name   string
		scores []byte
		want   float64
	}{
		{name: "uniform", scores: []byte{40, 40, 40, 40, 40}, want: 40},
		{name: "single", scores: []byte{20}, want: 20},
		{name: "mixed", scores: []byte{40, 3, 3, 40, 3}, want: 5.21791},
		{name: "zero", scores: []byte{0, 0}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Average(tt.scores)
			require.True(t, ok)
			assert.InDelta(t, tt.want, got, 1e-4)
		})
	}
}

func TestAverageEmpty(t *testing.T) {
	_, ok := Average(nil)
	assert.False(t, ok)
	_, ok = AverageASCII([]byte{}, SangerOffset)
	assert.False(t, ok)
}

func TestAverageIsNotArithmeticMean(t *testing.T) {
	got, ok := Average([]byte{10, 30})
	require.True(t, ok)
	// mean error probability (0.1+0.001)/2 dominates
	assert.InDelta(t, Phred((0.1+0.001)/2), got, 1e-9)
	assert.Less(t, got, 20.0)
}

func TestAverageOrderInvariantAndBounded(t *testing.T) {
	scores := []byte{7, 38, 12, 25, 40, 2, 19}
	want, ok := Average(scores)
	require.True(t, ok)

	reversed := make([]byte, len(scores))
	for i, q := range scores {
		reversed[len(scores)-1-i] = q
	}
	got, ok := Average(reversed)
	require.True(t, ok)
	assert.InDelta(t, want, got, 1e-9)

	assert.GreaterOrEqual(t, want, 2.0)
	assert.LessOrEqual(t, want, 40.0)
}

func TestAverageUniformIsExact(t *testing.T) {
	for q := 0; q <= 93; q++ {
		scores := []byte{byte(q), byte(q), byte(q), byte(q)}
		got, ok := Average(scores)
		require.True(t, ok)
		assert.Equal(t, float64(q), got, "q=%d", q)

		got, ok = AverageASCII([]byte{byte(q + SangerOffset), byte(q + SangerOffset)}, SangerOffset)
		require.True(t, ok)
		assert.Equal(t, float64(q), got, "ascii q=%d", q)
	}
}

func TestAverageWithinScoreRange(t *testing.T) {
	tests := [][]byte{
		{2, 3},
		{39, 40, 41},
		{0, 93},
		{17},
	}
	for _, scores := range tests {
		got, ok := Average(scores)
		require.True(t, ok)
		lo, hi := scores[0], scores[0]
		for _, q := range scores {
			lo, hi = min(lo, q), max(hi, q)
		}
		assert.GreaterOrEqual(t, got, float64(lo), "%v", scores)
		assert.LessOrEqual(t, got, float64(hi), "%v", scores)
	}
}

func TestAverageASCII(t *testing.T) {
	got, ok := AverageASCII([]byte("IIIII"), SangerOffset)
	require.True(t, ok)
	assert.InDelta(t, 40, got, 1e-9)

	raw, _ := Average([]byte{40, 3, 3, 40, 3})
	got, _ = AverageASCII([]byte("I$$I$"), SangerOffset)
	assert.InDelta(t, raw, got, 1e-9)
}

func TestRoundTrip(t *testing.T) {
	for q := 0; q < 94; q++ {
		assert.InDelta(t, float64(q), Phred(ErrorProbability(byte(q))), 1e-9)
	}
	assert.True(t, math.IsInf(Phred(0), 1))
}

func TestAllUnknown(t *testing.T) {
	assert.True(t, AllUnknown([]byte{Unknown, Unknown}))
	assert.True(t, AllUnknown(nil))
	assert.False(t, AllUnknown([]byte{Unknown, 30}))
}
