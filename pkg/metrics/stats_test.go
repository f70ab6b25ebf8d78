package metrics

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStats(t *testing.T) {
	stats := NewStats([]float64{1, 2, 3, 4, 5})

	assert.Equal(t, 5, stats.Count)
	assert.Equal(t, 3.0, stats.Mean)
	assert.Equal(t, 3.0, stats.Median)
	assert.Equal(t, 1.0, stats.Min)
	assert.Equal(t, 5.0, stats.Max)
	assert.Equal(t, 2.0, stats.Q25)
	assert.Equal(t, 4.0, stats.Q75)
	assert.InDelta(t, 1.41421356, stats.StdDev, 1e-8)
}

func TestNewStatsEmpty(t *testing.T) {
	assert.Equal(t, Stats{}, NewStats(nil))
	assert.Equal(t, Stats{}, NewStats([]float64{}))
}

func TestNewStatsSingleValue(t *testing.T) {
	stats := NewStats([]float64{42})
	assert.Equal(t, Stats{Count: 1, Mean: 42, Median: 42, Min: 42, Max: 42, Q25: 42, Q75: 42}, stats)
}

func TestNewStatsDuplicates(t *testing.T) {
	stats := NewStats([]float64{7, 7, 7, 7})
	assert.Equal(t, 7.0, stats.Median)
	assert.Equal(t, 7.0, stats.Q25)
	assert.Equal(t, 7.0, stats.Q75)
	assert.Equal(t, 0.0, stats.StdDev)
}

func TestNewStatsDoesNotReorderInput(t *testing.T) {
	values := []float64{3, 1, 2}
	NewStats(values)
	assert.Equal(t, []float64{3, 1, 2}, values)
}

func TestMedianOddAndEven(t *testing.T) {
	assert.Equal(t, 5.0, NewStats([]float64{9, 1, 5}).Median)
	assert.Equal(t, 99.5, NewStats([]float64{100, 99}).Median)
	assert.Equal(t, 2.5, NewStats([]float64{4, 1, 3, 2}).Median)
}

func TestPercentileInterpolation(t *testing.T) {
	sorted := []float64{10, 20, 30, 40}
	// index 0.75 between 10 and 20
	assert.InDelta(t, 17.5, Percentile(sorted, 25), 1e-12)
	assert.InDelta(t, 32.5, Percentile(sorted, 75), 1e-12)
	assert.Equal(t, 10.0, Percentile(sorted, 0))
	assert.Equal(t, 40.0, Percentile(sorted, 100))
	assert.Equal(t, 0.0, Percentile(nil, 50))
}

func TestStatsOrdering(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for n := 1; n < 50; n++ {
		values := make([]float64, n)
		for i := range values {
			values[i] = rng.NormFloat64() * 100
		}
		s := NewStats(values)
		require.LessOrEqual(t, s.Min, s.Q25)
		require.LessOrEqual(t, s.Q25, s.Median)
		require.LessOrEqual(t, s.Median, s.Q75)
		require.LessOrEqual(t, s.Q75, s.Max)
	}
}

func TestStatsLargeInputMatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	values := make([]float64, parallelSortThreshold*2+3)
	for i := range values {
		values[i] = float64(rng.Intn(5000))
	}
	s := NewStats(values)

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	assert.Equal(t, sorted[0], s.Min)
	assert.Equal(t, sorted[len(sorted)-1], s.Max)
	assert.Equal(t, Percentile(sorted, 50), s.Median)
	assert.Equal(t, Percentile(sorted, 25), s.Q25)
	assert.Equal(t, Percentile(sorted, 75), s.Q75)
}
