package metrics

import (
	"math"
	"sort"

	psort "github.com/exascience/pargo/sort"
)

// parallelSortThreshold is the number of values above which sorting is
// done with the parallel stable sort.
const parallelSortThreshold = 1 << 15

// Stats is a descriptive summary of a multiset of real numbers.
type Stats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	StdDev float64 `json:"std_dev"`
	Q25    float64 `json:"q25"`
	Q75    float64 `json:"q75"`
}

// NewStats computes a Stats over values. The input slice is not modified.
// An empty input yields the zero Stats.
func NewStats(values []float64) Stats {
	if len(values) == 0 {
		return Stats{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sortValues(sorted)

	n := len(sorted)
	var sum float64
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(n)

	var sq float64
	for _, v := range sorted {
		d := v - mean
		sq += d * d
	}

	return Stats{
		Count:  n,
		Mean:   mean,
		Median: Percentile(sorted, 50),
		Min:    sorted[0],
		Max:    sorted[n-1],
		StdDev: math.Sqrt(sq / float64(n)),
		Q25:    Percentile(sorted, 25),
		Q75:    Percentile(sorted, 75),
	}
}

// Percentile returns the p-th percentile (0-100) of ascending values using
// linear interpolation between the closest ranks at index p/100*(n-1).
// It returns 0 for an empty slice.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	index := p / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower == upper {
		return sorted[lower]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

func sortValues(values []float64) {
	if len(values) < parallelSortThreshold {
		sort.Float64s(values)
		return
	}
	psort.StableSort(stableFloatSorter(values))
}

type stableFloatSorter []float64

func (s stableFloatSorter) SequentialSort(i, j int) {
	sort.Float64s(s[i:j])
}

func (s stableFloatSorter) NewTemp() psort.StableSorter {
	return stableFloatSorter(make([]float64, len(s)))
}

func (s stableFloatSorter) Len() int {
	return len(s)
}

func (s stableFloatSorter) Less(i, j int) bool {
	return s[i] < s[j]
}

func (s stableFloatSorter) Assign(source psort.StableSorter) func(i, j, len int) {
	dst, src := s, source.(stableFloatSorter)
	return func(i, j, len int) {
		copy(dst[i:i+len], src[j:j+len])
	}
}
