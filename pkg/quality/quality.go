// Package quality converts per-base Phred scores into a single read quality.
//
// Phred scores are averaged in probability space: each score is turned into
// its error probability, the probabilities are averaged, and the mean is
// converted back to the Phred scale. The arithmetic mean of the raw scores is
// a different quantity and is never used here.
package quality

import "math"

// Unknown is the per-base quality value BAM uses when qualities are missing.
const Unknown = 0xff

// SangerOffset is the ASCII offset of FASTQ quality strings.
const SangerOffset = 33

var errorProbs [256]float64

func init() {
	for i := range errorProbs {
		errorProbs[i] = math.Pow(10, float64(i)/-10)
	}
}

// ErrorProbability returns the base-call error probability for a Phred score.
func ErrorProbability(q byte) float64 {
	return errorProbs[q]
}

// Phred converts an error probability back to the Phred scale.
func Phred(p float64) float64 {
	return -10 * math.Log10(p)
}

// Average returns the mean quality of raw Phred scores. The boolean is false
// for an empty slice, which callers must treat as "no quality reported".
// The result always lies within the range of the input scores.
func Average(scores []byte) (float64, bool) {
	if len(scores) == 0 {
		return 0, false
	}
	var sum float64
	lo, hi := scores[0], scores[0]
	for _, q := range scores {
		sum += errorProbs[q]
		lo, hi = min(lo, q), max(hi, q)
	}
	return clamp(Phred(sum/float64(len(scores))), lo, hi), true
}

// AverageASCII is Average for an ASCII-encoded quality string. Characters
// below the offset count as zero.
func AverageASCII(qual []byte, offset int) (float64, bool) {
	if len(qual) == 0 {
		return 0, false
	}
	var sum float64
	lo, hi := byte(math.MaxUint8), byte(0)
	for _, c := range qual {
		q := byte(max(int(c)-offset, 0))
		sum += errorProbs[q]
		lo, hi = min(lo, q), max(hi, q)
	}
	return clamp(Phred(sum/float64(len(qual))), lo, hi), true
}

// clamp keeps rounding in the log conversion from leaving [lo, hi].
func clamp(v float64, lo, hi byte) float64 {
	return math.Min(math.Max(v, float64(lo)), float64(hi))
}

// AllUnknown reports whether every score is the Unknown sentinel.
// An empty slice is considered unknown.
func AllUnknown(scores []byte) bool {
	for _, q := range scores {
		if q != Unknown {
			return false
		}
	}
	return true
}
