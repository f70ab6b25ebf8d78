package metrics

import "github.com/exascience/pargo/parallel"

// Summary is derived from a read population. Optional statistics and
// distributions are nil when no read reports the underlying field.
type Summary struct {
	ReadCount            int            `json:"read_count"`
	LengthStats          Stats          `json:"length_stats"`
	QualityStats         *Stats         `json:"quality_stats,omitempty"`
	MappingQualityStats  *Stats         `json:"mapping_quality_stats,omitempty"`
	PercentIdentityStats *Stats         `json:"percent_identity_stats,omitempty"`
	ChannelDistribution  map[uint16]int `json:"channel_distribution,omitempty"`
	BarcodeDistribution  map[string]int `json:"barcode_distribution,omitempty"`
}

// Summarize computes a Summary over reads. Each projection only considers
// reads that report the field; the projections run concurrently.
func Summarize(reads []Read) Summary {
	s := Summary{ReadCount: len(reads)}

	parallel.Do(
		func() {
			lengths := make([]float64, len(reads))
			for i := range reads {
				lengths[i] = float64(reads[i].Length)
			}
			s.LengthStats = NewStats(lengths)
		},
		func() {
			var values []float64
			for i := range reads {
				if q := reads[i].Quality; q != nil {
					values = append(values, *q)
				}
			}
			s.QualityStats = optionalStats(values)
		},
		func() {
			var values []float64
			for i := range reads {
				if q := reads[i].MappingQuality; q != nil {
					values = append(values, float64(*q))
				}
			}
			s.MappingQualityStats = optionalStats(values)
		},
		func() {
			var values []float64
			for i := range reads {
				if p := reads[i].PercentIdentity; p != nil {
					values = append(values, *p)
				}
			}
			s.PercentIdentityStats = optionalStats(values)
		},
		func() {
			s.ChannelDistribution = channelDistribution(reads)
			s.BarcodeDistribution = barcodeDistribution(reads)
		},
	)

	return s
}

func optionalStats(values []float64) *Stats {
	if len(values) == 0 {
		return nil
	}
	stats := NewStats(values)
	return &stats
}

func channelDistribution(reads []Read) map[uint16]int {
	var counts map[uint16]int
	for i := range reads {
		if ch := reads[i].ChannelID; ch != nil {
			if counts == nil {
				counts = make(map[uint16]int)
			}
			counts[*ch]++
		}
	}
	return counts
}

func barcodeDistribution(reads []Read) map[string]int {
	var counts map[string]int
	for i := range reads {
		if bc := reads[i].Barcode; bc != nil {
			if counts == nil {
				counts = make(map[string]int)
			}
			counts[*bc]++
		}
	}
	return counts
}
