package report

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/scttfrdmn/readstats-go/pkg/metrics"
)

// maxDistributionRows limits the channel and barcode tables.
const maxDistributionRows = 20

// WriteSummary writes a human readable statistics block.
func WriteSummary(w io.Writer, s metrics.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "General summary:\n")
	fmt.Fprintf(tw, "  Number of reads:\t%d\n", s.ReadCount)
	writeStats(tw, "Read length", &s.LengthStats)
	writeStats(tw, "Read quality", s.QualityStats)
	writeStats(tw, "Mapping quality", s.MappingQualityStats)
	writeStats(tw, "Percent identity", s.PercentIdentityStats)

	if len(s.ChannelDistribution) > 0 {
		fmt.Fprintf(tw, "\nReads per channel (%d channels):\n", len(s.ChannelDistribution))
		channels := make([]uint16, 0, len(s.ChannelDistribution))
		for ch := range s.ChannelDistribution {
			channels = append(channels, ch)
		}
		sort.Slice(channels, func(i, j int) bool {
			ci, cj := s.ChannelDistribution[channels[i]], s.ChannelDistribution[channels[j]]
			if ci != cj {
				return ci > cj
			}
			return channels[i] < channels[j]
		})
		for i, ch := range channels {
			if i == maxDistributionRows {
				fmt.Fprintf(tw, "  ...\t\n")
				break
			}
			fmt.Fprintf(tw, "  %d:\t%d\n", ch, s.ChannelDistribution[ch])
		}
	}

	if len(s.BarcodeDistribution) > 0 {
		fmt.Fprintf(tw, "\nReads per barcode:\n")
		barcodes := make([]string, 0, len(s.BarcodeDistribution))
		for bc := range s.BarcodeDistribution {
			barcodes = append(barcodes, bc)
		}
		sort.Strings(barcodes)
		for _, bc := range barcodes {
			fmt.Fprintf(tw, "  %s:\t%d\n", bc, s.BarcodeDistribution[bc])
		}
	}

	return tw.Flush()
}

func writeStats(w io.Writer, label string, st *metrics.Stats) {
	if st == nil {
		fmt.Fprintf(w, "\n%s:\tnot available\n", label)
		return
	}
	fmt.Fprintf(w, "\n%s (n=%d):\n", label, st.Count)
	fmt.Fprintf(w, "  Mean:\t%.2f\n", st.Mean)
	fmt.Fprintf(w, "  Median:\t%.2f\n", st.Median)
	fmt.Fprintf(w, "  Std dev:\t%.2f\n", st.StdDev)
	fmt.Fprintf(w, "  Min:\t%.2f\n", st.Min)
	fmt.Fprintf(w, "  Q25:\t%.2f\n", st.Q25)
	fmt.Fprintf(w, "  Q75:\t%.2f\n", st.Q75)
	fmt.Fprintf(w, "  Max:\t%.2f\n", st.Max)
}
