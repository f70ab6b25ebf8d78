package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/scttfrdmn/readstats-go/pkg/metrics"
	"github.com/scttfrdmn/readstats-go/pkg/report"
)

var (
	minLength        uint32
	minQuality       float64
	lengthPercentile float64
	datasetName      string
	filterStatsOnly  bool
)

var filterCmd = &cobra.Command{
	Use:   "filter <files...>",
	Short: "Filter reads and report the remaining ones",
	Long: `Extract metrics, keep only the reads that pass every given filter and
report them. Statistics are recomputed from the kept reads.

Filters are applied in this order: dataset, minimum length, minimum
quality, length percentile. Reads without a quality never pass
--min-quality.

Examples:
  readstats filter -t fastq --min-length 1000 --min-quality 10 reads.fastq
  readstats filter -t fastq --length-percentile 90 --stats-only reads.fastq
  readstats filter -t fastq --combine track --names a,b --dataset b a.fq b.fq`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if lengthPercentile < 0 || lengthPercentile > 100 {
			return fmt.Errorf("length percentile must be between 0 and 100, got %g", lengthPercentile)
		}

		c, err := collect(cmd, args)
		if err != nil || c == nil {
			return err
		}

		filtered := applyFilters(cmd, c)
		fmt.Fprintf(os.Stderr, "Kept %d of %d reads\n", filtered.Summary.ReadCount, c.Summary.ReadCount)

		return writeOutput(cmd, func(w io.Writer, f report.Format) error {
			if filterStatsOnly {
				return report.WriteStats(w, filtered.Summary, f)
			}
			return report.Write(w, filtered, f)
		})
	},
}

func init() {
	addInputFlags(filterCmd)
	addOutputFlags(filterCmd, "json")

	filterCmd.Flags().Uint32Var(&minLength, "min-length", 0,
		"Keep reads at least this long")
	filterCmd.Flags().Float64Var(&minQuality, "min-quality", 0,
		"Keep reads with at least this average quality")
	filterCmd.Flags().Float64Var(&lengthPercentile, "length-percentile", 0,
		"Keep reads at or above this length percentile (0-100)")
	filterCmd.Flags().StringVar(&datasetName, "dataset", "",
		"Keep reads of one dataset (requires --combine track)")
	filterCmd.Flags().BoolVar(&filterStatsOnly, "stats-only", false,
		"Write only the statistics of the kept reads")
}

// applyFilters applies only the filters given on the command line.
func applyFilters(cmd *cobra.Command, c *metrics.Collection) *metrics.Collection {
	flags := cmd.Flags()
	if flags.Changed("dataset") {
		c = c.ForDataset(datasetName)
	}
	if flags.Changed("min-length") {
		c = c.FilterByLength(minLength)
	}
	if flags.Changed("min-quality") {
		c = c.FilterByQuality(minQuality)
	}
	if flags.Changed("length-percentile") {
		c = c.AboveLengthPercentile(lengthPercentile)
	}
	return c
}
