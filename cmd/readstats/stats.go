package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/scttfrdmn/readstats-go/pkg/report"
)

var statsCmd = &cobra.Command{
	Use:   "stats <files...>",
	Short: "Show summary statistics for sequencing files",
	Long: `Display summary statistics (read count, length, quality, mapping quality,
channel and barcode distributions) without per-read output.

Example:
  readstats stats -t fastq reads.fastq.gz
  readstats stats -t bam -f json sample.bam`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := collect(cmd, args)
		if err != nil || c == nil {
			return err
		}
		return writeOutput(cmd, func(w io.Writer, f report.Format) error {
			return report.WriteStats(w, c.Summary, f)
		})
	},
}

func init() {
	addInputFlags(statsCmd)
	addOutputFlags(statsCmd, "summary")
}
