package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/scttfrdmn/readstats-go/pkg/report"
)

var extractCmd = &cobra.Command{
	Use:   "extract <files...>",
	Short: "Extract per-read metrics from sequencing files",
	Long: `Extract per-read metrics (length, quality, alignment and run metadata)
from one or more sequencing files and write them with summary statistics.

Files are processed in parallel, one file per worker, and combined in the
order given. With --combine track every read is labelled with its dataset.

Output formats:
  json    - reads and summary statistics (default)
  tsv     - one row per read, absent values left empty
  summary - human readable statistics block

Examples:
  # Metrics for two FASTQ files as JSON
  readstats extract -t fastq run1.fastq.gz run2.fastq.gz

  # Per-read TSV from a BAM file, primary alignments only
  readstats extract -t bam --keep-supplementary=false -f tsv -o reads.tsv.gz sample.bam

  # Label datasets when combining
  readstats extract -t fastq --combine track --names control,treated a.fq b.fq

  # Upload directly to S3
  readstats extract -t summary -o s3://bucket/qc/reads.json.zst sequencing_summary.txt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := collect(cmd, args)
		if err != nil || c == nil {
			return err
		}
		return writeOutput(cmd, func(w io.Writer, f report.Format) error {
			return report.Write(w, c, f)
		})
	},
}

func init() {
	addInputFlags(extractCmd)
	addOutputFlags(extractCmd, "json")
}
