// Package report renders read collections as TSV rows, JSON documents or
// a plain text statistics block.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/scttfrdmn/readstats-go/pkg/metrics"
)

// Columns is the TSV header, in output order.
var Columns = []string{
	"id",
	"length",
	"quality",
	"aligned_length",
	"aligned_quality",
	"mapping_quality",
	"percent_identity",
	"channel_id",
	"start_time",
	"duration",
	"barcode",
	"run_id",
	"dataset",
}

// WriteTSV writes one row per read. Absent attributes are empty cells.
func WriteTSV(w io.Writer, reads []metrics.Read) error {
	tw := csv.NewWriter(w)
	tw.Comma = '\t'

	if err := tw.Write(Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	row := make([]string, len(Columns))
	for i := range reads {
		fillRow(row, &reads[i])
		if err := tw.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	tw.Flush()
	return tw.Error()
}

func fillRow(row []string, r *metrics.Read) {
	row[0] = strCell(r.ID)
	row[1] = strconv.FormatUint(uint64(r.Length), 10)
	row[2] = floatCell(r.Quality)
	row[3] = ""
	if r.AlignedLength != nil {
		row[3] = strconv.FormatUint(uint64(*r.AlignedLength), 10)
	}
	row[4] = floatCell(r.AlignedQuality)
	row[5] = ""
	if r.MappingQuality != nil {
		row[5] = strconv.Itoa(int(*r.MappingQuality))
	}
	row[6] = floatCell(r.PercentIdentity)
	row[7] = ""
	if r.ChannelID != nil {
		row[7] = strconv.Itoa(int(*r.ChannelID))
	}
	row[8] = ""
	if r.StartTime != nil {
		row[8] = r.StartTime.UTC().Format(time.RFC3339Nano)
	}
	row[9] = floatCell(r.Duration)
	row[10] = strCell(r.Barcode)
	row[11] = strCell(r.RunID)
	row[12] = strCell(r.Dataset)
}

func strCell(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func floatCell(f *float64) string {
	if f == nil {
		return ""
	}
	return formatFloat(*f)
}
