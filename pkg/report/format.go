package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/scttfrdmn/readstats-go/pkg/metrics"
)

// Format selects the report layout.
type Format int

const (
	TSV Format = iota
	JSON
	Text
)

func (f Format) String() string {
	switch f {
	case TSV:
		return "tsv"
	case JSON:
		return "json"
	case Text:
		return "summary"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat parses "tsv", "json" or "summary".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "tsv":
		return TSV, nil
	case "json":
		return JSON, nil
	case "summary", "text":
		return Text, nil
	}
	return 0, fmt.Errorf("unsupported output format %q (expected tsv, json or summary)", s)
}

// Write renders a collection: per-read rows for TSV, reads and summary for
// JSON, and the statistics block for summary.
func Write(w io.Writer, c *metrics.Collection, f Format) error {
	switch f {
	case TSV:
		return WriteTSV(w, c.Reads)
	case JSON:
		return WriteJSON(w, c)
	case Text:
		return WriteSummary(w, c.Summary)
	}
	return fmt.Errorf("unsupported output format %v", f)
}

// WriteStats renders only the summary of a collection.
func WriteStats(w io.Writer, s metrics.Summary, f Format) error {
	switch f {
	case TSV:
		return writeStatsTSV(w, s)
	case JSON:
		return WriteSummaryJSON(w, s)
	case Text:
		return WriteSummary(w, s)
	}
	return fmt.Errorf("unsupported output format %v", f)
}

// writeStatsTSV writes one row per available statistic.
func writeStatsTSV(w io.Writer, s metrics.Summary) error {
	rows := []struct {
		name  string
		stats *metrics.Stats
	}{
		{"length", &s.LengthStats},
		{"quality", s.QualityStats},
		{"mapping_quality", s.MappingQualityStats},
		{"percent_identity", s.PercentIdentityStats},
	}

	if _, err := fmt.Fprintln(w, "metric\tcount\tmean\tmedian\tmin\tmax\tstd_dev\tq25\tq75"); err != nil {
		return err
	}
	for _, row := range rows {
		if row.stats == nil {
			continue
		}
		st := row.stats
		fields := []string{
			row.name,
			strconv.Itoa(st.Count),
			formatFloat(st.Mean),
			formatFloat(st.Median),
			formatFloat(st.Min),
			formatFloat(st.Max),
			formatFloat(st.StdDev),
			formatFloat(st.Q25),
			formatFloat(st.Q75),
		}
		if _, err := fmt.Fprintln(w, strings.Join(fields, "\t")); err != nil {
			return err
		}
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
