package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/scttfrdmn/readstats-go/pkg/metrics"
)

// WriteJSON writes the collection as an indented JSON document. Absent
// read attributes and statistics are omitted.
func WriteJSON(w io.Writer, c *metrics.Collection) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// WriteSummaryJSON writes only the summary as JSON.
func WriteSummaryJSON(w io.Writer, s metrics.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
