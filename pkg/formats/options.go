package formats

import (
	"fmt"
	"io"
	"log/slog"
)

// Read types accepted for summary tables.
const (
	ReadType1D  = "1D"
	ReadType2D  = "2D"
	ReadType1D2 = "1D2"
)

// Options tune how records are normalized.
type Options struct {
	// KeepSupplementary keeps supplementary alignments (bam, cram).
	KeepSupplementary bool
	// ReadType selects the summary columns: 1D, 2D or 1D2.
	ReadType string
	// Barcoded reads barcode_arrangement from summary tables.
	Barcoded bool
	// Logger receives progress messages. Nil discards them.
	Logger *slog.Logger
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		KeepSupplementary: true,
		ReadType:          ReadType1D,
	}
}

// Validate checks the options that do not depend on the input.
func (o Options) Validate() error {
	switch o.ReadType {
	case "", ReadType1D, ReadType2D, ReadType1D2:
		return nil
	}
	return fmt.Errorf("%w: read type %q (expected 1D, 2D or 1D2)", ErrUnsupported, o.ReadType)
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.Logger
}

// summaryColumns returns the length and quality column names for the read type.
func (o Options) summaryColumns() (length, quality string, err error) {
	switch o.ReadType {
	case "", ReadType1D:
		return "sequence_length_template", "mean_qscore_template", nil
	case ReadType2D, ReadType1D2:
		return "sequence_length_2d", "mean_qscore_2d", nil
	}
	return "", "", fmt.Errorf("%w: read type %q", ErrUnsupported, o.ReadType)
}
