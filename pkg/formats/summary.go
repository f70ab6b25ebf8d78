package formats

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shenwei356/xopen"

	"github.com/scttfrdmn/readstats-go/pkg/metrics"
)

// Optional summary table columns.
const (
	columnChannel   = "channel"
	columnStartTime = "start_time"
	columnDuration  = "duration"
	columnBarcode   = "barcode_arrangement"
)

// summaryLayout holds column positions resolved from the header row.
// Optional columns that are absent have index -1.
type summaryLayout struct {
	lengthName, qualityName string
	length, quality         int
	channel, startTime      int
	duration, barcode       int
}

func newSummaryLayout(header []string, opts Options) (summaryLayout, error) {
	lengthName, qualityName, err := opts.summaryColumns()
	if err != nil {
		return summaryLayout{}, err
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	lookup := func(name string) int {
		if i, ok := index[name]; ok {
			return i
		}
		return -1
	}

	layout := summaryLayout{
		lengthName:  lengthName,
		qualityName: qualityName,
		length:      lookup(lengthName),
		quality:     lookup(qualityName),
		channel:     lookup(columnChannel),
		startTime:   lookup(columnStartTime),
		duration:    lookup(columnDuration),
		barcode:     -1,
	}
	if opts.Barcoded {
		layout.barcode = lookup(columnBarcode)
	}

	if layout.length < 0 {
		return layout, fmt.Errorf("%w: column %s", ErrMissingField, lengthName)
	}
	if layout.quality < 0 {
		return layout, fmt.Errorf("%w: column %s", ErrMissingField, qualityName)
	}
	return layout, nil
}

func normalizeSummary(ctx context.Context, path string, opts Options) ([]metrics.Read, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	in, err := xopen.Ropen(path)
	if err != nil {
		if errors.Is(err, xopen.ErrNoContent) {
			return nil, fmt.Errorf("%w: empty summary table", ErrMissingField)
		}
		return nil, err
	}
	defer in.Close()

	r := csv.NewReader(in)
	r.Comma = '\t'
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty summary table", ErrMissingField)
		}
		return nil, fmt.Errorf("%w: header: %v", ErrMalformedRecord, err)
	}
	layout, err := newSummaryLayout(append([]string(nil), header...), opts)
	if err != nil {
		return nil, err
	}

	prog := newProgress(ctx, opts, path)
	reads := []metrics.Read{}
	for {
		row, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%w: row %d: %v", ErrMalformedRecord, prog.count+2, err)
		}
		read, err := layout.read(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", prog.count+2, err)
		}
		reads = append(reads, read)
		if err := prog.tick(); err != nil {
			return nil, err
		}
	}
	return reads, nil
}

func (l summaryLayout) read(row []string) (metrics.Read, error) {
	lengthText, ok := field(row, l.length)
	if !ok {
		return metrics.Read{}, fmt.Errorf("%w: column %s", ErrMissingField, l.lengthName)
	}
	length, err := strconv.ParseUint(lengthText, 10, 32)
	if err != nil {
		return metrics.Read{}, fmt.Errorf("%w: column %s: invalid length %q", ErrMissingField, l.lengthName, lengthText)
	}

	qualityText, ok := field(row, l.quality)
	if !ok {
		return metrics.Read{}, fmt.Errorf("%w: column %s", ErrMissingField, l.qualityName)
	}
	q, ok := parseFinite(qualityText)
	if !ok {
		return metrics.Read{}, fmt.Errorf("%w: column %s: invalid quality %q", ErrMissingField, l.qualityName, qualityText)
	}

	var meta metrics.RunMetadata
	if v, ok := field(row, l.channel); ok {
		if ch, err := strconv.ParseUint(v, 10, 16); err == nil {
			meta.ChannelID = metrics.Ptr(uint16(ch))
		}
	}
	if v, ok := field(row, l.startTime); ok {
		if ts, ok := parseTimestamp(v); ok {
			meta.StartTime = &ts
		}
	}
	if v, ok := field(row, l.duration); ok {
		if d, ok := parseFinite(v); ok {
			meta.Duration = &d
		}
	}

	read := metrics.NewRead(nil, uint32(length)).WithQuality(q).WithRunMetadata(meta)
	if v, ok := field(row, l.barcode); ok {
		read = read.WithBarcode(v)
	}
	return read, nil
}

// field returns the trimmed cell at i. ok is false for absent columns,
// short rows and empty cells.
func field(row []string, i int) (string, bool) {
	if i < 0 || i >= len(row) {
		return "", false
	}
	v := strings.TrimSpace(row[i])
	return v, v != ""
}
