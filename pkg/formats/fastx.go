package formats

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/bio/seqio/fastx"
	"github.com/shenwei356/xopen"

	"github.com/scttfrdmn/readstats-go/pkg/metrics"
	"github.com/scttfrdmn/readstats-go/pkg/quality"
)

// fastxMode selects which attributes are taken from a FASTQ/FASTA entry.
type fastxMode int

const (
	fastqFull fastxMode = iota
	fastqRich
	fastqMinimal
	fastaOnly
)

func init() {
	// Long reads carry IUPAC codes and lower case bases; length is all we need.
	seq.ValidateSeq = false
}

func normalizeFastx(ctx context.Context, path string, opts Options, mode fastxMode) ([]metrics.Read, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() == 0 {
		return []metrics.Read{}, nil
	}

	reader, err := fastx.NewReader(seq.Unlimit, path, fastx.DefaultIDRegexp)
	if err != nil {
		if errors.Is(err, xopen.ErrNoContent) {
			return []metrics.Read{}, nil
		}
		return nil, fmt.Errorf("failed to open sequence reader: %w", err)
	}
	defer reader.Close()

	prog := newProgress(ctx, opts, path)
	reads := make([]metrics.Read, 0, 1024)
	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%w: record %d: %v", ErrMalformedRecord, prog.count+1, err)
		}

		reads = append(reads, fastxRead(record, mode))
		if err := prog.tick(); err != nil {
			return nil, err
		}
	}
	return reads, nil
}

// fastxRead copies what it needs out of record, which the reader reuses.
func fastxRead(record *fastx.Record, mode fastxMode) metrics.Read {
	var id *string
	if mode != fastqMinimal {
		id = metrics.Ptr(string(record.ID))
	}
	read := metrics.NewRead(id, uint32(len(record.Seq.Seq)))

	if mode != fastaOnly {
		if q, ok := quality.AverageASCII(record.Seq.Qual, quality.SangerOffset); ok {
			read = read.WithQuality(q)
		}
	}

	if mode == fastqRich {
		if meta, ok := parseRichMetadata(description(record)); ok {
			read = read.WithRunMetadata(meta)
		}
	}
	return read
}

// description returns the header text following the identifier.
func description(record *fastx.Record) string {
	rest := bytes.TrimPrefix(record.Name, record.ID)
	return string(bytes.TrimSpace(rest))
}
