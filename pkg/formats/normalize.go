// Package formats turns sequencing files into normalized read records.
//
// Every supported layout (FASTQ variants, FASTA, BAM/SAM, unaligned BAM,
// CRAM and sequencing summary tables) is read by one normalizer that
// produces metrics.Read values. Attributes a layout does not carry are left
// absent instead of being zero-filled.
package formats

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/scttfrdmn/readstats-go/pkg/metrics"
)

// ProgressInterval is the number of reads between progress log lines.
const ProgressInterval = 10000

// Normalize reads every record of the file at path and converts it to
// metrics.Read values in file order. Errors are wrapped in *FileError.
func Normalize(ctx context.Context, path string, format Format, opts Options) ([]metrics.Read, error) {
	if err := opts.Validate(); err != nil {
		return nil, fileError(path, format, err)
	}

	var (
		reads []metrics.Read
		err   error
	)
	switch format {
	case Fastq:
		reads, err = normalizeFastx(ctx, path, opts, fastqFull)
	case FastqRich:
		reads, err = normalizeFastx(ctx, path, opts, fastqRich)
	case FastqMinimal:
		reads, err = normalizeFastx(ctx, path, opts, fastqMinimal)
	case Fasta:
		reads, err = normalizeFastx(ctx, path, opts, fastaOnly)
	case Bam:
		reads, err = normalizeBamFile(ctx, path, opts, true)
	case Ubam:
		reads, err = normalizeBamFile(ctx, path, opts, false)
	case Cram:
		reads, err = normalizeCram(path)
	case Summary:
		reads, err = normalizeSummary(ctx, path, opts)
	default:
		err = fmt.Errorf("%w: format %v", ErrUnsupported, format)
	}
	if err != nil {
		return nil, fileError(path, format, err)
	}

	opts.logger().Info("finished file", "path", path, "format", format.String(), "reads", len(reads))
	return reads, nil
}

// cancelCheckInterval is the number of records between context checks.
const cancelCheckInterval = 1024

// progress counts records, logs every ProgressInterval of them and
// reports cancellation of the surrounding context.
type progress struct {
	ctx    context.Context
	logger *slog.Logger
	path   string
	count  int
}

func newProgress(ctx context.Context, opts Options, path string) *progress {
	return &progress{ctx: ctx, logger: opts.logger(), path: path}
}

func (p *progress) tick() error {
	p.count++
	if p.count%ProgressInterval == 0 {
		p.logger.Info("processed reads", "path", p.path, "reads", p.count)
	}
	if p.count%cancelCheckInterval == 0 {
		return p.ctx.Err()
	}
	return nil
}
