// Package extract runs record normalization over many input files in
// parallel and combines the per-file results into one collection.
package extract

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/scttfrdmn/readstats-go/pkg/formats"
	"github.com/scttfrdmn/readstats-go/pkg/metrics"
)

var (
	// ErrNoInput is returned when no input files are given.
	ErrNoInput = errors.New("no input files")
	// ErrInputNotFound is returned when an input path does not exist.
	ErrInputNotFound = errors.New("input file not found")
	// ErrNoReads is returned when the combined result holds no reads.
	ErrNoReads = errors.New("no reads found in input files")
)

// Run normalizes every file with cfg.Format and combines the results with
// cfg.Combine. Either every file succeeds or no collection is returned.
func Run(ctx context.Context, cfg Config, files []string) (*metrics.Collection, error) {
	if len(files) == 0 {
		return nil, ErrNoInput
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	totalSize, err := inputSize(files)
	if err != nil {
		return nil, err
	}

	logger := cfg.logger()
	if !cfg.Huge && cfg.MemoryLimit > 0 && totalSize > cfg.MemoryLimit {
		logger.Warn("input is larger than the memory limit, consider --huge",
			"input", FormatSize(totalSize), "limit", FormatSize(cfg.MemoryLimit))
	}

	workers := cfg.workersFor(len(files))
	logger.Info("starting extraction",
		"files", len(files),
		"format", cfg.Format.String(),
		"workers", workers,
		"input", FormatSize(totalSize),
	)

	progress := cfg.progress()
	progress.Start(len(files))
	collections, err := newFilePool(&cfg, workers).run(ctx, files)
	progress.Stop()
	if err != nil {
		return nil, err
	}

	combined := metrics.Combine(collections, cfg.Combine, cfg.Names)
	if len(combined.Reads) == 0 {
		return nil, ErrNoReads
	}
	logger.Info("extraction complete", "reads", len(combined.Reads), "combine", cfg.Combine.String())
	return combined, nil
}

// inputSize checks that every file exists and sums their sizes.
func inputSize(files []string) (int64, error) {
	var total int64
	for _, path := range files {
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return 0, fmt.Errorf("%w: %s", ErrInputNotFound, path)
			}
			return 0, fmt.Errorf("failed to stat input %s: %w", path, err)
		}
		if info.IsDir() {
			return 0, fmt.Errorf("%w: %s is a directory", ErrInputNotFound, path)
		}
		total += info.Size()
	}
	return total, nil
}

// FromFastq extracts metrics from one FASTQ file with default settings.
func FromFastq(ctx context.Context, path string) (*metrics.Collection, error) {
	return FromFiles(ctx, []string{path}, formats.Fastq, 0)
}

// FromBam extracts metrics from one BAM file with default settings.
func FromBam(ctx context.Context, path string) (*metrics.Collection, error) {
	return FromFiles(ctx, []string{path}, formats.Bam, 0)
}

// FromFasta extracts metrics from one FASTA file with default settings.
func FromFasta(ctx context.Context, path string) (*metrics.Collection, error) {
	return FromFiles(ctx, []string{path}, formats.Fasta, 0)
}

// FromFiles extracts metrics from files of one format. A workers value of
// zero keeps the detected default.
func FromFiles(ctx context.Context, files []string, format formats.Format, workers int) (*metrics.Collection, error) {
	cfg := NewConfig()
	cfg.Format = format
	if workers > 0 {
		cfg.Workers = workers
	}
	return Run(ctx, cfg, files)
}

// DetectFormat guesses the format shared by files from their extensions.
func DetectFormat(files []string) (formats.Format, error) {
	if len(files) == 0 {
		return 0, ErrNoInput
	}
	var detected formats.Format
	for i, path := range files {
		f, ok := formats.FromExtension(path)
		if !ok {
			return 0, fmt.Errorf("%w: cannot detect format of %s", formats.ErrUnsupported, path)
		}
		if i > 0 && f != detected {
			return 0, fmt.Errorf("%w: mixed formats %s and %s", formats.ErrUnsupported, detected, f)
		}
		detected = f
	}
	return detected, nil
}
