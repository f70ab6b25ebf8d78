package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/scttfrdmn/readstats-go/pkg/extract"
	"github.com/scttfrdmn/readstats-go/pkg/formats"
	"github.com/scttfrdmn/readstats-go/pkg/metrics"
	"github.com/scttfrdmn/readstats-go/pkg/report"
)

// Flags shared by extract, stats and filter.
var (
	inputFormat       string
	workers           int
	huge              bool
	readType          string
	barcoded          bool
	keepSupplementary bool
	combine           string
	names             []string
	memoryLimit       string
	showConfig        bool
	showProgress      bool

	outputPath string
	force      bool
)

func addInputFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&inputFormat, "type", "t", "",
		"Input format: "+strings.Join(formats.Names(), ", ")+" (default: detect from extension)")
	flags.IntVarP(&workers, "threads", "j", 0,
		"Number of files processed in parallel (0 = auto-detect performance cores)")
	flags.BoolVar(&huge, "huge", false,
		"Process one file at a time to bound memory use")
	flags.StringVar(&readType, "read-type", formats.ReadType1D,
		"Summary table read type: 1D, 2D, 1D2")
	flags.BoolVar(&barcoded, "barcoded", false,
		"Read barcode assignments from summary tables")
	flags.BoolVar(&keepSupplementary, "keep-supplementary", true,
		"Keep supplementary alignments")
	flags.StringVar(&combine, "combine", "simple",
		"Combine multiple files: simple, track")
	flags.StringSliceVar(&names, "names", nil,
		"Dataset names for --combine track (comma separated, in file order)")
	flags.StringVar(&memoryLimit, "memory-limit", "",
		"Warn when input exceeds this size (e.g., 8G) - default: available RAM")
	flags.BoolVar(&showConfig, "show-config", false,
		"Show effective configuration and exit")
	flags.BoolVar(&showProgress, "progress", false,
		"Print progress to stderr")
}

func addOutputFlags(cmd *cobra.Command, defaultFormat string) {
	flags := cmd.Flags()
	flags.StringP("format", "f", defaultFormat,
		"Output format: tsv, json, summary")
	flags.StringVarP(&outputPath, "output", "o", "",
		"Output path, s3:// URI, .gz or .zst for compression (default: stdout)")
	flags.BoolVar(&force, "force", false,
		"Overwrite an existing output")
}

// buildConfig turns flags into an extraction config.
func buildConfig(files []string) (extract.Config, error) {
	cfg := extract.NewConfig()

	if inputFormat != "" {
		f, err := formats.ParseFormat(inputFormat)
		if err != nil {
			return cfg, err
		}
		cfg.Format = f
	} else if len(files) > 0 {
		f, err := extract.DetectFormat(files)
		if err != nil {
			return cfg, fmt.Errorf("%w (use --type)", err)
		}
		cfg.Format = f
	}

	policy, err := metrics.ParseCombinePolicy(combine)
	if err != nil {
		return cfg, err
	}
	cfg.Combine = policy
	cfg.Names = names

	if workers > 0 {
		cfg.Workers = workers
	}
	cfg.Huge = huge
	cfg.ReadType = readType
	cfg.Barcoded = barcoded
	cfg.KeepSupplementary = keepSupplementary

	if memoryLimit != "" {
		size, err := extract.ParseSize(memoryLimit)
		if err != nil {
			return cfg, fmt.Errorf("invalid memory limit: %w", err)
		}
		cfg.MemoryLimit = size
	}

	cfg.Logger = newLogger()
	if showProgress {
		cfg.Progress = extract.NewReporter(os.Stderr, time.Second)
	}
	return cfg, cfg.Validate()
}

// collect runs the extraction for a command. It returns nil without error
// when --show-config was given.
func collect(cmd *cobra.Command, files []string) (*metrics.Collection, error) {
	cfg, err := buildConfig(files)
	if err != nil {
		return nil, err
	}
	if showConfig {
		cfg.ShowConfig(cmd.OutOrStdout())
		return nil, nil
	}
	if len(files) == 0 {
		return nil, extract.ErrNoInput
	}

	c, err := extract.Run(cmd.Context(), cfg, files)
	if err != nil {
		return nil, fmt.Errorf("failed to extract metrics: %w", err)
	}
	return c, nil
}

// writeOutput opens the destination and hands it to render.
func writeOutput(cmd *cobra.Command, render func(w io.Writer, f report.Format) error) error {
	name, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	f, err := report.ParseFormat(name)
	if err != nil {
		return err
	}

	if outputPath == "" {
		if err := render(cmd.OutOrStdout(), f); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		return nil
	}

	out, err := report.Create(cmd.Context(), outputPath, force)
	if err != nil {
		return fmt.Errorf("failed to open output: %w", err)
	}
	if err := render(out, f); err != nil {
		out.CloseWithError(err)
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if n := out.Uploaded(); n > 0 {
		fmt.Fprintf(os.Stderr, "Report written to %s (%s uploaded)\n", out.Location(), extract.FormatSize(n))
	} else {
		fmt.Fprintf(os.Stderr, "Report written to %s\n", out.Location())
	}
	return nil
}
