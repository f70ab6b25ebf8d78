package extract

import (
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"github.com/scttfrdmn/readstats-go/pkg/formats"
	"github.com/scttfrdmn/readstats-go/pkg/metrics"
)

// MaxWorkers caps the number of files normalized at once.
const MaxWorkers = 64

// Config holds the settings of one extraction run.
type Config struct {
	// Input
	Format            formats.Format // Layout shared by every input file
	ReadType          string         // Summary read type: 1D, 2D or 1D2 (default: 1D)
	Barcoded          bool           // Read barcode_arrangement from summary tables
	KeepSupplementary bool           // Keep supplementary alignments (default: true)

	// Resource allocation
	Workers     int   // Parallel file workers (default: performance cores)
	Huge        bool  // Process one file at a time
	MemoryLimit int64 // Bytes of input above which a warning is logged (default: available RAM)

	// Combining
	Combine metrics.CombinePolicy // simple or track (default: simple)
	Names   []string              // Dataset labels for track mode

	// Reporting
	Logger   *slog.Logger // Nil discards log output
	Progress Progress     // Nil disables progress reporting
}

// NewConfig creates a Config with smart defaults.
func NewConfig() Config {
	return Config{
		Format:            formats.Fastq,
		ReadType:          formats.ReadType1D,
		KeepSupplementary: true,
		Workers:           detectOptimalWorkers(),
		MemoryLimit:       getSystemMemory().Available,
		Combine:           metrics.Simple,
	}
}

// Validate checks the configuration before any file is touched.
func (c *Config) Validate() error {
	if !c.Format.Valid() {
		return fmt.Errorf("%w: format %v", formats.ErrUnsupported, c.Format)
	}
	if err := c.options().Validate(); err != nil {
		return err
	}
	if c.Combine != metrics.Simple && c.Combine != metrics.Track {
		return fmt.Errorf("%w: %v", metrics.ErrUnsupportedPolicy, c.Combine)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	if c.MemoryLimit < 0 {
		return fmt.Errorf("memory limit must be >= 0, got %d", c.MemoryLimit)
	}

	logger := c.logger()
	if c.Workers > MaxWorkers {
		logger.Warn("workers capped", "requested", c.Workers, "max", MaxWorkers)
	}
	if len(c.Names) > 0 && c.Combine != metrics.Track {
		logger.Warn("dataset names are only used with track combining", "names", len(c.Names))
	}
	return nil
}

// ShowConfig prints the effective configuration.
func (c *Config) ShowConfig(w io.Writer) {
	memStats := getSystemMemory()

	fmt.Fprintf(w, "System Information:\n")
	fmt.Fprintf(w, "  Total RAM: %.1f GB\n", float64(memStats.Total)/float64(GB))
	fmt.Fprintf(w, "  Available RAM: %.1f GB\n", float64(memStats.Available)/float64(GB))

	totalCores := runtime.NumCPU()
	optimalWorkers := detectOptimalWorkers()
	if optimalWorkers < totalCores {
		fmt.Fprintf(w, "  CPU cores: %d total (%d performance, %d efficiency)\n",
			totalCores, optimalWorkers, totalCores-optimalWorkers)
	} else {
		fmt.Fprintf(w, "  CPU cores: %d\n", totalCores)
	}
	fmt.Fprintf(w, "\n")

	fmt.Fprintf(w, "Configuration:\n")
	fmt.Fprintf(w, "  Format: %s\n", c.Format)
	if c.Huge {
		fmt.Fprintf(w, "  Workers: 1 (huge mode)\n")
	} else {
		fmt.Fprintf(w, "  Workers: %d\n", c.Workers)
	}
	fmt.Fprintf(w, "  Memory limit: %s\n", FormatSize(c.MemoryLimit))
	if c.Format == formats.Summary {
		fmt.Fprintf(w, "  Read type: %s\n", c.ReadType)
		fmt.Fprintf(w, "  Barcoded: %t\n", c.Barcoded)
	}
	if c.Format.Aligned() {
		fmt.Fprintf(w, "  Keep supplementary: %t\n", c.KeepSupplementary)
	}
	fmt.Fprintf(w, "  Combine: %s\n", c.Combine)
	if c.Combine == metrics.Track && len(c.Names) > 0 {
		fmt.Fprintf(w, "  Names: %v\n", c.Names)
	}
	fmt.Fprintf(w, "\n")
}

// workersFor returns the pool size for n input files.
func (c *Config) workersFor(n int) int {
	workers := c.Workers
	if c.Huge || !c.Format.SupportsParallel() {
		workers = 1
	}
	if workers > MaxWorkers {
		workers = MaxWorkers
	}
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}

func (c *Config) options() formats.Options {
	return formats.Options{
		KeepSupplementary: c.KeepSupplementary,
		ReadType:          c.ReadType,
		Barcoded:          c.Barcoded,
		Logger:            c.Logger,
	}
}

func (c *Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c.Logger
}

func (c *Config) progress() Progress {
	if c.Progress == nil {
		return nopProgress{}
	}
	return c.Progress
}
