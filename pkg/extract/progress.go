package extract

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Progress receives per-file completion events from Run.
// Implementations must be safe for concurrent use.
type Progress interface {
	Start(totalFiles int)
	FileDone(path string, reads int)
	Stop()
}

type nopProgress struct{}

func (nopProgress) Start(int)            {}
func (nopProgress) FileDone(string, int) {}
func (nopProgress) Stop()                {}

// Reporter prints a progress line to its writer at a fixed interval.
type Reporter struct {
	out      io.Writer
	interval time.Duration

	mu         sync.Mutex
	totalFiles int
	filesDone  int
	reads      int64
	startTime  time.Time
	done       chan struct{}
	wg         sync.WaitGroup
}

// NewReporter creates a Reporter writing to out every interval.
func NewReporter(out io.Writer, interval time.Duration) *Reporter {
	if interval <= 0 {
		interval = time.Second
	}
	return &Reporter{out: out, interval: interval}
}

// Start begins periodic reporting.
func (r *Reporter) Start(totalFiles int) {
	r.mu.Lock()
	r.totalFiles = totalFiles
	r.startTime = time.Now()
	r.done = make(chan struct{})
	r.mu.Unlock()

	r.wg.Add(1)
	go r.run(r.done)
}

func (r *Reporter) run(done chan struct{}) {
	defer r.wg.Done()
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			r.print()
		}
	}
}

// FileDone records a finished file.
func (r *Reporter) FileDone(path string, reads int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.filesDone++
	r.reads += int64(reads)
}

// Stop ends periodic reporting and prints the final totals.
func (r *Reporter) Stop() {
	r.mu.Lock()
	done := r.done
	r.done = nil
	r.mu.Unlock()
	if done == nil {
		return
	}
	close(done)
	r.wg.Wait()

	r.mu.Lock()
	defer r.mu.Unlock()
	elapsed := time.Since(r.startTime)
	fmt.Fprintf(r.out, "\nExtraction complete!\n")
	fmt.Fprintf(r.out, "  Files: %d/%d\n", r.filesDone, r.totalFiles)
	fmt.Fprintf(r.out, "  Total reads: %d\n", r.reads)
	fmt.Fprintf(r.out, "  Elapsed time: %s\n", formatDuration(elapsed))
}

func (r *Reporter) print() {
	r.mu.Lock()
	defer r.mu.Unlock()

	elapsed := time.Since(r.startTime)
	readsPerSec := float64(r.reads) / elapsed.Seconds()
	fmt.Fprintf(r.out, "\rProgress: %d/%d files | %d reads (%.1f K reads/s) | Elapsed: %s",
		r.filesDone,
		r.totalFiles,
		r.reads,
		readsPerSec/1000,
		formatDuration(elapsed),
	)
}
