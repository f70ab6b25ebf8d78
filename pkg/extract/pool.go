package extract

import (
	"context"
	"fmt"
	"sync"

	"github.com/scttfrdmn/readstats-go/pkg/formats"
	"github.com/scttfrdmn/readstats-go/pkg/metrics"
)

// fileJob is one input file and its position on the command line.
type fileJob struct {
	index int
	path  string
}

// fileResult carries a normalized file back to the collector.
type fileResult struct {
	index      int
	path       string
	collection *metrics.Collection
	err        error
}

// filePool normalizes files on a fixed number of workers. Results are
// stored by input index so the output order matches the input order.
type filePool struct {
	cfg     *Config
	workers int
	jobs    chan fileJob
	results chan fileResult
	wg      sync.WaitGroup
}

func newFilePool(cfg *Config, workers int) *filePool {
	return &filePool{
		cfg:     cfg,
		workers: workers,
		jobs:    make(chan fileJob),
		results: make(chan fileResult, workers),
	}
}

// run processes every file and returns one collection per file. The first
// failure cancels the remaining work and is returned alone.
func (p *filePool) run(ctx context.Context, files []string) ([]*metrics.Collection, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}

	go func() {
		defer close(p.jobs)
		for i, path := range files {
			select {
			case p.jobs <- fileJob{index: i, path: path}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		p.wg.Wait()
		close(p.results)
	}()

	progress := p.cfg.progress()
	collections := make([]*metrics.Collection, len(files))
	var firstErr error
	for result := range p.results {
		if result.err != nil {
			if firstErr == nil {
				firstErr = result.err
				cancel()
			}
			continue
		}
		if firstErr != nil {
			continue
		}
		collections[result.index] = result.collection
		progress.FileDone(result.path, len(result.collection.Reads))
	}

	if firstErr != nil {
		return nil, firstErr
	}
	for i, c := range collections {
		if c == nil {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return nil, fmt.Errorf("no result for %s", files[i])
		}
	}
	return collections, nil
}

func (p *filePool) worker(ctx context.Context, id int) {
	defer p.wg.Done()
	logger := p.cfg.logger().With("worker", id)
	opts := p.cfg.options()

	for job := range p.jobs {
		if err := ctx.Err(); err != nil {
			return
		}

		logger.Debug("normalizing file", "path", job.path, "index", job.index)
		result := fileResult{index: job.index, path: job.path}
		reads, err := formats.Normalize(ctx, job.path, p.cfg.Format, opts)
		if err != nil {
			result.err = err
		} else {
			result.collection = metrics.NewCollection(reads)
		}

		p.results <- result
	}
}
