package renderer

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// WorkerPool renders tiles on a fixed number of goroutines
type WorkerPool struct {
	numWorkers int
}

// NewWorkerPool creates a worker pool with the specified number of workers
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{numWorkers: numWorkers}
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// Run feeds tiles to the workers and calls render once per tile. Each tile is
// rendered by exactly one worker using the tile's own generator. Cancellation
// is checked between tiles; the first error is returned after every worker exits.
func (wp *WorkerPool) Run(ctx context.Context, tiles []*Tile, render func(tile *Tile)) error {
	g, ctx := errgroup.WithContext(ctx)
	taskQueue := make(chan *Tile)

	g.Go(func() error {
		defer close(taskQueue) // No more tasks
		for _, tile := range tiles {
			select {
			case taskQueue <- tile:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for i := 0; i < wp.numWorkers; i++ {
		g.Go(func() error {
			for tile := range taskQueue {
				if err := ctx.Err(); err != nil {
					return err
				}
				render(tile)
			}
			return nil
		})
	}

	return g.Wait()
}
