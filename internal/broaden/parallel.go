package broaden

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/detsim/internal/resolution"
)

// Job is one channel to broaden.
type Job struct {
	Name       string
	Energy     []float64
	Resolution resolution.Func
}

// Parallel broadens every job on its own goroutine. Job i draws from a source
// seeded with seed+i, so the output does not depend on scheduling.
func Parallel(ctx context.Context, jobs []Job, seed uint64) ([][]float64, error) {
	results := make([][]float64, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := NewSeeded(seed+uint64(i)).Broaden(job.Energy, job.Resolution)
			if err != nil {
				return fmt.Errorf("broaden %s: %w", job.Name, err)
			}
			results[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
