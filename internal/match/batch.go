package match

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/jmylchreest/seasonal/internal/colour"
)

// BatchResult is the outcome of one query in a batch, at the position the
// query was submitted.
type BatchResult struct {
	Index   int        `json:"index"`
	Query   colour.RGB `json:"query"`
	Results []Result   `json:"results"`
	Err     error      `json:"-"`
}

// NearestAll finds the nearest reference for every query concurrently.
// A query that cannot be matched records its error in Err; the batch itself
// only fails when ctx is cancelled.
func NearestAll(ctx context.Context, queries []colour.RGB, refs []Reference, workers int) ([]BatchResult, error) {
	out := make([]BatchResult, len(queries))
	err := forEach(ctx, len(queries), workers, func(i int) {
		res := BatchResult{Index: i, Query: queries[i]}
		best, err := Nearest(queries[i], refs)
		if err != nil {
			res.Err = err
		} else {
			res.Results = []Result{best}
		}
		out[i] = res
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// WithinRadiusAll runs WithinRadius for every query concurrently.
func WithinRadiusAll(ctx context.Context, queries []colour.RGB, refs []Reference, cutoff float64, workers int) ([]BatchResult, error) {
	out := make([]BatchResult, len(queries))
	err := forEach(ctx, len(queries), workers, func(i int) {
		out[i] = BatchResult{
			Index:   i,
			Query:   queries[i],
			Results: WithinRadius(queries[i], refs, cutoff),
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func workerCount(workers int) int {
	if workers <= 0 {
		return runtime.NumCPU()
	}
	return workers
}

// forEach calls fn for 0..n-1 on at most workers goroutines. Work not yet
// started when ctx is cancelled is skipped and ctx.Err() is returned.
func forEach(ctx context.Context, n, workers int, fn func(i int)) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerCount(workers))

	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(i)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
