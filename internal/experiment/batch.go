package experiment

import (
	"context"
	"runtime"

	"github.com/san-kum/softsim/internal/config"
	"golang.org/x/sync/errgroup"
)

// RunBatch runs one experiment per config concurrently, at most workers at
// a time. Results keep the order of cfgs. The first failure cancels the
// remaining runs. Metric instances are not safe to share, so opts should
// not include WithMetrics.
func RunBatch(ctx context.Context, cfgs []*config.Config, workers int, opts ...Option) ([]*Result, error) {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	results := make([]*Result, len(cfgs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, cfg := range cfgs {
		i, cfg := i, cfg
		g.Go(func() error {
			exp := New(cfg, opts...)
			if err := exp.Setup(); err != nil {
				return err
			}
			res, err := exp.Run(ctx)
			results[i] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
