package simulate

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// RunAll runs independent simulators concurrently and returns the first
// error. Simulators must not share sinks.
func RunAll(ctx context.Context, sims ...*Simulator) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, sim := range sims {
		g.Go(func() error {
			return sim.Run(ctx)
		})
	}
	return g.Wait()
}
