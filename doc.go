// Package hydrogrid simulates a small power grid of hydroelectric units whose
// water levels change with random rain. Aggregate generation is kept inside
// a configured band by activating and releasing units.
//
// Each unit runs on its own goroutine. A unit leaving its water band releases
// itself and asks for a rebalance; the allocator then activates units in
// priority order (largest capacity first, fuller reservoirs first) and retries
// a bounded number of times while units recover. When generation cannot be
// restored the grid shuts down and reports the state of every unit.
//
// Typical use:
//
//	srv, err := hydrogrid.New(ctx, hydrogrid.WithConfig(config))
//	if err != nil {
//		return err
//	}
//	final, err := srv.Runtime().Run(ctx)
package hydrogrid
