package hydrogrid

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/viant/hydrogrid/metrics"
	"github.com/viant/hydrogrid/model"
	"github.com/viant/hydrogrid/service/coordinator"
	"github.com/viant/hydrogrid/service/registry"
	"github.com/viant/hydrogrid/service/report"
	"golang.org/x/sync/errgroup"
)

// flushTimeout bounds how long queued reports may take to drain after a run.
const flushTimeout = 5 * time.Second

// ErrNotStarted is returned by Shutdown before Start.
var ErrNotStarted = errors.New("runtime not started")

// Runtime represents a configured grid run
type Runtime struct {
	config      *Config
	seed        uint64
	logger      *slog.Logger
	registry    *registry.Registry
	coordinator *coordinator.Service
	sink        report.Multi
	gatherer    prometheus.Gatherer

	mux    sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	final  *report.Final
	err    error
}

// RunID returns the run identifier
func (r *Runtime) RunID() string {
	return r.coordinator.RunID()
}

// Seed returns the base random seed in use
func (r *Runtime) Seed() uint64 {
	return r.seed
}

// Snapshot returns the current per-unit state in priority order
func (r *Runtime) Snapshot() []model.UnitStatus {
	return r.registry.Snapshot()
}

// Total returns the current aggregate generation
func (r *Runtime) Total() float64 {
	return r.registry.Total()
}

// Run blocks until ctx is cancelled or generation is exhausted, then flushes
// reports and returns the final state.
func (r *Runtime) Run(ctx context.Context) (*report.Final, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var group errgroup.Group
	if addr := r.config.Metrics.Addr; addr != "" {
		group.Go(func() error {
			return metrics.Serve(ctx, addr, r.gatherer, r.logger)
		})
	}
	r.logger.Info("grid configured", "run", r.RunID(), "seed", r.seed, "min", r.config.Generation.Min, "max", r.config.Generation.Max)
	final, err := r.coordinator.Run(ctx)
	cancel()

	flushCtx, flushCancel := context.WithTimeout(context.WithoutCancel(ctx), flushTimeout)
	defer flushCancel()
	if closeErr := r.sink.Close(flushCtx); closeErr != nil {
		err = errors.Join(err, closeErr)
	}
	if serveErr := group.Wait(); serveErr != nil {
		err = errors.Join(err, fmt.Errorf("metrics server failed: %w", serveErr))
	}
	return final, err
}

// Start runs the grid in the background
func (r *Runtime) Start(ctx context.Context) error {
	r.mux.Lock()
	defer r.mux.Unlock()
	if r.done != nil {
		return coordinator.ErrAlreadyRun
	}
	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})
	go func() {
		defer close(r.done)
		final, err := r.Run(ctx)
		r.mux.Lock()
		r.final, r.err = final, err
		r.mux.Unlock()
	}()
	return nil
}

// Done is closed once a started run has finished.
func (r *Runtime) Done() <-chan struct{} {
	r.mux.Lock()
	defer r.mux.Unlock()
	return r.done
}

// Shutdown stops a started run and waits for its final report
func (r *Runtime) Shutdown(ctx context.Context) (*report.Final, error) {
	r.mux.Lock()
	cancel, done := r.cancel, r.done
	r.mux.Unlock()
	if done == nil {
		return nil, ErrNotStarted
	}
	cancel()
	select {
	case <-done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	r.mux.Lock()
	defer r.mux.Unlock()
	return r.final, r.err
}
