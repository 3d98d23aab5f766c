package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/viant/hydrogrid/internal/clock"
	"github.com/viant/hydrogrid/internal/idgen"
	"github.com/viant/hydrogrid/metrics"
	"github.com/viant/hydrogrid/model"
	"github.com/viant/hydrogrid/service/allocator"
	"github.com/viant/hydrogrid/service/registry"
	"github.com/viant/hydrogrid/service/report"
	"github.com/viant/hydrogrid/service/simulator"
	"github.com/viant/hydrogrid/tracing"
	"golang.org/x/sync/errgroup"
)

// Service runs one grid simulation
type Service struct {
	allocatorConfig allocator.Config
	simulatorConfig simulator.Config
	weather         *model.Weather
	sink            report.Sink
	logger          *slog.Logger
	metrics         *metrics.Recorder
	runID           string

	registry  *registry.Registry
	rebalance *Trigger
	resort    *Trigger
	allocator *allocator.Service
	simulator *simulator.Service
	halt      context.CancelCauseFunc
	started   atomic.Bool
}

// New creates a coordinator for the units held by aRegistry
func New(aRegistry *registry.Registry, options ...Option) (*Service, error) {
	s := &Service{
		allocatorConfig: allocator.DefaultConfig(),
		simulatorConfig: simulator.DefaultConfig(),
		sink:            report.Nop{},
		logger:          slog.Default(),
		registry:        aRegistry,
		rebalance:       NewTrigger(),
		resort:          NewTrigger(),
	}
	for _, opt := range options {
		opt(s)
	}
	if s.runID == "" {
		s.runID = idgen.New()
	}
	if s.allocatorConfig.RetryDelay <= 0 {
		s.allocatorConfig.RetryDelay = s.simulatorConfig.Tick
	}
	s.logger = s.logger.With("run", s.runID)

	s.allocator = allocator.New(aRegistry,
		allocator.WithConfig(s.allocatorConfig),
		allocator.WithLogger(s.logger),
		allocator.WithSink(s.sink),
		allocator.WithMetrics(s.metrics),
		allocator.WithRunID(s.runID),
		allocator.WithHalt(s.onHalt),
	)
	var err error
	s.simulator, err = simulator.New(aRegistry,
		simulator.WithConfig(s.simulatorConfig),
		simulator.WithWeather(s.weather),
		simulator.WithRecovery(s.allocator),
		simulator.WithRebalance(s.rebalance),
		simulator.WithLogger(s.logger),
		simulator.WithMetrics(s.metrics),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create simulator: %w", err)
	}
	return s, nil
}

// RunID returns the identifier stamped on every record of this run.
func (s *Service) RunID() string {
	return s.runID
}

// Allocator returns the allocator driven by this coordinator.
func (s *Service) Allocator() *allocator.Service {
	return s.allocator
}

// Rebalance fires the rebalance trigger.
func (s *Service) Rebalance() bool {
	return s.rebalance.Fire()
}

func (s *Service) onHalt(cause error) {
	if s.halt != nil {
		s.halt(cause)
	}
}

// Run performs the initial allocation, starts every goroutine and blocks
// until ctx is cancelled or generation cannot be restored. Both endings are
// normal; the returned error only reports a failing sink. Run can be called
// once.
func (s *Service) Run(ctx context.Context) (final *report.Final, err error) {
	if !s.started.CompareAndSwap(false, true) {
		return nil, ErrAlreadyRun
	}
	startedAt := clock.Now()
	runCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	s.halt = cancel

	runCtx, span := tracing.StartSpan(runCtx, "coordinator.run", tracing.KindInternal)
	span.WithAttributes(map[string]string{"run": s.runID}).WithInt("units", s.registry.Len())
	defer func() { tracing.EndSpan(span, err) }()

	s.logger.Info("grid starting", "units", s.registry.Len(), "capacity", s.capacity())
	s.allocator.Apply(runCtx)
	s.resort.Fire()

	var group errgroup.Group
	if runCtx.Err() == nil {
		for i, aUnit := range s.registry.Units() {
			group.Go(func() error {
				return s.simulator.Run(runCtx, aUnit, i)
			})
		}
		group.Go(func() error { return s.sortLoop(runCtx) })
		group.Go(func() error { return s.allocateLoop(runCtx) })
	}

	<-runCtx.Done()
	s.rebalance.Close()
	s.resort.Close()
	err = group.Wait()

	released := s.registry.DeactivateAll()
	s.metrics.Deactivated(metrics.ReasonShutdown, released)
	s.metrics.Generation(s.registry.Total(), 0)

	reason := report.ReasonInterrupted
	if errors.Is(context.Cause(runCtx), allocator.ErrGenerationExhausted) {
		reason = report.ReasonExhausted
	}
	s.metrics.Shutdown(string(reason))
	final = &report.Final{
		RunID:     s.runID,
		Reason:    reason,
		StartedAt: startedAt,
		EndedAt:   clock.Now(),
		Total:     s.registry.Total(),
		Units:     s.registry.Snapshot(),
	}
	s.logger.Info("grid stopped", "reason", string(reason), "attempts", s.allocator.Attempts())
	if sinkErr := s.sink.Final(context.WithoutCancel(ctx), final); sinkErr != nil {
		err = errors.Join(err, fmt.Errorf("failed to report final state: %w", sinkErr))
	}
	return final, err
}

func (s *Service) allocateLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.rebalance.C():
			if ctx.Err() != nil {
				return nil
			}
			s.allocator.Apply(ctx)
			s.resort.Fire()
		}
	}
}

func (s *Service) sortLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.resort.C():
			s.registry.Resort()
		}
	}
}

func (s *Service) capacity() float64 {
	total := 0.0
	for _, aUnit := range s.registry.Units() {
		total += aUnit.Capacity
	}
	return total
}
