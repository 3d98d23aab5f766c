package allocator

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/viant/hydrogrid/internal/clock"
	"github.com/viant/hydrogrid/metrics"
	"github.com/viant/hydrogrid/model"
	"github.com/viant/hydrogrid/service/registry"
	"github.com/viant/hydrogrid/service/report"
	"github.com/viant/hydrogrid/tracing"
)

// Service activates units to keep generation inside the band
type Service struct {
	config   Config
	registry *registry.Registry
	logger   *slog.Logger
	sink     report.Sink
	metrics  *metrics.Recorder
	halt     HaltFunc
	runID    string

	mux               sync.Mutex
	attempt           int
	waitingForRecover atomic.Bool
	lastShots         atomic.Int32
}

// New creates a new allocator service
func New(units *registry.Registry, options ...Option) *Service {
	ret := &Service{
		config:   DefaultConfig(),
		registry: units,
		logger:   slog.Default(),
		sink:     report.Nop{},
	}
	for _, option := range options {
		option(ret)
	}
	ret.lastShots.Store(int32(ret.config.Retries))
	return ret
}

// Recovering reports whether the allocator is waiting for units to refill.
// Simulation drivers pause consumption while it is set.
func (s *Service) Recovering() bool {
	return s.waitingForRecover.Load()
}

// RemainingRetries returns the retry budget left.
func (s *Service) RemainingRetries() int {
	return int(s.lastShots.Load())
}

// Attempts returns the number of passes performed so far.
func (s *Service) Attempts() int {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.attempt
}

// Apply runs allocation passes until generation reaches MinGeneration or the
// retry budget is spent. It returns false when generation could not be
// restored; in that case every unit has been released and the halt hook was
// called, unless ctx ended during a retry wait. Calls are serialized.
func (s *Service) Apply(ctx context.Context) bool {
	s.mux.Lock()
	defer s.mux.Unlock()

	ctx, span := tracing.StartSpan(ctx, "allocator.apply", tracing.KindInternal)
	span.WithAttributes(map[string]string{"run": s.runID})
	defer func() {
		span.WithInt("retries.remaining", s.RemainingRetries())
		tracing.EndSpan(span, nil)
	}()

	for {
		if ctx.Err() != nil {
			return false
		}
		pass := s.pass(ctx)
		if pass.Success {
			s.waitingForRecover.Store(false)
			s.lastShots.Store(int32(s.config.Retries))
			return true
		}
		if s.lastShots.Load() <= 0 {
			break
		}
		s.waitingForRecover.Store(true)
		remaining := s.lastShots.Add(-1)
		s.metrics.Retry()
		s.logger.Warn("generation below minimum, waiting for recovery",
			"run", s.runID,
			"attempt", pass.Attempt,
			"total", pass.Total,
			"remaining", remaining)
		if !s.wait(ctx) {
			return false
		}
	}

	released := s.registry.DeactivateAll()
	s.metrics.Deactivated(metrics.ReasonShutdown, released)
	s.metrics.Generation(s.registry.Total(), 0)
	s.logger.Error("generation could not be restored", "run", s.runID, "released", released)
	span.AddEvent("exhausted", nil)
	if s.halt != nil {
		s.halt(ErrGenerationExhausted)
	}
	return false
}

// pass performs one greedy walk under the registry lock and reports it.
func (s *Service) pass(ctx context.Context) *report.Pass {
	s.attempt++
	ret := &report.Pass{RunID: s.runID, Attempt: s.attempt}
	s.registry.Update(func(tx *registry.Tx) {
		ret.Success = tx.Total() >= s.config.MinGeneration
		for _, aUnit := range tx.Units() {
			if ret.Success {
				break
			}
			if aUnit.IsActive() || !aUnit.Eligible() {
				continue
			}
			if tx.Total()+aUnit.Capacity > s.config.MaxGeneration {
				continue
			}
			tx.Activate(aUnit)
			ret.Activated = append(ret.Activated, aUnit.Name)
			ret.Success = tx.Total() >= s.config.MinGeneration
		}
		ret.Total = tx.Total()
		ret.Units = tx.Snapshot()
	})
	ret.At = clock.Now()

	if len(ret.Activated) > 0 {
		s.logger.Info("units activated", "run", s.runID, "attempt", ret.Attempt, "unit", strings.Join(ret.Activated, ","), "total", ret.Total)
	}
	s.metrics.Pass(ret.Success)
	s.metrics.Generation(ret.Total, activeCount(ret.Units))
	if span, ok := tracing.SpanFromContext(ctx); ok {
		span.AddEvent("pass", map[string]string{"success": strconv.FormatBool(ret.Success)})
	}
	if err := s.sink.Pass(context.WithoutCancel(ctx), ret); err != nil {
		s.logger.Error("failed to report allocation pass", "run", s.runID, "attempt", ret.Attempt, "error", err)
	}
	return ret
}

func (s *Service) wait(ctx context.Context) bool {
	if s.config.RetryDelay <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(s.config.RetryDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func activeCount(units []model.UnitStatus) int {
	count := 0
	for _, aUnit := range units {
		if aUnit.Active {
			count++
		}
	}
	return count
}
