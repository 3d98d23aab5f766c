package hydrogrid

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/viant/hydrogrid/internal/clock"
	"github.com/viant/hydrogrid/internal/idgen"
	"github.com/viant/hydrogrid/metrics"
	"github.com/viant/hydrogrid/model"
	"github.com/viant/hydrogrid/service/coordinator"
	"github.com/viant/hydrogrid/service/messaging/memory"
	"github.com/viant/hydrogrid/service/registry"
	"github.com/viant/hydrogrid/service/report"
)

// Service builds a grid from configuration
type Service struct {
	config          *Config
	logger          *slog.Logger
	sinks           []report.Sink
	metricsRegistry *prometheus.Registry
	runID           string
	runtime         *Runtime
}

// New validates configuration and wires the registry, the reporting chain
// and the coordinator of a single run.
func New(ctx context.Context, options ...Option) (*Service, error) {
	ret := &Service{
		config: DefaultConfig(),
		logger: slog.Default(),
	}
	for _, option := range options {
		option(ret)
	}
	if err := ret.init(ctx); err != nil {
		return nil, err
	}
	return ret, nil
}

func (s *Service) init(ctx context.Context) error {
	if err := s.config.Validate(); err != nil {
		return err
	}
	if s.runID == "" {
		s.runID = idgen.New()
	}
	if s.metricsRegistry == nil {
		s.metricsRegistry = prometheus.NewRegistry()
	}
	simulatorConfig := s.config.SimulatorConfig()
	if simulatorConfig.Seed == 0 {
		simulatorConfig.Seed = uint64(clock.Now().UnixNano())
	}
	weather, err := s.config.Weather()
	if err != nil {
		return err
	}

	units := registry.New(model.Inventory(s.config.Units)...)
	recorder := metrics.New(s.metricsRegistry)
	sink := s.sinkChain(ctx)
	aCoordinator, err := coordinator.New(units,
		coordinator.WithAllocatorConfig(s.config.AllocatorConfig()),
		coordinator.WithSimulatorConfig(simulatorConfig),
		coordinator.WithWeather(weather),
		coordinator.WithSink(sink),
		coordinator.WithLogger(s.logger),
		coordinator.WithMetrics(recorder),
		coordinator.WithRunID(s.runID),
	)
	if err != nil {
		_ = sink.Close(ctx)
		return fmt.Errorf("failed to create coordinator: %w", err)
	}
	s.runtime = &Runtime{
		config:      s.config,
		seed:        simulatorConfig.Seed,
		logger:      s.logger,
		registry:    units,
		coordinator: aCoordinator,
		sink:        sink,
		gatherer:    s.metricsRegistry,
	}
	return nil
}

// sinkChain sends passes through the event queue to the log sink and any
// extra sinks; the final report also goes to storage when configured.
func (s *Service) sinkChain(ctx context.Context) report.Multi {
	passSinks := report.Multi{report.NewLogSink(s.logger, s.config.Report.Verbose)}
	passSinks = append(passSinks, s.sinks...)
	chain := report.Multi{report.NewEventSink(ctx, passSinks, memory.DefaultConfig(), s.logger)}
	if URL := s.config.Report.URL; URL != "" {
		chain = append(chain, report.NewStorageSink(URL))
	}
	return chain
}

// Config returns the validated configuration
func (s *Service) Config() *Config {
	return s.config
}

// Runtime returns the runtime of the configured grid
func (s *Service) Runtime() *Runtime {
	return s.runtime
}
