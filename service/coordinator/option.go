package coordinator

import (
	"log/slog"

	"github.com/viant/hydrogrid/metrics"
	"github.com/viant/hydrogrid/model"
	"github.com/viant/hydrogrid/service/allocator"
	"github.com/viant/hydrogrid/service/report"
	"github.com/viant/hydrogrid/service/simulator"
)

type Option func(s *Service)

func WithAllocatorConfig(config allocator.Config) Option {
	return func(s *Service) {
		s.allocatorConfig = config
	}
}

func WithSimulatorConfig(config simulator.Config) Option {
	return func(s *Service) {
		s.simulatorConfig = config
	}
}

func WithWeather(weather *model.Weather) Option {
	return func(s *Service) {
		s.weather = weather
	}
}

func WithSink(sink report.Sink) Option {
	return func(s *Service) {
		s.sink = sink
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(recorder *metrics.Recorder) Option {
	return func(s *Service) {
		s.metrics = recorder
	}
}

func WithRunID(runID string) Option {
	return func(s *Service) {
		s.runID = runID
	}
}
