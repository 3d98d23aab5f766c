package simulator

import (
	"log/slog"

	"github.com/viant/hydrogrid/metrics"
	"github.com/viant/hydrogrid/model"
)

// Recovery reports whether the allocator is waiting for units to refill.
type Recovery interface {
	Recovering() bool
}

// Signal requests a rebalance.
type Signal interface {
	Fire() bool
}

type Option func(s *Service)

func WithConfig(config Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

func WithWeather(weather *model.Weather) Option {
	return func(s *Service) {
		s.weather = weather
	}
}

func WithRecovery(recovery Recovery) Option {
	return func(s *Service) {
		s.recovery = recovery
	}
}

func WithRebalance(signal Signal) Option {
	return func(s *Service) {
		s.rebalance = signal
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
