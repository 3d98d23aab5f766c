package allocator

import (
	"log/slog"

	"github.com/viant/hydrogrid/metrics"
	"github.com/viant/hydrogrid/service/report"
)

// HaltFunc is invoked once the retry budget is exhausted.
type HaltFunc func(cause error)

type Option func(s *Service)

func WithConfig(config Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithSink(sink report.Sink) Option {
	return func(s *Service) {
		s.sink = sink
	}
}

func WithMetrics(recorder *metrics.Recorder) Option {
	return func(s *Service) {
		s.metrics = recorder
	}
}

func WithHalt(halt HaltFunc) Option {
	return func(s *Service) {
		s.halt = halt
	}
}

func WithRunID(runID string) Option {
	return func(s *Service) {
		s.runID = runID
	}
}
