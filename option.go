package hydrogrid

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/viant/hydrogrid/service/report"
)

// Option configures a Service
type Option func(s *Service)

// WithConfig sets the grid configuration
func WithConfig(config *Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithLogger sets the structured logger shared by every component
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithSink adds a report sink next to the built in log sink
func WithSink(sink report.Sink) Option {
	return func(s *Service) {
		s.sinks = append(s.sinks, sink)
	}
}

// WithMetricsRegistry sets where collectors are registered; the registry is
// also scraped when Metrics.Addr is configured.
func WithMetricsRegistry(registry *prometheus.Registry) Option {
	return func(s *Service) {
		s.metricsRegistry = registry
	}
}

// WithRunID overrides the generated run identifier
func WithRunID(runID string) Option {
	return func(s *Service) {
		s.runID = runID
	}
}
