// Package tracing is a thin wrapper around OpenTelemetry. Callers start and
// end spans through StartSpan and EndSpan; Init installs a stdout (or file)
// exporter as the global provider. Without Init every span is a no-op.
package tracing
