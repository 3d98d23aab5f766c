// Package metrics exposes grid state as Prometheus collectors. A nil
// *Recorder is valid and records nothing.
package metrics
