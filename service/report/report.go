package report

import (
	"time"

	"github.com/viant/hydrogrid/model"
)

// Reason explains why a run ended.
type Reason string

const (
	// ReasonExhausted means the allocator ran out of retries below minimum generation.
	ReasonExhausted Reason = "exhausted"
	// ReasonInterrupted means the run was stopped from outside.
	ReasonInterrupted Reason = "interrupted"
)

// Pass describes a single allocation attempt.
type Pass struct {
	RunID     string             `json:"runID" yaml:"runID"`
	Attempt   int                `json:"attempt" yaml:"attempt"`
	Success   bool               `json:"success" yaml:"success"`
	Total     float64            `json:"total" yaml:"total"`
	Activated []string           `json:"activated,omitempty" yaml:"activated,omitempty"`
	Units     []model.UnitStatus `json:"units" yaml:"units"`
	At        time.Time          `json:"at" yaml:"at"`
}

// Final is the end of run summary.
type Final struct {
	RunID     string             `json:"runID" yaml:"runID"`
	Reason    Reason             `json:"reason" yaml:"reason"`
	StartedAt time.Time          `json:"startedAt" yaml:"startedAt"`
	EndedAt   time.Time          `json:"endedAt" yaml:"endedAt"`
	Total     float64            `json:"total" yaml:"total"`
	Units     []model.UnitStatus `json:"units" yaml:"units"`
}

// Duration returns how long the run lasted.
func (f *Final) Duration() time.Duration {
	return f.EndedAt.Sub(f.StartedAt)
}
