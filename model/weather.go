package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// RainEvent is one weighted rain outcome: Increment is added to the water
// level on every tick for Duration ticks.
type RainEvent struct {
	Name      string  `json:"name" yaml:"name"`
	Increment float64 `json:"increment" yaml:"increment"`
	Duration  int     `json:"duration" yaml:"duration"`
}

// DefaultRainEvents returns the no-rain, downpour and deluge outcomes.
func DefaultRainEvents() []RainEvent {
	return []RainEvent{
		{Name: "none", Increment: 0, Duration: 0},
		{Name: "downpour", Increment: 2, Duration: 10},
		{Name: "deluge", Increment: 4, Duration: 5},
	}
}

// ProbabilityTolerance bounds the accepted deviation of the probability sum from 1.
const ProbabilityTolerance = 1e-6

// Weather selects rain events against cumulative probabilities.
type Weather struct {
	events     []RainEvent
	cumulative []float64
}

// NewWeather validates probabilities and returns a Weather. Each probability
// must lie in [0,1] and their sum must be 1 within ProbabilityTolerance.
func NewWeather(events []RainEvent, probabilities []float64) (*Weather, error) {
	if len(events) == 0 || len(events) != len(probabilities) {
		return nil, fmt.Errorf("expected %d probabilities, got %d", len(events), len(probabilities))
	}
	for i, p := range probabilities {
		if p < 0 || p > 1 || math.IsNaN(p) {
			return nil, fmt.Errorf("probability %d (%v) out of [0,1]", i, p)
		}
	}
	cumulative := floats.CumSum(make([]float64, len(probabilities)), probabilities)
	if sum := cumulative[len(cumulative)-1]; math.Abs(sum-1) > ProbabilityTolerance {
		return nil, fmt.Errorf("probabilities sum to %v, expected 1", sum)
	}
	return &Weather{events: events, cumulative: cumulative}, nil
}

// Pick maps a uniform draw in [0,1) onto an event: the first event whose
// cumulative probability exceeds draw wins. Draws beyond the last threshold
// (rounding) select the last event.
func (w *Weather) Pick(draw float64) RainEvent {
	for i, threshold := range w.cumulative {
		if draw < threshold {
			return w.events[i]
		}
	}
	return w.events[len(w.events)-1]
}

// Events returns the configured outcomes.
func (w *Weather) Events() []RainEvent {
	return w.events
}
