package event

import (
	"time"

	"github.com/viant/hydrogrid/internal/clock"
)

// Event types published during a simulation run.
const (
	TypePass  = "pass"
	TypeFinal = "final"
)

// Context identifies where an event comes from
type Context struct {
	RunID     string `json:"runID" yaml:"runID"`
	EventType string `json:"eventType" yaml:"eventType"`
	Source    string `json:"source,omitempty" yaml:"source,omitempty"`
}

type Event[T any] struct {
	Context   *Context               `json:"context"`
	CreatedAt time.Time              `json:"createdAt"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Data      T                      `json:"data"`
}

func NewEvent[T any](context *Context, data T) *Event[T] {
	return &Event[T]{
		Context:   context,
		CreatedAt: clock.Now(),
		Metadata:  make(map[string]interface{}),
		Data:      data,
	}
}
