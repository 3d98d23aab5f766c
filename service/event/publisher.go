package event

import (
	"context"

	"github.com/viant/hydrogrid/internal/clock"
	"github.com/viant/hydrogrid/service/messaging"
)

// Publisher puts events on a queue and hands them out to listeners
type Publisher[T any] struct {
	queue messaging.Queue[Event[T]]
}

func NewPublisher[T any](queue messaging.Queue[Event[T]]) *Publisher[T] {
	return &Publisher[T]{
		queue: queue,
	}
}

func (p *Publisher[T]) Publish(ctx context.Context, event *Event[T]) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = clock.Now()
	}
	return p.queue.Publish(ctx, event)
}

// Consume returns the next message; the caller acks or nacks it.
func (p *Publisher[T]) Consume(ctx context.Context) (messaging.Message[Event[T]], error) {
	return p.queue.Consume(ctx)
}

// Pending returns the number of events waiting to be consumed.
func (p *Publisher[T]) Pending() int {
	return p.queue.Size()
}
