package event

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"
)

// drainInterval is how often Stop polls for an empty backlog.
const drainInterval = 5 * time.Millisecond

// Handler processes a single event. A returned error nacks the message.
type Handler[T any] func(ctx context.Context, event *Event[T]) error

// Listener consumes events from a publisher on its own goroutine
type Listener[T any] struct {
	publisher *Publisher[T]
	handler   Handler[T]
	logger    *slog.Logger
	cancel    context.CancelFunc
	done      chan struct{}
	inFlight  atomic.Int32
}

func NewListener[T any](publisher *Publisher[T], handler Handler[T], logger *slog.Logger) *Listener[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Listener[T]{
		publisher: publisher,
		handler:   handler,
		logger:    logger,
	}
}

// Start begins consuming; it must be called once.
func (l *Listener[T]) Start(ctx context.Context) {
	ctx, l.cancel = context.WithCancel(context.WithoutCancel(ctx))
	l.done = make(chan struct{})
	go l.run(ctx)
}

func (l *Listener[T]) run(ctx context.Context) {
	defer close(l.done)
	for {
		msg, err := l.publisher.Consume(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			l.logger.Error("failed to consume event", "error", err)
			continue
		}
		l.inFlight.Add(1)
		if err = l.handler(ctx, msg.T()); err != nil {
			l.logger.Warn("event handler failed", "eventType", msg.T().Context.EventType, "error", err)
			_ = msg.Nack(err)
		} else {
			_ = msg.Ack()
		}
		l.inFlight.Add(-1)
	}
}

// Stop waits until queued events are handled or ctx is done, then stops
// the consuming goroutine.
func (l *Listener[T]) Stop(ctx context.Context) error {
	if l.cancel == nil {
		return nil
	}
	ticker := time.NewTicker(drainInterval)
	defer ticker.Stop()
	var err error
	for l.publisher.Pending() > 0 || l.inFlight.Load() > 0 {
		select {
		case <-ctx.Done():
			err = ctx.Err()
		case <-ticker.C:
			continue
		}
		break
	}
	l.cancel()
	<-l.done
	return err
}
