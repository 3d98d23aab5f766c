package report

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/viant/hydrogrid/service/event"
	"github.com/viant/hydrogrid/service/messaging/memory"
)

// EventSink publishes passes to an in-memory event queue drained by a
// listener that forwards them to the next sink, so allocation never waits
// on slow reporting. Final records are forwarded synchronously after the
// backlog is flushed.
type EventSink struct {
	source    string
	next      Sink
	publisher *event.Publisher[Pass]
	listener  *event.Listener[Pass]
}

// NewEventSink starts a listener forwarding to next; Close stops it.
func NewEventSink(ctx context.Context, next Sink, config memory.Config, logger *slog.Logger) *EventSink {
	queue := memory.NewQueue[event.Event[Pass]](config)
	ret := &EventSink{
		source:    "allocator",
		next:      next,
		publisher: event.NewPublisher[Pass](queue),
	}
	ret.listener = event.NewListener(ret.publisher, ret.forward, logger)
	ret.listener.Start(ctx)
	return ret
}

func (s *EventSink) forward(ctx context.Context, anEvent *event.Event[Pass]) error {
	return s.next.Pass(ctx, &anEvent.Data)
}

func (s *EventSink) Pass(ctx context.Context, pass *Pass) error {
	anEvent := event.NewEvent(&event.Context{RunID: pass.RunID, EventType: event.TypePass, Source: s.source}, *pass)
	anEvent.Metadata["attempt"] = pass.Attempt
	if err := s.publisher.Publish(ctx, anEvent); err != nil {
		return fmt.Errorf("failed to publish pass %d: %w", pass.Attempt, err)
	}
	return nil
}

// Final flushes queued passes, then forwards final.
func (s *EventSink) Final(ctx context.Context, final *Final) error {
	if err := s.Close(ctx); err != nil {
		return err
	}
	return s.next.Final(ctx, final)
}

// Pending returns the number of passes not yet forwarded.
func (s *EventSink) Pending() int {
	return s.publisher.Pending()
}

// Close drains the queue and stops the listener. It is safe to call twice.
func (s *EventSink) Close(ctx context.Context) error {
	if err := s.listener.Stop(ctx); err != nil {
		return fmt.Errorf("failed to drain pass events: %w", err)
	}
	return nil
}
