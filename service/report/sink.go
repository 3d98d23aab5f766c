package report

import (
	"context"
	"errors"
)

// Sink receives run records
type Sink interface {
	Pass(ctx context.Context, pass *Pass) error
	Final(ctx context.Context, final *Final) error
}

// Closer is implemented by sinks holding background resources.
type Closer interface {
	Close(ctx context.Context) error
}

// Multi fans records out to every sink, joining their errors.
type Multi []Sink

func (m Multi) Pass(ctx context.Context, pass *Pass) error {
	var errs []error
	for _, sink := range m {
		errs = append(errs, sink.Pass(ctx, pass))
	}
	return errors.Join(errs...)
}

func (m Multi) Final(ctx context.Context, final *Final) error {
	var errs []error
	for _, sink := range m {
		errs = append(errs, sink.Final(ctx, final))
	}
	return errors.Join(errs...)
}

// Close closes every sink implementing Closer.
func (m Multi) Close(ctx context.Context) error {
	var errs []error
	for _, sink := range m {
		if closer, ok := sink.(Closer); ok {
			errs = append(errs, closer.Close(ctx))
		}
	}
	return errors.Join(errs...)
}

// Nop discards every record.
type Nop struct{}

func (Nop) Pass(context.Context, *Pass) error   { return nil }
func (Nop) Final(context.Context, *Final) error { return nil }
