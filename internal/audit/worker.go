package audit

import (
	"context"
	"log/slog"
)

// Sink is where the worker ships events.
type Sink interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Worker consumes audit events from the recorder and ships them to a sink.
// Delivery failures are logged and the worker keeps going; an audit outage
// must never take the service down with it.
type Worker struct {
	sink   Sink
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(sink Sink, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{sink: sink, inbox: inbox, logger: logger}
}

func (w *Worker) Run(ctx context.Context) error {
	defer func() {
		if err := w.sink.Close(); err != nil {
			w.logger.Error("closing audit sink", "error", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.drain()
			return ctx.Err()
		case event := <-w.inbox:
			w.publish(ctx, event)
		}
	}
}

// drain flushes whatever is already buffered at shutdown.
func (w *Worker) drain() {
	for {
		select {
		case event := <-w.inbox:
			w.publish(context.Background(), event)
		default:
			return
		}
	}
}

func (w *Worker) publish(ctx context.Context, event Event) {
	if err := w.sink.Publish(ctx, event); err != nil {
		w.logger.Error("publishing audit event",
			"action", event.Action,
			"user_id", event.UserID,
			"error", err,
		)
	}
}
