package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ZafarDakhnairi/iGameDB/pkg/requestcontext"
)

// Recorder accepts events from domain logic.
type Recorder interface {
	Record(ctx context.Context, event Event)
}

// ChannelRecorder buffers events for the worker. Recording is fail-open: when
// the buffer is full the event is dropped and logged, never blocking a request.
type ChannelRecorder struct {
	inbox  chan Event
	logger *slog.Logger
}

func NewChannelRecorder(buffer int, logger *slog.Logger) *ChannelRecorder {
	if buffer <= 0 {
		buffer = 256
	}
	return &ChannelRecorder{
		inbox:  make(chan Event, buffer),
		logger: logger,
	}
}

// Inbox exposes the event channel for the worker.
func (r *ChannelRecorder) Inbox() <-chan Event {
	return r.inbox
}

func (r *ChannelRecorder) Record(ctx context.Context, event Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.IP == "" {
		event.IP = requestcontext.ClientIP(ctx)
	}
	if event.Device == "" {
		event.Device = requestcontext.Device(ctx)
	}

	select {
	case r.inbox <- event:
	default:
		r.logger.WarnContext(ctx, "audit buffer full, dropping event",
			"action", event.Action,
			"user_id", event.UserID,
		)
	}
}

// NopRecorder discards everything. Useful in tests.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, Event) {}
