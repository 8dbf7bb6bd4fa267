package audit

import (
	"context"
	"log/slog"
)

// LogSink writes audit events to the structured log. It is the fallback when
// no Kafka brokers are configured.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Publish(ctx context.Context, event Event) error {
	s.logger.InfoContext(ctx, "audit event",
		"event_id", event.ID,
		"action", event.Action,
		"user_id", event.UserID,
		"email", event.Email,
		"method", event.Method,
		"game_id", event.GameID,
		"ip", event.IP,
		"device", event.Device,
	)
	return nil
}

func (s *LogSink) Close() error { return nil }

var _ Sink = (*LogSink)(nil)
