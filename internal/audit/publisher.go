package audit

import (
	"context"
	"log/slog"
	"time"
)

// Publisher delivers download events. Callers log Emit failures and carry
// on; a lost event never fails a download.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}

// LogPublisher writes events to the structured log.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	p.logger.InfoContext(ctx, "export downloaded",
		"action", event.Action,
		"session_id", event.SessionID,
		"sex", event.Sex,
		"rows", event.Rows,
		"species", event.Selection.Species,
		"islands", event.Selection.Islands,
		"client", event.Client,
		"request_id", event.RequestID,
	)
	return nil
}
