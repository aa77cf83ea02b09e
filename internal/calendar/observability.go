package calendar

import (
	"context"
	"log/slog"
)

// FetchEvent records metadata about a single calendar fetch.
type FetchEvent struct {
	Day       string
	Events    int
	LatencyMs int64
	Success   bool
	ErrorCode string
}

// Observer receives events about calendar fetches for logging.
type Observer interface {
	OnFetchComplete(ctx context.Context, event FetchEvent)
}

// LogObserver writes fetch events to a slog.Logger.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver creates an Observer that logs events to logger.
func NewLogObserver(logger *slog.Logger) Observer {
	if logger == nil {
		return NoopObserver{}
	}
	return &LogObserver{logger: logger}
}

func (o *LogObserver) OnFetchComplete(ctx context.Context, event FetchEvent) {
	attrs := []any{
		"day", event.Day,
		"events", event.Events,
		"latency_ms", event.LatencyMs,
	}
	if !event.Success {
		o.logger.WarnContext(ctx, "calendar_fetch", append(attrs, "error_code", event.ErrorCode)...)
		return
	}
	o.logger.DebugContext(ctx, "calendar_fetch", attrs...)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnFetchComplete(context.Context, FetchEvent) {}
