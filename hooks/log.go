// Package hooks provides command hooks for zeroorm.DB and zeroorm.Executor.
package hooks

import (
	"context"
	"log/slog"
	"time"
)

// Hook logs every command with its arguments and duration. With slow query
// logging enabled only commands slower than the threshold are logged.
type Hook struct {
	log          *slog.Logger
	started      int
	logSlowQuery bool
	duration     time.Duration
}

// NewLogger returns a logging hook writing to logger, or to slog.Default when
// logger is nil.
func NewLogger(logger *slog.Logger, logSlowQuery bool, dur time.Duration) *Hook {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hook{
		log:          logger,
		logSlowQuery: logSlowQuery,
		duration:     dur,
	}
}

func (h *Hook) Before(ctx context.Context, query string, args ...any) (context.Context, error) {
	return context.WithValue(ctx, &h.started, time.Now()), nil
}

func (h *Hook) After(ctx context.Context, query string, args ...any) (context.Context, error) {
	since := h.since(ctx)
	if h.logSlowQuery {
		if since > h.duration {
			h.log.WarnContext(ctx, "slow command", "query", query, "args", args, "took", since)
		}
	} else {
		h.log.InfoContext(ctx, "command", "query", query, "args", args, "took", since)
	}
	return ctx, nil
}

func (h *Hook) OnError(ctx context.Context, err error, query string, args ...any) error {
	h.log.ErrorContext(ctx, "command failed", "error", err, "query", query, "args", args, "took", h.since(ctx))
	return err
}

func (h *Hook) since(ctx context.Context) time.Duration {
	started, ok := ctx.Value(&h.started).(time.Time)
	if !ok {
		return 0
	}
	return time.Since(started)
}
