package logging

import (
	"context"

	"github.com/rs/zerolog"
)

type contextKey int

const (
	loggerKey contextKey = iota
	runIDKey
)

// WithLogger attaches logger to ctx. A nil logger attaches the default.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger attached to ctx, or the default logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey).(*zerolog.Logger); ok && logger != nil {
			return logger
		}
	}
	return Default()
}

// with derives a child of the context logger.
func with(ctx context.Context, fields func(zerolog.Context) zerolog.Context) context.Context {
	child := fields(FromContext(ctx).With()).Logger()
	return WithLogger(ctx, &child)
}

// WithRunID tags every line logged under ctx with the build run id.
func WithRunID(ctx context.Context, runID string) context.Context {
	ctx = context.WithValue(ctx, runIDKey, runID)
	return with(ctx, func(c zerolog.Context) zerolog.Context {
		return c.Str("run_id", runID)
	})
}

// RunID returns the build run id stored by WithRunID.
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey).(string)
	return id
}

// WithGame tags the logger with the game being processed.
func WithGame(ctx context.Context, gameID, system string) context.Context {
	return with(ctx, func(c zerolog.Context) zerolog.Context {
		return c.Str("game", gameID).Str("system", system)
	})
}

// WithStage tags the logger with a pipeline stage.
func WithStage(ctx context.Context, stage string) context.Context {
	return with(ctx, func(c zerolog.Context) zerolog.Context {
		return c.Str("stage", stage)
	})
}
