// Package logging provides structured logging for the arcade build using zerolog.
//
// A build run attaches a logger to its context; every stage below it picks
// the logger back up with FromContext so that each line carries the run id,
// the game being processed and the pipeline stage:
//
//	ctx = logging.WithRunID(ctx, runID)
//	ctx = logging.WithGame(ctx, "pacman", "mame")
//	logging.FromContext(ctx).Warn().Msg("Missing preview video")
package logging

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

var defaultLogger = fromEnvironment()

// fromEnvironment builds the logger used before the CLI has read its config.
func fromEnvironment() zerolog.Logger {
	cfg := DefaultConfig()
	cfg.Level = os.Getenv("LOG_LEVEL")
	if cfg.Level == "" && os.Getenv("DEBUG") != "" {
		cfg.Level = "debug"
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		cfg.Format = format
	}
	return NewLoggerFromConfig(cfg)
}

// Default returns the process-wide logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault replaces the process-wide logger.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
}

// New returns a JSON logger writing to w at the global level.
func New(w io.Writer) zerolog.Logger {
	return zerolog.New(w).Level(zerolog.GlobalLevel()).With().Timestamp().Logger()
}

// NewNopLogger returns a logger that discards all output.
func NewNopLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
