package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/agentstation/arcade/pkg/constants"
)

// Config describes where and how a build logs.
type Config struct {
	// Level is the minimum level: trace, debug, info, warn, error or off.
	Level string

	// Format is json, console or auto. Auto picks console on a terminal.
	Format string

	// Output is stderr, stdout, discard, or a file path. Files are rotated.
	Output string

	// TimeFormat is kitchen, rfc3339, unix, or a Go layout.
	TimeFormat string

	NoColor bool

	// AddCaller includes file:line. Debug and trace levels always do.
	AddCaller bool

	MaxSizeMB  int
	MaxBackups int
}

// DefaultConfig returns info-level logging to stderr.
func DefaultConfig() *Config {
	return &Config{
		Level:      "info",
		Format:     "auto",
		Output:     "stderr",
		TimeFormat: "kitchen",
		NoColor:    os.Getenv("NO_COLOR") != "",
		MaxSizeMB:  constants.LogMaxSizeMB,
		MaxBackups: constants.LogMaxBackups,
	}
}

// NewLoggerFromConfig builds a logger and sets the zerolog global level to match.
func NewLoggerFromConfig(cfg *Config) zerolog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	level := ParseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)

	ctx := zerolog.New(cfg.writer()).Level(level).With().Timestamp()
	if cfg.AddCaller || level <= zerolog.DebugLevel {
		ctx = ctx.Caller()
	}
	return ctx.Logger()
}

func (cfg *Config) writer() io.Writer {
	out, terminal := cfg.output()

	switch strings.ToLower(cfg.Format) {
	case "console", "pretty":
		terminal = true
	case "json":
		terminal = false
	}
	if !terminal {
		return out
	}
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: timeLayout(cfg.TimeFormat),
		NoColor:    cfg.NoColor,
	}
}

// output opens the destination and reports whether it is a terminal.
func (cfg *Config) output() (io.Writer, bool) {
	switch strings.ToLower(cfg.Output) {
	case "stdout":
		return os.Stdout, isTerminal(os.Stdout)
	case "", "stderr":
		return os.Stderr, isTerminal(os.Stderr)
	case "discard", "none":
		return io.Discard, false
	}
	return &lumberjack.Logger{
		Filename:   cfg.Output,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
	}, false
}

// ParseLevel converts a level name to a zerolog level. Unknown names are info.
func ParseLevel(name string) zerolog.Level {
	switch strings.ToLower(name) {
	case "warning":
		return zerolog.WarnLevel
	case "off", "none":
		return zerolog.Disabled
	}
	level, err := zerolog.ParseLevel(strings.ToLower(name))
	if err != nil || name == "" {
		return zerolog.InfoLevel
	}
	return level
}

func timeLayout(name string) string {
	switch strings.ToLower(name) {
	case "", "kitchen":
		return time.Kitchen
	case "rfc3339":
		return time.RFC3339
	case "unix", "epoch":
		return ""
	case "stamp":
		return time.Stamp
	}
	if strings.Contains(name, "2006") || strings.Contains(name, "15:04") {
		return name
	}
	return time.Kitchen
}
