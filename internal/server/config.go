package server

import (
	"time"

	"github.com/agentstation/arcade/pkg/constants"
)

// Config holds server configuration.
type Config struct {
	// Server settings
	Host string
	Port int

	// Root is the published output directory
	Root string

	// CacheMaxAge is sent as the Cache-Control max-age of every file
	CacheMaxAge time.Duration

	// HTTP timeouts
	ReadHeaderTimeout time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host:              "",
		Port:              constants.DefaultPort,
		Root:              constants.DefaultOutputDir,
		CacheMaxAge:       constants.CacheMaxAge,
		ReadHeaderTimeout: constants.ReadHeaderTimeout,
		IdleTimeout:       120 * time.Second,
		ShutdownTimeout:   constants.ShutdownTimeout,
	}
}
