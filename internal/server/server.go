// Package server serves the published output directory over HTTP.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/agentstation/arcade/pkg/errors"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	config Config
	logger *zerolog.Logger
	http   *http.Server
}

// New creates a new server for the directory cfg.Root.
func New(cfg Config, logger *zerolog.Logger) (*Server, error) {
	if cfg.Root == "" {
		return nil, &errors.ValidationError{Field: "root", Message: "cannot be empty"}
	}
	info, err := os.Stat(cfg.Root)
	if err != nil {
		return nil, errors.WrapIO("stat", cfg.Root, err)
	}
	if !info.IsDir() {
		return nil, &errors.ValidationError{Field: "root", Value: cfg.Root, Message: "is not a directory"}
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		return nil, &errors.ValidationError{Field: "port", Value: strconv.Itoa(cfg.Port), Message: "out of range"}
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	s := &Server{config: cfg, logger: logger}
	s.http = &http.Server{
		Addr:              s.Addr(),
		Handler:           s.setupRouter(),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
	return s, nil
}

// Handler returns the configured http.Handler with middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
}

// URL returns the address the server is reachable at from other devices on
// the local network.
func (s *Server) URL() string {
	host := s.config.Host
	if host == "" || host == "0.0.0.0" {
		host = LocalIP()
	}
	return fmt.Sprintf("http://%s", net.JoinHostPort(host, strconv.Itoa(s.config.Port)))
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go func() {
		s.logger.Info().
			Str("addr", s.http.Addr).
			Str("root", s.config.Root).
			Msg("Server starting")

		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("server failed: %w", err)
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		s.logger.Info().Msg("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()

		if err := s.http.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		s.logger.Info().Msg("Server stopped gracefully")
		return nil
	}
}

// LocalIP returns the first non-loopback IPv4 address of this machine, or
// 127.0.0.1 when there is none.
func LocalIP() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "127.0.0.1"
	}
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() {
			continue
		}
		if ip4 := ipNet.IP.To4(); ip4 != nil {
			return ip4.String()
		}
	}
	return "127.0.0.1"
}
