package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/arcade/pkg/errors"
	"github.com/agentstation/arcade/pkg/logging"
)

func publicDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"games/mame-pacman-0a1b2c3d.html": "<!DOCTYPE html><title>Pac-Man</title>",
		"mame/mamepacman.wasm.gz":         "wasm",
		"mame/mamepacman.js.gz":           "js",
		"mame/pacman.data.gz":             "data",
		"mame/roms/0.261/pacman.zip":      "zip",
		"app.json":                        `{"name":"Arcade","id":"0a1b2c3d"}`,
	}
	for key, content := range files {
		file := filepath.Join(root, filepath.FromSlash(key))
		require.NoError(t, os.MkdirAll(filepath.Dir(file), 0o755))
		require.NoError(t, os.WriteFile(file, []byte(content), 0o644))
	}
	return root
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Root = publicDir(t)
	s, err := New(cfg, logging.NewNopLogger())
	require.NoError(t, err)
	return s
}

func TestServeFiles(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	tests := []struct {
		name            string
		path            string
		status          int
		contentType     string
		contentEncoding string
		body            string
	}{
		{
			name:        "document",
			path:        "/games/mame-pacman-0a1b2c3d.html",
			status:      http.StatusOK,
			contentType: "text/html; charset=utf-8",
			body:        "<!DOCTYPE html><title>Pac-Man</title>",
		},
		{
			name:            "compressed wasm",
			path:            "/mame/mamepacman.wasm.gz",
			status:          http.StatusOK,
			contentType:     "application/wasm",
			contentEncoding: "gzip",
			body:            "wasm",
		},
		{
			name:            "compressed script",
			path:            "/mame/mamepacman.js.gz",
			status:          http.StatusOK,
			contentType:     "application/javascript",
			contentEncoding: "gzip",
			body:            "js",
		},
		{
			name:            "compressed data",
			path:            "/mame/pacman.data.gz",
			status:          http.StatusOK,
			contentType:     "application/octet-stream",
			contentEncoding: "gzip",
			body:            "data",
		},
		{
			name:   "rom archive",
			path:   "/mame/roms/0.261/pacman.zip",
			status: http.StatusOK,
			body:   "zip",
		},
		{
			name:   "missing",
			path:   "/games/unknown.html",
			status: http.StatusNotFound,
		},
	}

	// Raw transport so the client does not decompress gzip responses
	client := &http.Client{Transport: &http.Transport{DisableCompression: true}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := client.Get(ts.URL + tt.path)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.status != http.StatusOK {
				return
			}
			assert.Equal(t, "public, max-age=315360000", resp.Header.Get("Cache-Control"))
			if tt.contentType != "" {
				assert.Equal(t, tt.contentType, resp.Header.Get("Content-Type"))
			}
			assert.Equal(t, tt.contentEncoding, resp.Header.Get("Content-Encoding"))

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, tt.body, string(body))
		})
	}
}

func TestNew(t *testing.T) {
	t.Run("empty root", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Root = ""
		_, err := New(cfg, nil)
		var verr *errors.ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("missing root", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Root = filepath.Join(t.TempDir(), "public")
		_, err := New(cfg, nil)
		assert.Error(t, err)
	})

	t.Run("root is a file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "app.json")
		require.NoError(t, os.WriteFile(file, []byte("{}"), 0o644))

		cfg := DefaultConfig()
		cfg.Root = file
		_, err := New(cfg, nil)
		var verr *errors.ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("port out of range", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Root = t.TempDir()
		cfg.Port = 70000
		_, err := New(cfg, nil)
		assert.Error(t, err)
	})
}

func TestURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Root = t.TempDir()
	cfg.Host = "192.168.1.20"
	cfg.Port = 9000

	s, err := New(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.20:9000", s.Addr())
	assert.Equal(t, "http://192.168.1.20:9000", s.URL())

	cfg.Host = ""
	s, err = New(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "http://"+LocalIP()+":9000", s.URL())
}

func TestLocalIP(t *testing.T) {
	ip := net.ParseIP(LocalIP())
	require.NotNil(t, ip)
	assert.NotNil(t, ip.To4())
}

func TestListenAndServeShutdown(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Root = publicDir(t)
	cfg.Host = "127.0.0.1"
	cfg.Port = 0

	s, err := New(cfg, logging.NewNopLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
