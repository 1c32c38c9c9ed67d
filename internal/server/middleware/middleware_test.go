package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestChain_ExecutionOrder verifies first added is outermost middleware.
func TestChain_ExecutionOrder(t *testing.T) {
	var executionLog []string

	track := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				executionLog = append(executionLog, "start-"+name)
				next.ServeHTTP(w, r)
				executionLog = append(executionLog, "end-"+name)
			})
		}
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		executionLog = append(executionLog, "handler")
		w.WriteHeader(http.StatusOK)
	})

	Chain(track("1"), track("2"))(handler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"start-1", "start-2", "handler", "end-2", "end-1"}, executionLog)
}

func TestChain_Empty(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	w := httptest.NewRecorder()
	Chain()(handler).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)
}

// TestLogger tests request logging middleware.
func TestLogger(t *testing.T) {
	tests := []struct {
		name          string
		path          string
		handlerStatus int
		expectLevel   string
	}{
		{name: "document", path: "/games/mame-pacman-0a1b2c3d.html", handlerStatus: http.StatusOK, expectLevel: "debug"},
		{name: "not modified", path: "/scripts/loader.js", handlerStatus: http.StatusNotModified, expectLevel: "debug"},
		{name: "missing file", path: "/games/unknown.html", handlerStatus: http.StatusNotFound, expectLevel: "warn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := zerolog.New(&buf)

			handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.handlerStatus)
				_, _ = w.Write([]byte("arcade"))
			})

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.RemoteAddr = "192.168.1.1:12345"
			w := httptest.NewRecorder()
			Logger(&logger)(handler).ServeHTTP(w, req)

			assert.Equal(t, tt.handlerStatus, w.Code)

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.expectLevel, entry["level"])
			assert.Equal(t, http.MethodGet, entry["method"])
			assert.Equal(t, tt.path, entry["path"])
			assert.Equal(t, "192.168.1.1:12345", entry["remote_addr"])
			assert.InDelta(t, float64(tt.handlerStatus), entry["status"], 0)
			assert.Contains(t, entry, "duration_ms")
			if tt.handlerStatus != http.StatusNotModified {
				assert.InDelta(t, 6, entry["bytes"], 0)
			}
			assert.Equal(t, "HTTP request", entry["message"])
		})
	}
}

// TestRecovery tests panic recovery middleware.
func TestRecovery(t *testing.T) {
	t.Run("no panic", func(t *testing.T) {
		var buf bytes.Buffer
		logger := zerolog.New(&buf)

		handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		w := httptest.NewRecorder()
		Recovery(&logger)(handler).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, buf.String())
	})

	t.Run("panic", func(t *testing.T) {
		var buf bytes.Buffer
		logger := zerolog.New(&buf)

		handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Encoding", "gzip")
			panic("something went wrong")
		})

		w := httptest.NewRecorder()
		Recovery(&logger)(handler).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/mame/mamepacman.wasm.gz", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Empty(t, w.Header().Get("Content-Encoding"))
		assert.Contains(t, buf.String(), "Panic recovered")
		assert.Contains(t, buf.String(), "something went wrong")
	})
}
