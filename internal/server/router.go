package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/agentstation/arcade/internal/server/middleware"
)

// Content types of the precompressed emulator files. The client decompresses
// them, so the type is that of the uncompressed payload.
var gzipContentTypes = map[string]string{
	".js.gz":   "application/javascript",
	".wasm.gz": "application/wasm",
	".data.gz": "application/octet-stream",
}

// setupRouter creates the HTTP handler with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	mux := http.NewServeMux()

	files := http.FileServer(http.Dir(s.config.Root))
	mux.Handle("/", s.staticHeaders(files))

	return s.applyMiddleware(mux)
}

// staticHeaders sets caching and encoding headers before the file is served.
func (s *Server) staticHeaders(next http.Handler) http.Handler {
	cacheControl := "public, max-age=" + strconv.Itoa(int(s.config.CacheMaxAge.Seconds()))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", cacheControl)

		if strings.HasSuffix(r.URL.Path, ".gz") {
			w.Header().Set("Content-Type", gzipContentType(r.URL.Path))
			w.Header().Set("Content-Encoding", "gzip")
		}

		next.ServeHTTP(w, r)
	})
}

func gzipContentType(path string) string {
	for suffix, contentType := range gzipContentTypes {
		if strings.HasSuffix(path, suffix) {
			return contentType
		}
	}
	return "application/octet-stream"
}

// applyMiddleware wraps the handler with recovery and request logging.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	return middleware.Chain(
		middleware.Recovery(s.logger),
		middleware.Logger(s.logger),
	)(handler)
}
