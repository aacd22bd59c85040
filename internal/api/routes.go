package api

import (
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
)

// NewRouter wires the API endpoints and, when staticDir exists, the web
// front end that calls them.
func NewRouter(h *Handler, staticDir string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat", h.HandleChat)
	mux.HandleFunc("/api/translate", h.HandleTranslate)

	if staticDir != "" {
		if info, err := os.Stat(staticDir); err == nil && info.IsDir() {
			mux.Handle("/", http.FileServer(http.Dir(staticDir)))
		} else {
			h.logger.Info("Static directory not found, serving API only", zap.String("dir", staticDir))
		}
	}

	return RequestLogger(h.logger)(mux)
}

// RequestLogger logs one line per request once the handler returns.
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			logger.Info("Handled request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", sw.status),
				zap.Int64("bytes", sw.bytes),
				zap.Duration("duration", time.Since(start)))
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status      int
	bytes       int64
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		w.status = status
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(p []byte) (int, error) {
	w.wroteHeader = true
	n, err := w.ResponseWriter.Write(p)
	w.bytes += int64(n)
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer to flush.
func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
