package server

import (
	"net/http"
	"time"

	"github.com/brickfolio/localsync/internal/logger"
)

// RequestLogging attaches the logger to the request context and logs one
// line per request.
func RequestLogging(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			lw := &responseWriter{ResponseWriter: w}
			next.ServeHTTP(lw, r.WithContext(log.WithContext(r.Context())))

			log.Info().
				Str("uri", r.RequestURI).
				Str("method", r.Method).
				Int("status", lw.status).
				Dur("duration", time.Since(start)).
				Int("size", lw.size).
				Send()
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (w *responseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}
