package middleware

import (
	"net/http"
	"time"

	"eventhub/internal/metrics"
)

// Metrics records request count and latency per matched route pattern.
// It must wrap the ServeMux so the pattern is set once next returns.
func Metrics(m *metrics.Metrics, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		m.ObserveRequest(r.Pattern, r.Method, wrapped.status, time.Since(start))
	})
}
