package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/velodash/gearframe/internal/observability"
)

// Metrics records per-request Prometheus counters and latency. The
// route label is the chi pattern, not the raw path, so user and gear
// identifiers never blow up the label cardinality.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}

		observability.RecordHTTPRequest(
			r.Method,
			route,
			wrapped.statusCode,
			time.Since(start),
		)
	})
}
