package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gearframe",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests handled, by method, route pattern and status code.",
	}, []string{"method", "route", "status"})

	httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gearframe",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency, by route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	platformRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gearframe",
		Subsystem: "platform",
		Name:      "requests_total",
		Help:      "Requests to the fitness platform API, by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})

	tokenRefreshesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gearframe",
		Subsystem: "tokens",
		Name:      "refreshes_total",
		Help:      "Access token refreshes, by outcome.",
	}, []string{"outcome"})

	aggregationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "gearframe",
		Subsystem: "gear",
		Name:      "aggregation_duration_seconds",
		Help:      "Wall-clock time of one gear statistics aggregation.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	})
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		platformRequestsTotal,
		tokenRefreshesTotal,
		aggregationDuration,
	)
}

// RecordHTTPRequest counts one handled HTTP request
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordPlatformRequest counts one request to the external platform
func RecordPlatformRequest(endpoint string, err error) {
	platformRequestsTotal.WithLabelValues(endpoint, outcome(err)).Inc()
}

// RecordTokenRefresh counts one token refresh attempt
func RecordTokenRefresh(err error) {
	tokenRefreshesTotal.WithLabelValues(outcome(err)).Inc()
}

// RecordAggregation observes the duration of one aggregation run
func RecordAggregation(duration time.Duration) {
	aggregationDuration.Observe(duration.Seconds())
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
