package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "comic",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "comic",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	signInAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "comic",
			Subsystem: "signin",
			Name:      "attempts_total",
			Help:      "Sign-in attempts by flow and outcome.",
		},
		[]string{"flow", "outcome"},
	)
	accountLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "comic",
			Subsystem: "signin",
			Name:      "account_lookups_total",
			Help:      "Account existence lookups by result.",
		},
		[]string{"presence"},
	)
)

// RegisterMetrics registers collectors with the default registry once.
func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, signInAttempts, accountLookups)
	})
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, code).Inc()
	httpDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
}

func RecordSignIn(flow, outcome string) {
	signInAttempts.WithLabelValues(flow, outcome).Inc()
}

func RecordLookup(presence string) {
	accountLookups.WithLabelValues(presence).Inc()
}
