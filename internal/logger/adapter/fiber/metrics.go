package fiber

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric names exported on /metrics.
const (
	RequestsMetric = "http_requests_total"
	DurationMetric = "http_request_duration_seconds"
)

type requestMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var (
	metrics     *requestMetrics //nolint:gochecknoglobals
	metricsOnce sync.Once       //nolint:gochecknoglobals
)

// registerMetrics registers the request collectors once per process.
func registerMetrics() *requestMetrics {
	metricsOnce.Do(func() {
		metrics = &requestMetrics{
			requests: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: RequestsMetric,
					Help: "Number of handled http requests by method, route and status.",
				},
				[]string{"method", "route", "status"},
			),
			duration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    DurationMetric,
					Help:    "Time spent handling http requests by method and route.",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"method", "route"},
			),
		}
	})

	return metrics
}

// observe records one request. route is the matched route pattern, not the
// raw path, to keep the label set bounded.
func (m *requestMetrics) observe(method, route string, status int, elapsed float64) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(elapsed)
}
