package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Metric names exported on /metrics.
const (
	StatementsMetric  = "log_statements_total"
	WriteErrorsMetric = "log_write_errors_total"
)

var (
	statements  *prometheus.CounterVec //nolint:gochecknoglobals
	writeErrors *prometheus.CounterVec //nolint:gochecknoglobals
	metricsOnce sync.Once              //nolint:gochecknoglobals

	// errorOut receives the events zerolog failed to write.
	errorOut io.Writer = os.Stderr //nolint:gochecknoglobals
)

func registerMetrics() {
	metricsOnce.Do(func() {
		statements = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: StatementsMetric,
				Help: "Number of log statements, differentiated by service and log level.",
			},
			[]string{"service", "level"},
		)
		writeErrors = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: WriteErrorsMetric,
				Help: "Number of log events that could not be written.",
			},
			[]string{"service"},
		)
	})
}

// Hook is a zerolog hook counting log statements per level.
// Access log lines (NoLevel) are not counted.
type Hook struct {
	service string
}

// NewHook returns the counting hook for service.
func NewHook(service string) Hook {
	registerMetrics()

	return Hook{service: service}
}

// Run implements zerolog.Hook.
func (h Hook) Run(_ *zerolog.Event, level zerolog.Level, _ string) {
	if level == zerolog.NoLevel || level == zerolog.Disabled {
		return
	}

	statements.WithLabelValues(h.service, level.String()).Inc()
}

// errorHandler returns the zerolog.ErrorHandler of service: it counts the
// failed write and reports it on stderr.
func errorHandler(service string) func(err error) {
	registerMetrics()

	failed := writeErrors.WithLabelValues(service)

	return func(err error) {
		failed.Inc()

		_, _ = fmt.Fprintf(errorOut, "zerolog: could not write event: %v\n", err)
	}
}
