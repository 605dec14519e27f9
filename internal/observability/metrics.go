// Package observability registers and updates the service's Prometheus
// metrics. Collectors are package-level and registered once at init, except
// the pool gauges which need a live pool and register on first use.
package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	statementDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "killboard",
		Subsystem: "store",
		Name:      "statement_duration_seconds",
		Help:      "Wall time spent dispatching a single SQL statement.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"verb"})

	statementErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "killboard",
		Subsystem: "store",
		Name:      "statement_errors_total",
		Help:      "Statements that came back with a store error.",
	}, []string{"verb"})
)

func init() {
	prometheus.MustRegister(statementDuration, statementErrors)
}

// ObserveStatement records one executed statement, labelled by its leading
// SQL verb.
func ObserveStatement(verb string, elapsed time.Duration, err error) {
	statementDuration.WithLabelValues(verb).Observe(elapsed.Seconds())
	if err != nil {
		statementErrors.WithLabelValues(verb).Inc()
	}
}

var poolStatsOnce sync.Once

// RegisterPoolStats exposes connection pool occupancy gauges. Only the first
// call registers; later calls are ignored.
func RegisterPoolStats(acquired, idle, capacity func() float64) {
	poolStatsOnce.Do(func() {
		prometheus.MustRegister(
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Namespace: "killboard",
				Subsystem: "pool",
				Name:      "acquired_connections",
				Help:      "Connections currently checked out of the pool.",
			}, acquired),
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Namespace: "killboard",
				Subsystem: "pool",
				Name:      "idle_connections",
				Help:      "Connections sitting idle in the pool.",
			}, idle),
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Namespace: "killboard",
				Subsystem: "pool",
				Name:      "max_connections",
				Help:      "Configured pool capacity.",
			}, capacity),
		)
	})
}
