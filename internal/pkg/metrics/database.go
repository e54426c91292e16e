// Package metrics holds the Prometheus collectors shared by the storage and
// service layers. It imports nothing from either so both can depend on it.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SlowQueryThreshold is the duration above which a query counts as slow
const SlowQueryThreshold = 100 * time.Millisecond

const (
	outcomeOK    = "ok"
	outcomeError = "error"
)

var storeLabels = []string{"database", "operation"}

var (
	queryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "phee_operations",
		Subsystem: "store",
		Name:      "query_duration_seconds",
		Help:      "Latency of audit store queries.",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	}, storeLabels)

	queryCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "phee_operations",
		Subsystem: "store",
		Name:      "queries_total",
		Help:      "Audit store queries by outcome.",
	}, append(storeLabels, "outcome"))

	slowQueryCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "phee_operations",
		Subsystem: "store",
		Name:      "slow_queries_total",
		Help:      "Audit store queries slower than the slow query threshold.",
	}, storeLabels)

	resolvedKeyRows = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "phee_operations",
		Name:      "business_key_resolved_rows",
		Help:      "Business key rows found per lookup.",
		Buckets:   []float64{0, 1, 2, 5, 10, 25, 50},
	}, []string{"child"})
)

// ObserveQuery records one store round trip. A non-nil err counts it under
// the error outcome.
func ObserveQuery(database, operation string, took time.Duration, err error) {
	outcome := outcomeOK
	if err != nil {
		outcome = outcomeError
	}
	queryCount.WithLabelValues(database, operation, outcome).Inc()
	queryLatency.WithLabelValues(database, operation).Observe(took.Seconds())
	if took > SlowQueryThreshold {
		slowQueryCount.WithLabelValues(database, operation).Inc()
	}
}

// RecordBusinessKeyResolution records how many business key rows one lookup
// fanned out to. child names the collection fetched per row.
func RecordBusinessKeyResolution(child string, rows int) {
	resolvedKeyRows.WithLabelValues(child).Observe(float64(rows))
}
