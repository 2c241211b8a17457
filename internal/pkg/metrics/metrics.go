package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Analysis metrics
	analysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "egresswatch",
			Subsystem: "analysis",
			Name:      "runs_total",
			Help:      "Total number of node rule analyses",
		},
		[]string{"node", "status"},
	)

	analysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "egresswatch",
			Subsystem: "analysis",
			Name:      "duration_seconds",
			Help:      "Node rule analysis duration in seconds",
			Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	parseFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "egresswatch",
			Subsystem: "parser",
			Name:      "failures_total",
			Help:      "Total number of rule lines that failed to parse",
		},
		[]string{"kind"},
	)

	consistencyScore = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "egresswatch",
			Subsystem: "analysis",
			Name:      "consistency_score",
			Help:      "Last computed NAT/policy consistency score per node",
		},
		[]string{"node"},
	)

	// Snapshot metrics
	snapshotsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "egresswatch",
			Subsystem: "monitor",
			Name:      "snapshots_total",
			Help:      "Total number of rule snapshots taken",
		},
		[]string{"node"},
	)

	changeEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "egresswatch",
			Subsystem: "monitor",
			Name:      "change_events_total",
			Help:      "Total number of detected rule change events",
		},
		[]string{"node"},
	)

	// Store metrics
	storeWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "egresswatch",
			Subsystem: "store",
			Name:      "writes_total",
			Help:      "Total number of metric store writes",
		},
		[]string{"table", "status"},
	)
)

// RecordAnalysis records a completed node analysis
func RecordAnalysis(node, status string, duration time.Duration) {
	analysesTotal.WithLabelValues(node, status).Inc()
	analysisDuration.Observe(duration.Seconds())
}

// RecordParseFailures adds to the parse failure counter for a rule kind
func RecordParseFailures(kind string, n int) {
	if n > 0 {
		parseFailuresTotal.WithLabelValues(kind).Add(float64(n))
	}
}

// SetConsistencyScore sets the last computed score for a node
func SetConsistencyScore(node string, score float64) {
	consistencyScore.WithLabelValues(node).Set(score)
}

// RecordSnapshot records a taken snapshot
func RecordSnapshot(node string) {
	snapshotsTotal.WithLabelValues(node).Inc()
}

// RecordChangeEvents adds detected change events for a node
func RecordChangeEvents(node string, n int) {
	if n > 0 {
		changeEventsTotal.WithLabelValues(node).Add(float64(n))
	}
}

// RecordStoreWrite records a store write outcome
func RecordStoreWrite(table string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	storeWritesTotal.WithLabelValues(table, status).Inc()
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
