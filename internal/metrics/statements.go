package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StatementMetrics records statements issued through the executor.
type StatementMetrics struct {
	Total    *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewStatementMetrics creates and registers statement metrics on the given
// registry.
func NewStatementMetrics(reg prometheus.Registerer) *StatementMetrics {
	m := &StatementMetrics{
		Total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sql",
			Name:      "statements_total",
			Help:      "Statements executed, by operation and native result code.",
		}, []string{"operation", "code"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sql",
			Name:      "statement_duration_seconds",
			Help:      "Statement latency in seconds.",
			Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
	}

	reg.MustRegister(m.Total, m.Duration)
	return m
}

// Observe records one statement. code is empty for a successful statement.
// Its signature matches sqlexec.StatementHook.
func (m *StatementMetrics) Observe(operation, code string, d time.Duration) {
	if code == "" {
		code = resultOK
	}
	m.Total.WithLabelValues(operation, code).Inc()
	m.Duration.WithLabelValues(operation).Observe(seconds(d))
}
