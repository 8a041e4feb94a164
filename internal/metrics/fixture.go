package metrics

import (
	"time"

	"github.com/phrazzld/e2e-harness/internal/fixture"
	"github.com/prometheus/client_golang/prometheus"
)

// FixtureMetrics records scoped resource lifecycle events. It implements
// fixture.Observer.
type FixtureMetrics struct {
	Acquisitions    *prometheus.CounterVec
	AcquireDuration *prometheus.HistogramVec
	Releases        *prometheus.CounterVec
	Live            *prometheus.GaugeVec
}

var _ fixture.Observer = (*FixtureMetrics)(nil)

// NewFixtureMetrics creates and registers fixture metrics on the given registry.
func NewFixtureMetrics(reg prometheus.Registerer) *FixtureMetrics {
	m := &FixtureMetrics{
		Acquisitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fixture",
			Name:      "acquisitions_total",
			Help:      "Scoped resource acquisitions, by worker, resource and result.",
		}, []string{"worker", "resource", "result"}),
		AcquireDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "fixture",
			Name:      "acquire_duration_seconds",
			Help:      "Time taken to acquire a scoped resource.",
			Buckets:   []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"resource"}),
		Releases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fixture",
			Name:      "releases_total",
			Help:      "Scoped resource releases, by worker, resource and result.",
		}, []string{"worker", "resource", "result"}),
		Live: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "fixture",
			Name:      "live_resources",
			Help:      "Scoped resources currently acquired and not yet released.",
		}, []string{"worker", "resource"}),
	}

	reg.MustRegister(m.Acquisitions, m.AcquireDuration, m.Releases, m.Live)
	return m
}

// Acquired implements fixture.Observer.
func (m *FixtureMetrics) Acquired(worker, resource string, d time.Duration) {
	m.Acquisitions.WithLabelValues(worker, resource, resultOK).Inc()
	m.AcquireDuration.WithLabelValues(resource).Observe(seconds(d))
	m.Live.WithLabelValues(worker, resource).Inc()
}

// AcquireFailed implements fixture.Observer.
func (m *FixtureMetrics) AcquireFailed(worker, resource string, _ error) {
	m.Acquisitions.WithLabelValues(worker, resource, resultError).Inc()
}

// Released implements fixture.Observer.
func (m *FixtureMetrics) Released(worker, resource string, err error) {
	m.Releases.WithLabelValues(worker, resource, result(err)).Inc()
	m.Live.WithLabelValues(worker, resource).Dec()
}
