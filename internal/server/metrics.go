package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the run counters exported on /metrics.
type Metrics struct {
	runs       *prometheus.CounterVec
	records    *prometheus.HistogramVec
	duration   *prometheus.HistogramVec
	storedRuns prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "noviz",
			Name:      "runs_total",
			Help:      "Calculated runs by method and outcome.",
		}, []string{"method", "outcome"}),
		records: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "noviz",
			Name:      "run_records",
			Help:      "Recorded steps per completed run.",
			Buckets:   prometheus.ExponentialBuckets(4, 4, 8),
		}, []string{"method"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "noviz",
			Name:      "run_duration_seconds",
			Help:      "Time spent computing a run.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"method"}),
		storedRuns: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "noviz",
			Name:      "stored_runs",
			Help:      "Runs currently held for playback.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.runs, m.records, m.duration, m.storedRuns)
	}
	return m
}

func (m *Metrics) observeRun(method, outcome string, records int, seconds float64) {
	m.runs.WithLabelValues(method, outcome).Inc()
	if outcome != outcomeOK {
		return
	}
	m.records.WithLabelValues(method).Observe(float64(records))
	m.duration.WithLabelValues(method).Observe(seconds)
}

const (
	outcomeOK     = "ok"
	outcomeFailed = "failed"
)
