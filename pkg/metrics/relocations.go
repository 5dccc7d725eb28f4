package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RelocationMetrics records outcomes of the asset relocation workflow.
type RelocationMetrics struct {
	duration *prometheus.HistogramVec
	success  prometheus.Counter
	failure  *prometheus.CounterVec
}

// NewRelocationMetrics registers the relocation metrics on the provided registerer.
func NewRelocationMetrics(reg prometheus.Registerer) *RelocationMetrics {
	if reg == nil {
		return &RelocationMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "asset_relocation_duration_seconds",
		Help:    "Duration of asset relocation transactions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	success := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "asset_relocation_success_total",
		Help: "Successful asset relocations.",
	})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "asset_relocation_failure_total",
		Help: "Failed asset relocations by error code.",
	}, []string{"code"})
	reg.MustRegister(duration, success, failure)
	return &RelocationMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
	}
}

// ObserveDuration records the duration for the given outcome label.
func (m *RelocationMetrics) ObserveDuration(outcome string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter.
func (m *RelocationMetrics) IncSuccess() {
	if m == nil || m.success == nil {
		return
	}
	m.success.Inc()
}

// IncFailure increments the failure counter for the given error code.
func (m *RelocationMetrics) IncFailure(code string) {
	if m == nil || m.failure == nil {
		return
	}
	m.failure.WithLabelValues(normalizeLabel(code)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
