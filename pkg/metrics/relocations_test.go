package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRelocationMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRelocationMetrics(reg)

	m.IncSuccess()
	m.IncSuccess()
	m.IncFailure("VALIDATION_ERROR")
	m.IncFailure("")
	m.ObserveDuration("success", 120*time.Millisecond)

	if got := testutil.ToFloat64(m.success); got != 2 {
		t.Fatalf("expected 2 successes, got %v", got)
	}
	if got := testutil.ToFloat64(m.failure.WithLabelValues("VALIDATION_ERROR")); got != 1 {
		t.Fatalf("expected 1 validation failure, got %v", got)
	}
	if got := testutil.ToFloat64(m.failure.WithLabelValues("unknown")); got != 1 {
		t.Fatalf("expected empty code to normalize to unknown, got %v", got)
	}
}

func TestRelocationMetrics_NilSafe(t *testing.T) {
	var m *RelocationMetrics
	m.IncSuccess()
	m.IncFailure("x")
	m.ObserveDuration("success", time.Second)

	empty := NewRelocationMetrics(nil)
	empty.IncSuccess()
}
