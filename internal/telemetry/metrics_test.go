package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsAddPhotonsStoredAccumulatesPerMap(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	m.AddPhotonsStored("direct", 3)
	m.AddPhotonsStored("direct", 4)
	m.AddPhotonsStored("caustic", 1)

	if got := testutil.ToFloat64(m.photonsStored.WithLabelValues("direct")); got != 7 {
		t.Errorf("direct photons stored = %v, want 7", got)
	}
	if got := testutil.ToFloat64(m.photonsStored.WithLabelValues("caustic")); got != 1 {
		t.Errorf("caustic photons stored = %v, want 1", got)
	}
}

func TestMetricsIncDepthExhaustionCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	m.IncDepthExhaustion()
	m.IncDepthExhaustion()

	if got := testutil.ToFloat64(m.depthExhaustion); got != 2 {
		t.Errorf("depth exhaustion count = %v, want 2", got)
	}
}

func TestMetricsSetEmissionProgressReportsRemaining(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	m.SetEmissionProgress(5, 10)
	if got := testutil.ToFloat64(m.emissionRemaining); got != 5 {
		t.Errorf("emission remaining = %v, want 5", got)
	}
}
