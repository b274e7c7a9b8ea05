package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics wires the three counters/gauges spec 4.J names: "a gauge for
// emission chunks remaining, a counter for photons stored per map, a
// counter for depth-exhaustion events per pass". The depth-exhaustion
// counter is a single unlabelled series: events from both passes add to
// it and are not told apart. One instance is shared
// by both the photon.Tracer (Pass 1) and the radiance.Estimator (Pass 2);
// radiance.Metrics only ever calls IncDepthExhaustion, a strict subset of
// what photon.Metrics needs, so the same type satisfies both interfaces
// structurally.
type Metrics struct {
	emissionRemaining prometheus.Gauge
	photonsStored     *prometheus.CounterVec
	depthExhaustion   prometheus.Counter
}

// NewMetrics registers the photonmap collectors against reg and returns
// the wrapper both passes report through.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		emissionRemaining: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "photonmap",
			Subsystem: "tracer",
			Name:      "emission_chunks_remaining",
			Help:      "Emission work chunks not yet processed by Pass 1.",
		}),
		photonsStored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "photonmap",
			Subsystem: "tracer",
			Name:      "photons_stored_total",
			Help:      "Photons stored, partitioned by map (direct, indirect, caustic, shadow).",
		}, []string{"map"}),
		depthExhaustion: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "photonmap",
			Name:      "depth_exhaustion_total",
			Help:      "Paths (either pass) terminated by hitting max_ray_depth, a source of bias.",
		}),
	}

	for _, c := range []prometheus.Collector{m.emissionRemaining, m.photonsStored, m.depthExhaustion} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// SetEmissionProgress implements pkg/photon.Metrics.
func (m *Metrics) SetEmissionProgress(remaining, total int) {
	m.emissionRemaining.Set(float64(remaining))
	_ = total // total is exposed via the gauge's absolute value only; no separate series needed.
}

// AddPhotonsStored implements pkg/photon.Metrics.
func (m *Metrics) AddPhotonsStored(mapName string, n int) {
	m.photonsStored.WithLabelValues(mapName).Add(float64(n))
}

// IncDepthExhaustion implements both pkg/photon.Metrics and
// pkg/radiance.Metrics.
func (m *Metrics) IncDepthExhaustion() {
	m.depthExhaustion.Inc()
}
