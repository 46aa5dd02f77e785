package server

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/df07/go-recursive-raytracer/pkg/renderer"
)

// Metrics holds the server's Prometheus collectors
type Metrics struct {
	RendersTotal   *prometheus.CounterVec
	RenderDuration prometheus.Histogram
	SamplesTotal   prometheus.Counter
	InspectsTotal  *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RendersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "raytracer",
			Name:      "renders_total",
			Help:      "Render requests by outcome.",
		}, []string{"status"}),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "raytracer",
			Name:      "render_duration_seconds",
			Help:      "Wall-clock time of completed renders.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		SamplesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "raytracer",
			Name:      "primary_samples_total",
			Help:      "Primary camera samples traced by completed renders.",
		}),
		InspectsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "raytracer",
			Name:      "inspects_total",
			Help:      "Inspect requests by whether the ray hit a shape.",
		}, []string{"hit"}),
	}

	reg.MustRegister(m.RendersTotal, m.RenderDuration, m.SamplesTotal, m.InspectsTotal)
	return m
}

// observeRender records a completed render
func (m *Metrics) observeRender(stats renderer.RenderStats) {
	m.RendersTotal.WithLabelValues("ok").Inc()
	m.RenderDuration.Observe(stats.Duration.Seconds())
	m.SamplesTotal.Add(float64(stats.TotalSamples))
}
