// Package metrics wraps a Prometheus registry exposing the engine's
// operation counters, histograms, and gauges. The HTTP exposition endpoint
// belongs to the CLI driver; this package only records observations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds every metric the engine updates.
type Registry struct {
	LoadDuration  prometheus.Histogram
	BuildDuration prometheus.Histogram

	DiagnosticsTotal *prometheus.CounterVec

	BusesTotal             prometheus.Gauge
	FeedersTotal           prometheus.Gauge
	CouplersTotal          prometheus.Gauge
	PlanTransformersTotal  prometheus.Gauge

	registry *prometheus.Registry
}

// NewRegistry creates a registry with every metric initialized against a
// fresh prometheus.Registry.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{registry: reg}

	r.LoadDuration = promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
		Name:    "sclsld_load_duration_seconds",
		Help:    "Time spent parsing and indexing an SCL file.",
		Buckets: prometheus.DefBuckets,
	})
	r.BuildDuration = promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
		Name:    "sclsld_build_duration_seconds",
		Help:    "Time spent clustering, detecting, and assembling the SLD plan.",
		Buckets: prometheus.DefBuckets,
	})
	r.DiagnosticsTotal = promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
		Name: "sclsld_diagnostics_total",
		Help: "Total non-fatal diagnostics accumulated, by code.",
	}, []string{"code"})
	r.BusesTotal = promauto.With(reg).NewGauge(prometheus.GaugeOpts{
		Name: "sclsld_buses_total",
		Help: "Number of bus clusters in the most recent plan.",
	})
	r.FeedersTotal = promauto.With(reg).NewGauge(prometheus.GaugeOpts{
		Name: "sclsld_feeders_total",
		Help: "Number of feeders in the most recent plan.",
	})
	r.CouplersTotal = promauto.With(reg).NewGauge(prometheus.GaugeOpts{
		Name: "sclsld_couplers_total",
		Help: "Number of bus couplers in the most recent plan.",
	})
	r.PlanTransformersTotal = promauto.With(reg).NewGauge(prometheus.GaugeOpts{
		Name: "sclsld_plan_transformers_total",
		Help: "Number of power transformers summarized in the most recent plan.",
	})

	return r
}

// GetPrometheusRegistry returns the underlying registry for HTTP exposition.
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
