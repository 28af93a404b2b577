package metrics

import "time"

// RecordLoad observes a completed load() duration.
func (r *Registry) RecordLoad(d time.Duration) {
	r.LoadDuration.Observe(d.Seconds())
}

// RecordBuild observes a completed build() duration.
func (r *Registry) RecordBuild(d time.Duration) {
	r.BuildDuration.Observe(d.Seconds())
}

// RecordDiagnostic increments the diagnostics counter for the given code.
func (r *Registry) RecordDiagnostic(code string) {
	r.DiagnosticsTotal.WithLabelValues(code).Inc()
}

// SetPlanCounts updates the plan-shape gauges after a successful build().
func (r *Registry) SetPlanCounts(buses, feeders, couplers, planTransformers int) {
	r.BusesTotal.Set(float64(buses))
	r.FeedersTotal.Set(float64(feeders))
	r.CouplersTotal.Set(float64(couplers))
	r.PlanTransformersTotal.Set(float64(planTransformers))
}
