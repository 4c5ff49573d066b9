// Package metrics defines the Prometheus instrumentation exposed by the
// serving adapters.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the engine collectors on a private registry so embedding
// applications never collide with the default one.
type Metrics struct {
	registry *prometheus.Registry

	AnalysisRuns    prometheus.Counter
	ConflictsFound  *prometheus.CounterVec
	SimulationSteps prometheus.Counter
	HTTPRequests    *prometheus.CounterVec
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		AnalysisRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "loom_analysis_runs_total",
			Help: "Number of conflict analyses executed.",
		}),
		ConflictsFound: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "loom_conflicts_found_total",
			Help: "Conflicts reported by static analysis, by kind.",
		}, []string{"kind"}),
		SimulationSteps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "loom_simulation_steps_total",
			Help: "Simulation transitions taken across all runs.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "loom_http_requests_total",
			Help: "HTTP requests served, by route and status code.",
		}, []string{"route", "code"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		m.AnalysisRuns,
		m.ConflictsFound,
		m.SimulationSteps,
		m.HTTPRequests,
	)
	return m
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
