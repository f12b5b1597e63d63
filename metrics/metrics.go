// Package metrics exposes Prometheus counters of the session components.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "authsession"

// Metrics holds all Prometheus metrics of the session components
type Metrics struct {
	FileTokenRequests *prometheus.CounterVec
	DispatchedErrors  *prometheus.CounterVec
	BootstrapRefresh  *prometheus.CounterVec
}

// New creates metrics and registers them with registerer
func New(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		FileTokenRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "file_token_requests_total",
			Help:      "Protected file token lookups by result (skip, hit, fetch, error).",
		}, []string{"result"}),
		DispatchedErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatched_errors_total",
			Help:      "API errors handled by the dispatcher by class.",
		}, []string{"class"}),
		BootstrapRefresh: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bootstrap_refresh_total",
			Help:      "Startup session refresh attempts by outcome.",
		}, []string{"outcome"}),
	}
}

// FileToken counts a file token lookup
func (m *Metrics) FileToken(result string) {
	if m == nil {
		return
	}
	m.FileTokenRequests.WithLabelValues(result).Inc()
}

// DispatchedError counts a handled API error
func (m *Metrics) DispatchedError(class string) {
	if m == nil {
		return
	}
	m.DispatchedErrors.WithLabelValues(class).Inc()
}

// Bootstrap counts a startup refresh outcome
func (m *Metrics) Bootstrap(outcome string) {
	if m == nil {
		return
	}
	m.BootstrapRefresh.WithLabelValues(outcome).Inc()
}
