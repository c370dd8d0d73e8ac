// Package metrics exposes the client's prometheus collectors.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Default is the shared metrics instance.
var Default = New()

// Renewal outcomes.
const (
	RenewalRenewed = "renewed"
	RenewalFailed  = "failed"
)

// Metrics bundles the registry and the client's collectors.
type Metrics struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	renewals *prometheus.CounterVec
	sessions prometheus.Gauge
}

// New creates a Metrics with a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "airport_client_requests_total",
			Help: "Backend requests by service, method and status class.",
		}, []string{"service", "method", "status"}),
		renewals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "airport_client_token_renewals_total",
			Help: "Token renewal exchanges by outcome.",
		}, []string{"outcome"}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "airport_client_session_active",
			Help: "1 while an authenticated session is held.",
		}),
	}

	m.registry.MustRegister(m.requests, m.renewals, m.sessions)
	return m
}

// WithGoCollector registers the Go runtime collector.
func (m *Metrics) WithGoCollector() {
	m.registry.MustRegister(collectors.NewGoCollector())
}

// Registry returns the underlying registry, for exposition.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRequest records one completed backend request.
func (m *Metrics) ObserveRequest(service, method string, status int) {
	m.requests.WithLabelValues(service, method, statusClass(status)).Inc()
}

// ObserveRenewal records a renewal exchange outcome.
func (m *Metrics) ObserveRenewal(outcome string) {
	m.renewals.WithLabelValues(outcome).Inc()
}

// SetSessionActive flips the active-session gauge.
func (m *Metrics) SetSessionActive(active bool) {
	if active {
		m.sessions.Set(1)
		return
	}
	m.sessions.Set(0)
}

func statusClass(status int) string {
	if status < 100 || status > 599 {
		return "error"
	}
	return strconv.Itoa(status/100) + "xx"
}
