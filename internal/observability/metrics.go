// Package observability holds the Prometheus collectors exported on /metrics.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Login outcomes.
const (
	OutcomeAllowed = "allowed"
	OutcomeDenied  = "denied"
	OutcomeError   = "error"
)

// Metrics groups the service's collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry       *prometheus.Registry
	logins         *prometheus.CounterVec
	geoLookups     *prometheus.CounterVec
	placesRequests *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
}

// NewMetrics registers the collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reviewdesk",
			Name:      "logins_total",
			Help:      "Login attempts by outcome and reason.",
		}, []string{"outcome", "reason"}),
		geoLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reviewdesk",
			Name:      "geo_lookups_total",
			Help:      "Geolocation provider attempts by provider and outcome.",
		}, []string{"provider", "outcome"}),
		placesRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reviewdesk",
			Name:      "places_requests_total",
			Help:      "Review API requests by operation and outcome.",
		}, []string{"operation", "outcome"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reviewdesk",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.logins, m.geoLookups, m.placesRequests, m.httpRequests,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveLogin(outcome, reason string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(outcome, reason).Inc()
}

func (m *Metrics) ObserveGeoLookup(provider, outcome string) {
	if m == nil {
		return
	}
	m.geoLookups.WithLabelValues(provider, outcome).Inc()
}

func (m *Metrics) ObservePlacesRequest(operation, outcome string) {
	if m == nil {
		return
	}
	m.placesRequests.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) ObserveHTTPRequest(method, route, status string) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, status).Inc()
}
