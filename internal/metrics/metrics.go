// Package metrics exposes Prometheus instrumentation for the chat backend.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the registry and the collectors the service updates.
type Metrics struct {
	registry *prometheus.Registry

	// ChatRequests counts chat requests by mode (rag|conversational) and
	// delivery (send|stream).
	ChatRequests *prometheus.CounterVec

	// RequestDuration observes end-to-end chat request latency by delivery.
	RequestDuration *prometheus.HistogramVec

	// Fallbacks counts degraded answers by composer status.
	Fallbacks *prometheus.CounterVec

	// Documents tracks the current vector store document count.
	Documents prometheus.Gauge
}

// New creates a registry with Go runtime collectors plus the chat collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		ChatRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ragchat_requests_total",
			Help: "Chat requests handled, by retrieval mode and delivery mode.",
		}, []string{"mode", "delivery"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ragchat_request_duration_seconds",
			Help:    "End-to-end chat request duration.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"delivery"}),
		Fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ragchat_fallback_answers_total",
			Help: "Answers served from the degradation ladder, by status.",
		}, []string{"status"}),
		Documents: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ragchat_documents",
			Help: "Documents currently held by the vector store.",
		}),
	}
	reg.MustRegister(m.ChatRequests, m.RequestDuration, m.Fallbacks, m.Documents)
	return m
}

// Handler returns the scrape endpoint handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
