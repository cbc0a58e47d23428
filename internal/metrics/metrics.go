package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_ms",
		Help:    "Duration of HTTP requests in ms",
		Buckets: []float64{50, 100, 300, 500, 1000, 2000},
	}, []string{"method", "route", "code"})

	ActiveConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ws_active_connections",
		Help: "Active websocket connections",
	})

	StoreWrites = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_store_writes_total",
		Help: "Chat event writes per store and outcome",
	}, []string{"store", "outcome"})
)

// NewRegistry registers all collectors on a fresh registry together with the
// default process and Go runtime collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		HTTPRequestDuration,
		ActiveConnections,
		StoreWrites,
	)
	return reg
}

// Handler returns an http.Handler for Prometheus scraping.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
