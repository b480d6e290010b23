package telemetry

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics agrupa las métricas del gateway HTTP del cliente.
// Implementa httpclient.Observer.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestErrors   *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "petlar_client_requests_total",
				Help: "Total number of API requests issued by the client, partitioned by method and status class.",
			},
			[]string{"method", "status_class"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "petlar_client_request_duration_seconds",
				Help:    "API request duration in seconds, partitioned by method and status class.",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5},
			},
			[]string{"method", "status_class"},
		),
		requestErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "petlar_client_transport_errors_total",
				Help: "Total number of API requests that failed before a response was received.",
			},
			[]string{"method"},
		),
	}
}

// Register registra las métricas en reg (usar prometheus.NewRegistry() en tests).
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.requestsTotal, m.requestDuration, m.requestErrors} {
		if err := reg.Register(c); err != nil {
			return fmt.Errorf("telemetry: register: %w", err)
		}
	}
	return nil
}

// ObserveRequest mide un request. status == 0 significa fallo de transporte.
func (m *Metrics) ObserveRequest(method string, status int, dur time.Duration) {
	if status == 0 {
		m.requestErrors.WithLabelValues(method).Inc()
		return
	}
	class := fmt.Sprintf("%dxx", status/100)
	m.requestsTotal.WithLabelValues(method, class).Inc()
	m.requestDuration.WithLabelValues(method, class).Observe(dur.Seconds())
}

// Handler expone /metrics en formato Prometheus para el registry dado.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
