// Package metrics records client-side API call metrics with Prometheus.
//
// The client is a short-lived process, so there is no scrape endpoint;
// WriteTextfile dumps the registry in the node_exporter textfile format.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector is what the API client records into.
type MetricsCollector interface {
	RecordRequest(operation string, status int, duration time.Duration)
	RecordTransportError(operation string)
	RecordUnauthorized()
}

// Collector is the Prometheus implementation of MetricsCollector.
type Collector struct {
	requests        *prometheus.CounterVec
	transportErrors *prometheus.CounterVec
	latency         *prometheus.HistogramVec
	unauthorized    prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "minify_client_requests_total",
			Help: "API requests by operation and HTTP status code.",
		}, []string{"operation", "status_code"}),
		transportErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "minify_client_transport_errors_total",
			Help: "API requests that failed before a response was received.",
		}, []string{"operation"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "minify_client_request_duration_seconds",
			Help:    "API request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		unauthorized: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "minify_client_unauthorized_total",
			Help: "Responses with status 401 that cleared the session.",
		}),
	}

	reg.MustRegister(c.requests, c.transportErrors, c.latency, c.unauthorized)
	return c
}

// RecordRequest records a completed request.
func (c *Collector) RecordRequest(operation string, status int, duration time.Duration) {
	c.requests.WithLabelValues(operation, strconv.Itoa(status)).Inc()
	c.latency.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordTransportError records a request that got no response.
func (c *Collector) RecordTransportError(operation string) {
	c.transportErrors.WithLabelValues(operation).Inc()
}

// RecordUnauthorized records a 401 that triggered a session reset.
func (c *Collector) RecordUnauthorized() {
	c.unauthorized.Inc()
}

// WriteTextfile writes all metrics gathered from g to path atomically.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}

// Nop discards all metrics.
type Nop struct{}

func (Nop) RecordRequest(string, int, time.Duration) {}
func (Nop) RecordTransportError(string)              {}
func (Nop) RecordUnauthorized()                      {}
