// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name.
const Namespace = "sismog"

// Outcome label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Collector owns a private registry and the console's metric vectors.
type Collector struct {
	registry *prometheus.Registry

	ConsoleOperations        *prometheus.CounterVec
	ConsoleOperationDuration *prometheus.HistogramVec
	HTTPRequestsTotal        *prometheus.CounterVec
	HTTPRequestDuration      *prometheus.HistogramVec
	ActiveWorkspaces         prometheus.Gauge
}

// NewCollector creates a Collector with its own registry, including the Go
// runtime and process collectors.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		ConsoleOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "console_operations_total",
			Help:      "Console page operations that reached the data service, by outcome",
		}, []string{"page", "operation", "status"}),
		ConsoleOperationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "console_operation_duration_seconds",
			Help:      "Duration of console page operations in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"page", "operation"}),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status_code"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		ActiveWorkspaces: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "active_workspaces",
			Help:      "Number of signed-in users holding a console workspace",
		}),
	}
	reg.MustRegister(
		c.ConsoleOperations,
		c.ConsoleOperationDuration,
		c.HTTPRequestsTotal,
		c.HTTPRequestDuration,
		c.ActiveWorkspaces,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Registry exposes the underlying registry, mainly for tests.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler returns an HTTP handler that serves the registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// RecordConsoleOperation counts one page operation and its latency.
func (c *Collector) RecordConsoleOperation(page, operation string, duration time.Duration, err error) {
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	c.ConsoleOperations.WithLabelValues(page, operation, status).Inc()
	c.ConsoleOperationDuration.WithLabelValues(page, operation).Observe(duration.Seconds())
}

// RecordHTTPRequest records an HTTP request metric. path should be the route
// template, not the raw URL, to keep label cardinality bounded.
func (c *Collector) RecordHTTPRequest(method, path string, statusCode int, duration time.Duration) {
	c.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	c.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// SetActiveWorkspaces sets the workspace gauge.
func (c *Collector) SetActiveWorkspaces(n int) {
	c.ActiveWorkspaces.Set(float64(n))
}
