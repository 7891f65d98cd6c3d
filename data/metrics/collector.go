package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "transport"

// Collector exposes storage, lifecycle and HTTP metrics. A nil *Collector
// records nothing, so callers never need to check for it.
type Collector struct {
	registry *prometheus.Registry

	storageOps      *prometheus.CounterVec
	storageDuration *prometheus.HistogramVec
	storageRetries  *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
	transitions     *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	health          *prometheus.GaugeVec
}

// NewCollector creates a collector on its own registry, together with the Go
// runtime and process collectors.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		storageOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_operations_total",
			Help:      "Storage operations by operation and result",
		}, []string{"operation", "result"}),
		storageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "storage_operation_duration_seconds",
			Help:      "Storage operation latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		storageRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_retries_total",
			Help:      "Storage operations retried after a timeout",
		}, []string{"operation"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Job cache lookups by result (hit, miss, error)",
		}, []string{"result"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_transitions_total",
			Help:      "Job lifecycle operations by event and outcome",
		}, []string{"event", "outcome"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		health: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "component_healthy",
			Help:      "1 when the last health check of the component succeeded",
		}, []string{"component"}),
	}

	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.storageOps,
		c.storageDuration,
		c.storageRetries,
		c.cacheLookups,
		c.transitions,
		c.httpRequests,
		c.httpDuration,
		c.health,
	)

	return c
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// StorageOperation records one storage call.
func (c *Collector) StorageOperation(operation string, duration time.Duration, err error) {
	if c == nil {
		return
	}
	c.storageOps.WithLabelValues(operation, result(err)).Inc()
	c.storageDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// StorageRetry records a retry after a timeout.
func (c *Collector) StorageRetry(operation string) {
	if c == nil {
		return
	}
	c.storageRetries.WithLabelValues(operation).Inc()
}

// CacheLookup records a cache hit, miss or error.
func (c *Collector) CacheLookup(res string) {
	if c == nil {
		return
	}
	c.cacheLookups.WithLabelValues(res).Inc()
}

// Transition records a lifecycle operation and its outcome (ok or an error kind).
func (c *Collector) Transition(event, outcome string) {
	if c == nil {
		return
	}
	c.transitions.WithLabelValues(event, outcome).Inc()
}

// HTTPRequest records a served request.
func (c *Collector) HTTPRequest(method, route string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// HealthCheck records the state of a component.
func (c *Collector) HealthCheck(component string, healthy bool) {
	if c == nil {
		return
	}
	v := 0.0
	if healthy {
		v = 1
	}
	c.health.WithLabelValues(component).Set(v)
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
