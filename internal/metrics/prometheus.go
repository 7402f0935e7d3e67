package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusMetrics wraps the prometheus collectors the resource pool
// allocator exposes.
type PrometheusMetrics struct {
	registry *prometheus.Registry

	poolAllocationsTotal *prometheus.CounterVec
	poolReleasesTotal    *prometheus.CounterVec
	poolFree             *prometheus.GaugeVec
	poolUsed             *prometheus.GaugeVec
}

var promMetrics *PrometheusMetrics

// InitPrometheus initializes the Prometheus metrics subsystem.
func InitPrometheus(namespace string) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector())
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	pm := &PrometheusMetrics{
		registry: registry,

		poolAllocationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "resource_pool_allocations_total",
				Help:      "Total resource pool allocations by pool and outcome",
			},
			[]string{"pool", "outcome"},
		),

		poolReleasesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "resource_pool_releases_total",
				Help:      "Total resource pool releases by pool and outcome",
			},
			[]string{"pool", "outcome"},
		),

		poolFree: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "resource_pool_free",
				Help:      "Free values remaining in a resource pool",
			},
			[]string{"pool"},
		),

		poolUsed: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "resource_pool_used",
				Help:      "Allocated values in a resource pool",
			},
			[]string{"pool"},
		),
	}

	registry.MustRegister(
		pm.poolAllocationsTotal,
		pm.poolReleasesTotal,
		pm.poolFree,
		pm.poolUsed,
	)

	promMetrics = pm
}

// PrometheusHandler returns an HTTP handler for Prometheus metrics scraping.
func PrometheusHandler() http.Handler {
	if promMetrics == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("prometheus metrics not initialized"))
		})
	}
	return promhttp.HandlerFor(promMetrics.registry, promhttp.HandlerOpts{})
}

// PrometheusRegistry returns the prometheus registry, for tests or custom collectors.
func PrometheusRegistry() *prometheus.Registry {
	if promMetrics == nil {
		return nil
	}
	return promMetrics.registry
}

// RecordPoolAllocation records a resource pool allocation attempt. outcome
// is "ok", "empty", "not_found", or "conflict".
func RecordPoolAllocation(pool, outcome string) {
	if promMetrics == nil {
		return
	}
	promMetrics.poolAllocationsTotal.WithLabelValues(pool, outcome).Inc()
}

// RecordPoolRelease records a resource pool release attempt. outcome is
// "ok" or "not_allocated".
func RecordPoolRelease(pool, outcome string) {
	if promMetrics == nil {
		return
	}
	promMetrics.poolReleasesTotal.WithLabelValues(pool, outcome).Inc()
}

// SetPoolStats sets the free/used gauges for a resource pool.
func SetPoolStats(pool string, free, used int64) {
	if promMetrics == nil {
		return
	}
	promMetrics.poolFree.WithLabelValues(pool).Set(float64(free))
	promMetrics.poolUsed.WithLabelValues(pool).Set(float64(used))
}
