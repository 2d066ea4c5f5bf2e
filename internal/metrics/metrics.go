// Package metrics holds the Prometheus instrumentation of the dashboard.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "dashboard"

var histogramBuckets = []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10}

// Cycle outcomes.
const (
	OutcomeOK      = "ok"
	OutcomePartial = "partial"
	OutcomeFailed  = "failed"
	OutcomeSkipped = "skipped"
)

type DashboardMetrics struct {
	loadCycles     *prometheus.CounterVec
	fetchLatency   *prometheus.HistogramVec
	renderFailures *prometheus.CounterVec
	apiCalls       prometheus.Gauge
	requestTotal   *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewDashboardMetrics registers the collectors on reg, reusing collectors
// that are already registered there.
func NewDashboardMetrics(reg prometheus.Registerer) *DashboardMetrics {
	m := &DashboardMetrics{
		loadCycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "load_cycles_total",
			Help:      "Load cycles by outcome",
		}, []string{"outcome"}),
		fetchLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Latency of log source calls",
			Buckets:   histogramBuckets,
		}, []string{"call", "result"}),
		renderFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_failures_total",
			Help:      "Chart create and destroy failures",
		}, []string{"facet", "op"}),
		apiCalls: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_total_api_calls",
			Help:      "total_api_calls of the latest stats snapshot",
		}),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Count of processed HTTP requests",
		}, []string{"method", "route", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency distribution of HTTP handlers",
			Buckets:   histogramBuckets,
		}, []string{"method", "route", "status"}),
	}

	m.loadCycles = register(reg, m.loadCycles)
	m.fetchLatency = register(reg, m.fetchLatency)
	m.renderFailures = register(reg, m.renderFailures)
	m.apiCalls = register(reg, m.apiCalls)
	m.requestTotal = register(reg, m.requestTotal)
	m.requestLatency = register(reg, m.requestLatency)
	return m
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if reg == nil {
		return c
	}
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
	}
	return c
}

func (m *DashboardMetrics) CycleFinished(outcome string) {
	m.loadCycles.WithLabelValues(outcome).Inc()
}

func (m *DashboardMetrics) ObserveFetch(call string, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.fetchLatency.WithLabelValues(call, result).Observe(d.Seconds())
}

func (m *DashboardMetrics) RenderFailed(facet, op string) {
	m.renderFailures.WithLabelValues(facet, op).Inc()
}

func (m *DashboardMetrics) SetTotalAPICalls(v int64) {
	m.apiCalls.Set(float64(v))
}

// GinMiddleware records request count and latency per route template.
func (m *DashboardMetrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		labels := prometheus.Labels{
			"method": c.Request.Method,
			"route":  route,
			"status": strconv.Itoa(c.Writer.Status()),
		}
		m.requestTotal.With(labels).Inc()
		m.requestLatency.With(labels).Observe(time.Since(start).Seconds())
	}
}
