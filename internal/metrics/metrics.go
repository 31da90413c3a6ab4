// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the service's Prometheus metrics.
type Collector struct {
	registry *prometheus.Registry

	requestsTotal  *prometheus.CounterVec
	requestLatency prometheus.Histogram
	orphanEntries  prometheus.Gauge
}

// NewCollector creates a Collector with its own registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "unimart_http_requests_total",
			Help: "HTTP requests by method, route and status code",
		}, []string{"method", "route", "status"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "unimart_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		orphanEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "unimart_cart_orphan_entries",
			Help: "Cart entries referencing a deleted listing, per the last audit run",
		}),
	}

	c.registry.MustRegister(c.requestsTotal, c.requestLatency, c.orphanEntries)
	return c
}

// RecordRequest counts one handled request.
func (c *Collector) RecordRequest(method, route string, status int, latency time.Duration) {
	c.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.requestLatency.Observe(latency.Seconds())
}

// SetOrphanEntries records the audit's latest orphan count.
func (c *Collector) SetOrphanEntries(n int) {
	c.orphanEntries.Set(float64(n))
}

// Middleware records request metrics for every handled route.
func (c *Collector) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		c.RecordRequest(ctx.Request.Method, route, ctx.Writer.Status(), time.Since(start))
	}
}

// Handler serves the /metrics endpoint for this collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
