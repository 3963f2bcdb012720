// Package observability provides Prometheus metrics for the graph server.
//
// Metrics are registered on a caller supplied registry and exposed at
// /metrics. All metric operations are safe for concurrent use.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "peraturan"

// Metrics holds the server's Prometheus collectors.
type Metrics struct {
	// RequestsTotal counts HTTP requests.
	// Labels: route, status
	RequestsTotal *prometheus.CounterVec

	// QueryDurationSeconds measures database round trips.
	// Labels: kind (lookup, graph), outcome (success, error)
	QueryDurationSeconds *prometheus.HistogramVec

	// GraphNodes observes the node count of served graphs.
	GraphNodes prometheus.Histogram

	// EmptyResultsTotal counts searches that matched nothing.
	EmptyResultsTotal prometheus.Counter

	gatherer prometheus.Gatherer
}

// NewMetrics creates the collectors on reg. Passing a fresh
// prometheus.NewRegistry() keeps tests independent of each other.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "status"}),
		QueryDurationSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "neo4j",
			Name:      "query_duration_seconds",
			Help:      "Duration of Neo4j queries.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind", "outcome"}),
		GraphNodes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "graph",
			Name:      "nodes",
			Help:      "Number of nodes in served graphs.",
			Buckets:   []float64{0, 1, 10, 25, 50, 100, 250, 500, 1000},
		}),
		EmptyResultsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "graph",
			Name:      "empty_results_total",
			Help:      "Searches that returned no nodes and no edges.",
		}),
		gatherer: reg,
	}
}

// ObserveQuery records the duration of a query started at start.
func (m *Metrics) ObserveQuery(kind string, start time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.QueryDurationSeconds.WithLabelValues(kind, outcome).Observe(time.Since(start).Seconds())
}

// Middleware counts requests by matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "static"
		}
		m.RequestsTotal.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
