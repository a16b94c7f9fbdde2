// Package metrics exposes Prometheus collectors for the HTTP surface and
// the player store.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal counts requests by method, route template and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "playerdb_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration tracks request latency
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "playerdb_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// StoreStatementDuration tracks statement latency by kind
	StoreStatementDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "playerdb_store_statement_duration_seconds",
			Help:    "Duration of store statements in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"kind"},
	)

	// StoreErrorsTotal counts failed statements by kind and driver code
	StoreErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "playerdb_store_errors_total",
			Help: "Total number of failed store statements",
		},
		[]string{"kind", "code"},
	)

	// HTTPPanicsTotal counts handler panics turned into 500 responses
	HTTPPanicsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "playerdb_http_panics_total",
			Help: "Total number of recovered handler panics",
		},
	)
)

// RecordHTTPRequest records one served request
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordStoreStatement records one executed statement
func RecordStoreStatement(kind string, duration time.Duration) {
	StoreStatementDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordStoreError records one failed statement
func RecordStoreError(kind, code string) {
	StoreErrorsTotal.WithLabelValues(kind, code).Inc()
}

// RecordPanic records one recovered handler panic
func RecordPanic() {
	HTTPPanicsTotal.Inc()
}

// Handler serves the default registry in the Prometheus text format
func Handler() http.Handler {
	return promhttp.Handler()
}
