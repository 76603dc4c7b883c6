// Package metrics exposes Prometheus instrumentation for the admin service.
//
// Metrics registered here:
//
//	catalogadmin_http_requests_total          counter by method/route/status
//	catalogadmin_http_request_duration_seconds histogram by method/route
//	catalogadmin_upstream_requests_total      counter by upstream/method/outcome
//	catalogadmin_bulk_items_total             counter by kind/result
//	catalogadmin_snapshot_runs_total          counter by result
package metrics

import (
	"net/http"
	"strconv"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPRequests counts handled requests
var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "catalogadmin_http_requests_total",
	Help: "Total HTTP requests handled.",
}, []string{"method", "route", "status"})

// HTTPDuration tracks handler latency
var HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "catalogadmin_http_request_duration_seconds",
	Help:    "HTTP request latency in seconds.",
	Buckets: prometheus.DefBuckets,
}, []string{"method", "route"})

// UpstreamRequests counts calls made to the catalog, game and users APIs
var UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "catalogadmin_upstream_requests_total",
	Help: "Requests sent to upstream APIs by outcome.",
}, []string{"upstream", "method", "outcome"})

// BulkItems counts items processed by bulk runs
var BulkItems = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "catalogadmin_bulk_items_total",
	Help: "Items processed by bulk association runs.",
}, []string{"kind", "result"})

// SnapshotRuns counts catalog snapshot job runs
var SnapshotRuns = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "catalogadmin_snapshot_runs_total",
	Help: "Catalog snapshot job runs by result.",
}, []string{"result"})

// Handler serves the Prometheus scrape endpoint
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request count and latency. The route label uses the
// mux path template so slugs do not explode cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)

		route := "unmatched"
		if cr := mux.CurrentRoute(r); cr != nil {
			if tpl, err := cr.GetPathTemplate(); err == nil {
				route = tpl
			}
		}

		HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(m.Code)).Inc()
		HTTPDuration.WithLabelValues(r.Method, route).Observe(m.Duration.Seconds())
	})
}
