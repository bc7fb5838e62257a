// Package metrics exposes the Prometheus registry used by art-explorer.
// All metrics are defined in their respective packages (catalog, render,
// session) and registered there via promauto.
//
// This package provides the HTTP handler and a reference for all available metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the default Prometheus registry used by art-explorer.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Gatherer is the gatherer paired with Registry.
var Gatherer = prometheus.DefaultGatherer

// Handler serves the registered metrics in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{})
}

// Metrics Documentation
//
// Catalog Metrics (pkg/catalog):
//   - artexplorer_catalog_requests_total{op, status} (Counter): Requests by operation and HTTP status
//   - artexplorer_catalog_request_duration_seconds{op} (Histogram): Request duration by operation
//   - artexplorer_catalog_errors_total{op, class} (Counter): Errors by operation and class (client, server, network, timeout, decode)
//   - artexplorer_catalog_search_results (Histogram): Identifiers kept per search
//
// Render Metrics (pkg/render):
//   - artexplorer_render_items_total{outcome} (Counter): Items by outcome (ok, failed, image_degraded)
//   - artexplorer_render_page_duration_seconds (Histogram): Full page render duration
//
// Session Metrics (pkg/session):
//   - artexplorer_session_searches_total{outcome} (Counter): Searches by outcome (ok, empty, failed, invalid)
//   - artexplorer_session_store_errors_total{operation} (Counter): Store failures by operation
//
// Example Prometheus Queries:
//
//   # Item failure rate
//   sum(rate(artexplorer_render_items_total{outcome="failed"}[5m])) /
//   sum(rate(artexplorer_render_items_total[5m]))
//
//   # Detail timeouts
//   rate(artexplorer_catalog_errors_total{op="detail", class="timeout"}[5m])
//
//   # P95 page render time
//   histogram_quantile(0.95, rate(artexplorer_render_page_duration_seconds_bucket[5m]))
