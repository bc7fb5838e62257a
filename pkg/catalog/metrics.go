package catalog

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal tracks catalog requests by operation and status.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artexplorer_catalog_requests_total",
			Help: "Total catalog API requests by operation and status",
		},
		[]string{"op", "status"}, // "search", "detail", "image"
	)

	// RequestDuration tracks catalog request latency by operation.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "artexplorer_catalog_request_duration_seconds",
			Help:    "Catalog API request duration in seconds by operation",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"op"},
	)

	// ErrorsTotal tracks failed catalog calls by error class.
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artexplorer_catalog_errors_total",
			Help: "Total catalog API errors by operation and class",
		},
		[]string{"op", "class"},
	)

	// SearchResults observes how many identifiers each search kept.
	SearchResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "artexplorer_catalog_search_results",
			Help:    "Number of identifiers kept per successful search",
			Buckets: []float64{1, 12, 24, 48, 96, 120},
		},
	)
)
