package render

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ItemsTotal tracks rendered items by outcome.
	ItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artexplorer_render_items_total",
			Help: "Total rendered grid items by outcome",
		},
		[]string{"outcome"}, // "ok", "failed", "image_degraded"
	)

	// PageDuration tracks how long a full page render takes.
	PageDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "artexplorer_render_page_duration_seconds",
			Help:    "Duration of a full page render in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
		},
	)
)
