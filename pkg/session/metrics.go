package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SearchesTotal tracks session searches by outcome.
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artexplorer_session_searches_total",
			Help: "Total session searches by outcome",
		},
		[]string{"outcome"}, // "ok", "empty", "failed", "invalid"
	)

	// StoreErrors tracks session store failures by operation.
	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artexplorer_session_store_errors_total",
			Help: "Total session store errors by operation",
		},
		[]string{"operation"},
	)
)
