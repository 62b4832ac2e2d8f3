package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Доменные метрики ядра ленты. HTTP-метрики живут в api/middleware.
var (
	timelineRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "timeline_requests_total",
			Help: "Total number of timeline page builds by filter and source",
		},
		[]string{"filter", "source"}, // source: cache | db
	)

	cacheInvalidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "timeline_cache_invalidations_total",
			Help: "Total number of timeline cache invalidations",
		},
		[]string{"status"}, // ok | error
	)

	fanoutEntriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_fanout_entries_total",
			Help: "Total number of precomputed feed entries written by fan-out",
		},
	)

	fanoutSkippedCelebrity = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_fanout_skipped_celebrity_total",
			Help: "Posts excluded from fan-out because the author is a celebrity",
		},
	)
)
