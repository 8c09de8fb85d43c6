package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Upstream API
	APIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gamehub_api_requests_total",
		Help: "Total number of requests made to the games API.",
	}, []string{"source", "op", "class"}) // class: ok, not_found, upstream, network, decode, auth, other

	APIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gamehub_api_request_duration_seconds",
		Help:    "Duration of games API requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"source", "op"})

	// Feed cache
	FeedCacheEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gamehub_feed_cache_entries",
		Help: "Number of queries currently held in the feed cache.",
	})
	FeedPagesFetched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gamehub_feed_pages_fetched_total",
		Help: "Total number of pages appended to feeds.",
	}, []string{"result"}) // result: appended, failed, discarded
	FeedRequestsCoalesced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gamehub_feed_requests_coalesced_total",
		Help: "Next-page requests ignored because a request was already in flight.",
	})

	ActiveViews = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gamehub_views_active",
		Help: "Number of open grid views.",
	})

	// Reference data
	ReferenceLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gamehub_reference_lookups_total",
		Help: "Genre and platform list lookups by result.",
	}, []string{"kind", "result"}) // result: hit, refreshed, stale, error
)

// RecordAPIRequest records one upstream call that started at start.
func RecordAPIRequest(source, op, class string, start time.Time) {
	APIRequests.WithLabelValues(source, op, class).Inc()
	APIRequestDuration.WithLabelValues(source, op).Observe(time.Since(start).Seconds())
}
