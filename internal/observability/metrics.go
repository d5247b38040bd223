// Package observability holds metrics and tracing plumbing shared across
// the application.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReviewsCreated counts reviews created, labelled by rating.
	ReviewsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookden_reviews_created_total",
		Help: "Total number of reviews created, by rating",
	}, []string{"rating"})

	// CommentsCreated counts comments created, split by top-level vs reply.
	CommentsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookden_comments_created_total",
		Help: "Total number of comments created, by kind (top_level or reply)",
	}, []string{"kind"})

	// ReviewDeletesBlocked counts review deletions refused by the
	// dependent-comment guard.
	ReviewDeletesBlocked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookden_review_deletes_blocked_total",
		Help: "Total number of review deletions blocked by existing comments",
	})

	// CacheHits counts cache-aside hits by key class (book, review, user).
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookden_cache_hits_total",
		Help: "Total cache-aside hits by key class",
	}, []string{"class"})

	// CacheMisses counts cache-aside misses by key class.
	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookden_cache_misses_total",
		Help: "Total cache-aside misses by key class",
	}, []string{"class"})

	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookden_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bookden_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// WebSocketConnections is the gauge of active event-stream connections.
	WebSocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bookden_websocket_connections",
		Help: "Number of active WebSocket event-stream connections",
	})

	// WebSocketBackpressureDrops counts messages dropped due to backpressure.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookden_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"hub", "reason"})
)

// TrackQuery returns a function that records query latency when called
// (typically via defer at the top of a repository method).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
