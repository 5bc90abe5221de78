package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "paperless_audit_redis_error_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "paperless_audit_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// ApprovalActions counts recorded approver actions by outcome.
	ApprovalActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "paperless_audit_approval_actions_total",
		Help: "Total approver actions recorded, labeled by action outcome",
	}, []string{"action"})

	// RequestsCreated counts submitted expense requests.
	RequestsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "paperless_audit_requests_created_total",
		Help: "Total expense requests created",
	})

	// ChainResolutionFailures counts chain resolutions that produced no approvers.
	ChainResolutionFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "paperless_audit_chain_resolution_failures_total",
		Help: "Total approval chain resolutions that yielded an empty chain",
	})

	// NotificationsPublished counts notification intents handed to the notifier.
	NotificationsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "paperless_audit_notifications_published_total",
		Help: "Total notification intents published, labeled by kind",
	}, []string{"kind"})

	// WebSocketConnections is the gauge of active notification stream connections.
	WebSocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "paperless_audit_websocket_connections",
		Help: "Number of active WebSocket notification connections",
	})

	// WebSocketBackpressureDrops counts messages dropped because a client's
	// send buffer was full or closed.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "paperless_audit_websocket_backpressure_drops_total",
		Help: "Total WebSocket messages dropped due to backpressure, labeled by hub and reason",
	}, []string{"hub", "reason"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
