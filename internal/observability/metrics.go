// Package observability provides metrics and tracing.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "abusebin_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// ActiveWebSockets is the gauge of active relay connections.
	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "abusebin_websocket_connections",
		Help: "Number of active WebSocket relay connections",
	})

	// WebSocketBackpressureDrops counts frames dropped because a client's
	// send buffer was full or already closed.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "abusebin_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket frames dropped, by reason",
	}, []string{"reason"})

	// PasteCooldownRejections counts paste creations rejected by the cooldown.
	PasteCooldownRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "abusebin_paste_cooldown_rejections_total",
		Help: "Total number of paste creations rejected by the cooldown",
	})
)
