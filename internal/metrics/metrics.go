package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Change feed metrics
var (
	// NotificationsReceived counts raw notifications by channel
	NotificationsReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notify_notifications_received_total",
			Help: "Raw change-feed notifications received by channel",
		},
		[]string{"channel"},
	)

	// DecodeFaults counts skipped notifications by channel and reason
	DecodeFaults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notify_decode_faults_total",
			Help: "Notifications skipped because they could not be decoded",
		},
		[]string{"channel", "reason"},
	)

	// FeedConnected is 1 while the change feed is subscribed
	FeedConnected = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "notify_feed_connected",
			Help: "Whether the change-feed subscription is established (0/1)",
		},
	)
)

// Dispatch metrics
var (
	// DispatchDelivered counts events queued to a receiver
	DispatchDelivered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notify_dispatch_delivered_total",
			Help: "Events queued to a session receiver",
		},
	)

	// DispatchMissed counts recipients without a registry entry
	DispatchMissed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notify_dispatch_missed_total",
			Help: "Recipients that had no registry entry",
		},
	)

	// EventsDropped counts events evicted from full receiver buffers
	EventsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notify_events_dropped_total",
			Help: "Buffered events evicted because a receiver fell behind",
		},
	)

	DispatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "notify_dispatch_duration_seconds",
			Help:    "Time to decode and dispatch one notification",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
		},
	)
)

// Session metrics
var (
	// ActiveSessions tracks open stream sessions by transport
	ActiveSessions = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "notify_active_sessions",
			Help: "Open stream sessions by transport",
		},
		[]string{"transport"},
	)

	// SessionLagged counts lag observations reported by sessions
	SessionLagged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notify_session_lagged_events_total",
			Help: "Events a session reported as lost to lag",
		},
	)

	// RegistryUsers tracks registry entries
	RegistryUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "notify_registry_users",
			Help: "Users with a registry entry",
		},
	)
)
