package infra

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus collectors exposed on the ops listener at /metrics.
var (
	// TransfersTotal counts transfer attempts by direction and final status.
	TransfersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fintrack",
		Name:      "transfers_total",
		Help:      "Transfer attempts by direction and final status.",
	}, []string{"direction", "status"})

	// TransferDuration observes end-to-end transfer pipeline latency.
	TransferDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "fintrack",
		Name:      "transfer_duration_seconds",
		Help:      "End-to-end transfer pipeline latency.",
		Buckets:   prometheus.DefBuckets,
	})

	// RateRefreshTotal counts rate table refresh runs by status.
	RateRefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fintrack",
		Name:      "rate_refresh_total",
		Help:      "Rate table refresh runs by status.",
	}, []string{"status"})

	// NotificationsTotal counts outbound push attempts by status.
	NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fintrack",
		Name:      "notifications_total",
		Help:      "Outbound push notification attempts by status.",
	}, []string{"status"})
)
