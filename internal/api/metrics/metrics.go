// Package metrics defines the custom Prometheus metrics of the help desk
// service. Metrics register with the default registry on package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "helpdesk"

// ── Ticket metrics ────────────────────────────────────────────────────────────

// TicketsCreatedTotal counts tickets created, by priority.
var TicketsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tickets_created_total",
		Help:      "Total number of tickets created, by priority.",
	},
	[]string{"priority"},
)

// TicketMutationsTotal counts ticket writes.
// Labels:
//   - kind: create, comment, status, assign
//   - result: ok or error
var TicketMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ticket_mutations_total",
		Help:      "Total number of ticket writes, by kind and result.",
	},
	[]string{"kind", "result"},
)

// ReloadFailuresTotal counts post-write reloads that failed and left the
// session on stale data.
var ReloadFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reload_failures_total",
		Help:      "Total number of failed ticket/user reloads.",
	},
)

// ActiveSessions tracks the number of live session controllers.
var ActiveSessions = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "Number of session controllers held in memory.",
	},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationsTotal counts notification outcomes.
// Label:
//   - result: sent, failed, duplicate, dropped
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of notifications processed, by result.",
	},
	[]string{"result"},
)

// NotificationQueueDepth tracks pending notifications per dispatcher worker.
var NotificationQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notification_queue_depth",
		Help:      "Current number of notifications pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// NotificationDuration measures one provider round trip.
var NotificationDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "notification_send_duration_seconds",
		Help:      "Duration of a single email send.",
		Buckets:   prometheus.DefBuckets,
	},
)

// RelayRequestsTotal counts /api/send-email requests by response code.
var RelayRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "relay_requests_total",
		Help:      "Total number of email relay requests, by HTTP status code.",
	},
	[]string{"code"},
)
