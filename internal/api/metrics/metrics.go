// Package metrics defines all custom Prometheus metrics for the marketplace
// API. It is the single source of truth for metric names, labels, and help
// strings; promauto registers everything with the default registry at import
// time.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marketplace"

// ── Request lifecycle metrics ─────────────────────────────────────────────────

// RequestsCreatedTotal counts newly posted service requests.
// Label:
//   - service_type: the free-text service label supplied by the client
var RequestsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_created_total",
		Help:      "Total number of service requests created, by service type.",
	},
	[]string{"service_type"},
)

// TransitionsTotal counts successful lifecycle transitions.
// Labels:
//   - from: the status the request left
//   - to: the status the request entered
var TransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "request_transitions_total",
		Help:      "Total number of successful request status transitions.",
	},
	[]string{"from", "to"},
)

// TransitionConflictsTotal counts transitions lost to a concurrent writer —
// the conditional update matched no document.
// Label:
//   - op: the attempted transition (accept, start, complete, cancel, notes)
var TransitionConflictsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "request_transition_conflicts_total",
		Help:      "Total number of request transitions rejected by the status precondition.",
	},
	[]string{"op"},
)

// ── Matching metrics ──────────────────────────────────────────────────────────

// MatchingQueriesTotal counts availability queries by technicians.
// Label:
//   - skill_scope: "filtered" when the technician has declared skills, "all"
//     when an empty skill set matched everything
var MatchingQueriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "matching_queries_total",
		Help:      "Total number of available-request queries, by skill scope.",
	},
	[]string{"skill_scope"},
)

// ── Payment metrics ───────────────────────────────────────────────────────────

// PaymentIntentsTotal counts intent-creation attempts by outcome.
// Label:
//   - result: "created", "rejected" (precondition failed) or "upstream_error"
var PaymentIntentsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payment_intents_total",
		Help:      "Total number of payment intent creation attempts, by result.",
	},
	[]string{"result"},
)

// PaymentConfirmationsTotal counts confirm reconciliations by the processor
// status they observed.
// Label:
//   - status: "succeeded", "canceled" or "pending"
var PaymentConfirmationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payment_confirmations_total",
		Help:      "Total number of payment confirmations, by processor-reported status.",
	},
	[]string{"status"},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationsQueueDepth tracks the number of events waiting in each worker
// channel of the notification dispatcher.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var NotificationsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notifications_queue_depth",
		Help:      "Current number of events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// NotificationsRecordedTotal counts notifications written to the feed.
// Label:
//   - kind: the lifecycle event kind (e.g. "request.accepted")
var NotificationsRecordedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_recorded_total",
		Help:      "Total number of notifications recorded, by kind.",
	},
	[]string{"kind"},
)
