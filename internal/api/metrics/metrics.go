// Package metrics defines the service's custom Prometheus metrics. HTTP
// request metrics come from echoprometheus; these cover domain results.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "reservations"

// ── Reservation metrics ───────────────────────────────────────────────────────

// ReservationTogglesTotal counts completed toggles.
// Labels:
//   - action: "reserve" or "cancel"
//   - outcome: OK, ALREADY_RESERVED or NOT_RESERVED_CANNOT_CANCEL
var ReservationTogglesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "toggles_total",
		Help:      "Total number of completed reservation toggles, by action and outcome.",
	},
	[]string{"action", "outcome"},
)

// AuditDroppedTotal counts audit records discarded because the queue was full.
var AuditDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_dropped_total",
		Help:      "Total number of reservation audit records dropped on a full queue.",
	},
)

// ── Catalog metrics ───────────────────────────────────────────────────────────

// CatalogQueryDuration measures catalog reads end to end.
// Label:
//   - scope: "public" or "host"
var CatalogQueryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "catalog_query_duration_seconds",
		Help:      "Duration of catalog listing requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"scope"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid", "throttled" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Error metrics ─────────────────────────────────────────────────────────────

// ErrorsTotal counts error responses.
// Label:
//   - code: the error taxonomy name, or "INTERNAL"
var ErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "errors_total",
		Help:      "Total number of error responses, by error code.",
	},
	[]string{"code"},
)
