// Package metrics defines and registers all custom Prometheus metrics for the
// user admin console. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// init via promauto; the /metrics route serves that registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "user_admin"

// ── Table metrics ─────────────────────────────────────────────────────────────

// MutationsTotal counts mutation attempts that reached a decision.
// Labels:
//   - operation: "create", "update" or "delete"
//   - result: "applied", "failed" or "declined"
var MutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mutations_total",
		Help:      "Total number of table mutations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// LoadsTotal counts record list fetches.
// Label:
//   - result: "ok" or "error"
var LoadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "loads_total",
		Help:      "Total number of record list loads, by result.",
	},
	[]string{"result"},
)

// RecordsLoaded tracks the number of records currently held by the table.
var RecordsLoaded = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "records_loaded",
		Help:      "Number of user records currently held in the table.",
	},
)

// ── Gateway metrics ───────────────────────────────────────────────────────────

// GatewayRequestDuration measures remote user API calls.
// Labels:
//   - operation: "find_all", "create", "update" or "delete"
//   - outcome: "ok" or "error"
var GatewayRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "gateway_request_duration_seconds",
		Help:      "Duration of remote user API calls.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation", "outcome"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditQueueDepth tracks the current number of entries waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit entries pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AuditDroppedTotal counts audit entries dropped because a worker channel was full.
var AuditDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_dropped_total",
		Help:      "Total number of audit entries dropped on a full queue.",
	},
)

// AuditErrorsTotal counts audit entries that failed to persist.
var AuditErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_errors_total",
		Help:      "Total number of audit entries that failed to persist.",
	},
)
