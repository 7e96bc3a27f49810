// Package metrics defines and registers all custom Prometheus metrics for
// the deals API. It is the single source of truth for metric names, labels,
// and help strings; metrics register with the default registry at import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "deals"

// DealsCreatedTotal counts deal submissions that were accepted.
// Label:
//   - voivodeship: the deal's region
var DealsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "created_total",
		Help:      "Total number of deals created, by voivodeship.",
	},
	[]string{"voivodeship"},
)

// ModerationActionsTotal counts moderation calls.
// Labels:
//   - action: "approve", "reject", or "set_status"
//   - outcome: "ok", "conflict", "not_found", or "error"
var ModerationActionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "moderation_actions_total",
		Help:      "Total number of moderation actions, by action and outcome.",
	},
	[]string{"action", "outcome"},
)

// AuditWriteFailuresTotal counts audit entries that failed to persist after
// a committed transition. The transition itself is not rolled back.
var AuditWriteFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_write_failures_total",
		Help:      "Total number of best-effort audit writes that failed.",
	},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)
