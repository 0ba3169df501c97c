// Package metrics defines and registers all custom Prometheus metrics for the
// back-office gatekeeper. It is the single source of truth for metric names,
// labels, and help strings; metrics register with the default registry at
// package init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "backoffice"

// GateDecisionsTotal counts per-request gate outcomes.
// Label:
//   - outcome: "allow", "redirect_login", "redirect_home"
var GateDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_decisions_total",
		Help:      "Total number of access decisions, by outcome.",
	},
	[]string{"outcome"},
)

// SessionValidationsTotal counts session claim validations.
// Label:
//   - result: "valid" or "invalid" (as coarse as the external contract —
//     clients never learn why a claim failed, and neither does this label)
var SessionValidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_validations_total",
		Help:      "Total number of session claim validations, by result.",
	},
	[]string{"result"},
)

// LoginAttemptsTotal counts authentication attempts at the entry point.
// Label:
//   - result: "success", "invalid", "throttled", "ip_blocked"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// LoginLockoutsTotal counts new lockouts placed by the rate limiter.
var LoginLockoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_lockouts_total",
		Help:      "Total number of rate-limit lockouts placed on login keys.",
	},
)

// IPBlockChecksTotal counts denylist lookups.
// Label:
//   - result: "clear", "blocked", or "error" (lookup failed, failed open)
var IPBlockChecksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ip_block_checks_total",
		Help:      "Total number of IP denylist checks, by result.",
	},
	[]string{"result"},
)
