// Package metrics defines and registers the custom Prometheus metrics of the
// auth gateway. It is the single source of truth for metric names, labels
// and help strings. Metrics register with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gateway"

// ── Credential flows ──────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "success", "username_taken", "weak_password", "invalid_payload" or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// ── Request pipeline ──────────────────────────────────────────────────────────

// IdentityResolutionsTotal counts what the identity middleware concluded per request.
// Label:
//   - result: "anonymous", "invalid_token", "unknown_user", "store_error",
//     "rejected", "already_attached" or "resolved"
var IdentityResolutionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "identity_resolutions_total",
		Help:      "Total number of request identity resolutions, by result.",
	},
	[]string{"result"},
)

// AuthorizationDecisionsTotal counts gate decisions.
// Labels:
//   - required: the canonical role required, or "authenticated"
//   - decision: "allowed", "unauthorized" or "forbidden"
var AuthorizationDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorization_decisions_total",
		Help:      "Total number of authorization gate decisions.",
	},
	[]string{"required", "decision"},
)

// PrincipalCacheLookupsTotal counts principal cache lookups.
// Label:
//   - result: "hit" or "miss"
var PrincipalCacheLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "principal_cache_lookups_total",
		Help:      "Total number of principal cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)
