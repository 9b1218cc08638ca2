// Package metrics defines and registers all custom Prometheus metrics for
// the identity service. It is the single source of truth for metric names,
// labels, and help strings. Collectors register with the default registry
// via promauto at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "identity"

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "success", "duplicate", "invalid", "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts password login attempts.
// Label:
//   - result: "success", "invalid_credentials", "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of password login attempts, by result.",
	},
	[]string{"result"},
)

// OAuthResolutionsTotal counts external identity resolutions.
// Label:
//   - branch: "repeat" (known external id), "linked" (merged into an
//     existing account by email), "created" (new record), "failed"
var OAuthResolutionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "oauth_resolutions_total",
		Help:      "Total number of external identity resolutions, by branch taken.",
	},
	[]string{"branch"},
)

// TokenFailuresTotal counts bearer token validation failures.
// Label:
//   - reason: "expired", "malformed", "invalid"
var TokenFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_failures_total",
		Help:      "Total number of token validation failures, by reason.",
	},
	[]string{"reason"},
)

// HashDuration measures how long a single password hash computation takes,
// including any wait for a pool slot.
var HashDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "hash_duration_seconds",
		Help:      "Duration of password hash computations.",
		Buckets:   []float64{.025, .05, .1, .25, .5, 1, 2.5},
	},
)
