// Package metrics defines and registers all custom Prometheus metrics for the
// watergb billing API. It is the single source of truth for metric names,
// labels, and help strings. Metrics register with the default registry at
// package load; the /metrics endpoint is wired in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "waterbilling"

// --- Billing cycle metrics ---

// BillingCyclesTotal counts billing cycle invocations.
// Labels:
//   - trigger: "scheduled" or "manual"
//   - outcome: "completed" (pass finished, possibly with per-house errors) or
//     "fetch_failed" (house enumeration failed, nothing billed)
var BillingCyclesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "billing_cycles_total",
		Help:      "Total number of billing cycle runs, by trigger and outcome.",
	},
	[]string{"trigger", "outcome"},
)

// BillingHousesProcessedTotal counts houses whose payment state was reset.
var BillingHousesProcessedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "billing_houses_processed_total",
		Help:      "Total number of houses successfully reset by billing cycles.",
	},
)

// BillingHouseErrorsTotal counts per-house reset failures. These are contained
// within a cycle and never fail the run as a whole.
var BillingHouseErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "billing_house_errors_total",
		Help:      "Total number of per-house failures during billing cycles.",
	},
)

// BillingCycleDuration measures the wall time of one full billing pass.
var BillingCycleDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "billing_cycle_duration_seconds",
		Help:      "Duration of a billing cycle from enumeration to completion.",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
	},
)

// --- Access control metrics ---

// ForbiddenRequestsTotal counts role-check rejections. Kept separate from
// ordinary 403s so audits can track privilege-escalation attempts.
var ForbiddenRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "forbidden_requests_total",
		Help:      "Total number of requests rejected by the role guard.",
	},
	[]string{"required_role"},
)
