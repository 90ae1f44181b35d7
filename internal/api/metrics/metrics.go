// Package metrics defines and registers all custom Prometheus metrics for the
// order platform. It is the single source of truth for metric names, labels,
// and help strings; promauto registers everything with the default registry
// at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "order_platform"

// ── Identity metrics ──────────────────────────────────────────────────────────

// RegistrationsTotal counts successfully created accounts.
var RegistrationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of successful user registrations.",
	},
)

// LoginsTotal counts login attempts by result.
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

// ── Order metrics ─────────────────────────────────────────────────────────────

// OrdersCreatedTotal counts newly created orders.
var OrdersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Total number of orders created.",
	},
)

// StatusTransitionsTotal counts applied status transitions.
// Label:
//   - to: the status the order moved into (e.g. "IN_PROGRESS", "CANCELLED")
var StatusTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_transitions_total",
		Help:      "Total number of applied order status transitions, by target status.",
	},
	[]string{"to"},
)

// ── Gateway metrics ───────────────────────────────────────────────────────────

// UpstreamErrorsTotal counts forwarding failures at the gateway.
// Label:
//   - service: the unreachable downstream ("identity" or "orders")
var UpstreamErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gateway_upstream_errors_total",
		Help:      "Total number of gateway forwarding failures, by downstream service.",
	},
	[]string{"service"},
)
