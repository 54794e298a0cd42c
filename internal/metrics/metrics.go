// Package metrics defines the Prometheus metrics exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cse_motors"

// RequestsTotal counts served requests.
// Labels:
//   - method: HTTP method
//   - route: matched gin route pattern, "unmatched" for 404s
//   - status: response status code
var RequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests served.",
	},
	[]string{"method", "route", "status"},
)

// RequestDuration measures request latency per route.
var RequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"route"},
)

// GateDenialsTotal counts requests turned away by an authorization gate.
// Labels:
//   - gate: "session", "token", "role" or "owner"
//   - reason: short cause (e.g. "missing_token", "expired", "forbidden_role")
var GateDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_denials_total",
		Help:      "Total number of requests denied by an authorization gate.",
	},
	[]string{"gate", "reason"},
)

// ValidationFailuresTotal counts form submissions rejected by validation.
// Label:
//   - form: the rule set name (e.g. "registration", "inventory")
var ValidationFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "validation_failures_total",
		Help:      "Total number of form submissions that failed validation.",
	},
	[]string{"form"},
)

// AccountEventsTotal counts account lifecycle events.
// Label:
//   - event: "registered", "login", "login_failed", "updated", "password_changed"
var AccountEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "account_events_total",
		Help:      "Total number of account events, by event type.",
	},
	[]string{"event"},
)
