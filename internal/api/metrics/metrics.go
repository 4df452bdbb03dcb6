// Package metrics defines the service's Prometheus collectors. Counters are
// package-level so handlers and middleware can record without plumbing;
// Register attaches them to a registry exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "userauth"

// RegistrationsTotal counts POST /auth/register outcomes.
// Label:
//   - result: "created", "duplicate" or "error"
var RegistrationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts POST /auth/login outcomes.
// Label:
//   - result: "success", "not_found", "invalid_credentials" or "error"
var LoginsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenChecksTotal counts authorization gate decisions.
// Label:
//   - result: "valid", "missing", "invalid" or "forbidden"
var TokenChecksTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_checks_total",
		Help:      "Total number of bearer token checks, by result.",
	},
	[]string{"result"},
)

// UserOperationsTotal counts user management calls.
// Labels:
//   - operation: "list", "get", "update" or "delete"
//   - result: "ok", "not_found", "conflict", "forbidden" or "error"
var UserOperationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "user_operations_total",
		Help:      "Total number of user management operations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// NewRegistry returns a registry holding the runtime collectors and every
// collector of this package.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		RegistrationsTotal,
		LoginsTotal,
		TokenChecksTotal,
		UserOperationsTotal,
	)
	return reg
}
