// Package metrics defines the custom Prometheus metrics for the portal. It is
// the single source of truth for metric names, labels, and help strings.
//
// Metrics are registered on the Registerer passed to New, so tests and the
// server each own an independent registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// Metrics groups every collector the portal records into.
type Metrics struct {
	// AuthAttemptsTotal counts register/login/logout attempts.
	// Labels:
	//   - operation: "register", "login", "logout"
	//   - result: "success" or a short failure reason ("email_taken", "invalid_credentials", ...)
	AuthAttemptsTotal *prometheus.CounterVec

	// SessionsTotal counts session lifecycle transitions.
	// Label:
	//   - event: "created", "destroyed", "rejected"
	SessionsTotal *prometheus.CounterVec

	// PasswordHashDuration measures bcrypt work including time spent queued.
	// Label:
	//   - op: "hash" or "verify"
	PasswordHashDuration *prometheus.HistogramVec

	// HashQueueDepth tracks jobs waiting for a hashing worker.
	HashQueueDepth prometheus.Gauge

	// AnalysesTotal counts analyze requests.
	// Label:
	//   - status: the analyzer status, or "error"
	AnalysesTotal *prometheus.CounterVec
}

// New creates all collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		AuthAttemptsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "auth_attempts_total",
				Help:      "Total number of authentication operations, by operation and result.",
			},
			[]string{"operation", "result"},
		),
		SessionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sessions_total",
				Help:      "Total number of session lifecycle events.",
			},
			[]string{"event"},
		),
		PasswordHashDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "password_hash_duration_seconds",
				Help:      "Duration of bcrypt hash and verify operations, including queue wait.",
				Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"op"},
		),
		HashQueueDepth: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "hash_queue_depth",
				Help:      "Current number of hashing jobs waiting for a worker.",
			},
		),
		AnalysesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "analyses_total",
				Help:      "Total number of analyze requests, by result status.",
			},
			[]string{"status"},
		),
	}
}

// NewNop returns Metrics registered on a throwaway registry.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
