// Package metrics defines per-module prometheus metric sets. Each module gets
// an interface plus a prometheus-backed implementation; tests use the NoOp
// variants so service code never branches on whether metrics are configured.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Bundle groups the metric sets for all modules behind one registry.
type Bundle struct {
	Registry     *prometheus.Registry
	Registration RegistrationMetrics
	Scoring      ScoringMetrics
	Ranking      RankingMetrics
	Sync         SyncMetrics
}

// NewBundle builds prometheus-backed metric sets on a fresh registry.
func NewBundle(namespace string) *Bundle {
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector())
	return &Bundle{
		Registry:     registry,
		Registration: newRegistrationMetrics(namespace, registry),
		Scoring:      newScoringMetrics(namespace, registry),
		Ranking:      newRankingMetrics(namespace, registry),
		Sync:         newSyncMetrics(namespace, registry),
	}
}

// NewNoOpBundle returns metric sets that record nothing. Intended for tests.
func NewNoOpBundle() *Bundle {
	return &Bundle{
		Registration: &NoOpRegistrationMetrics{},
		Scoring:      &NoOpScoringMetrics{},
		Ranking:      &NoOpRankingMetrics{},
		Sync:         &NoOpSyncMetrics{},
	}
}

func newOperationVecs(namespace, subsystem string, registry *prometheus.Registry) (*prometheus.CounterVec, *prometheus.CounterVec, *prometheus.CounterVec, *prometheus.HistogramVec) {
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "operation_attempts_total",
		Help:      "Number of attempted operations.",
	}, []string{"operation"})
	successes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "operation_successes_total",
		Help:      "Number of operations that completed successfully.",
	}, []string{"operation"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "operation_failures_total",
		Help:      "Number of operations that failed.",
	}, []string{"operation"})
	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "operation_duration_seconds",
		Help:      "Operation duration in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})
	registry.MustRegister(attempts, successes, failures, durations)
	return attempts, successes, failures, durations
}
