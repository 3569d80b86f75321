package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ScoringMetrics records score write-path and conflict resolution metrics.
type ScoringMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation string)
	RecordOperationSuccess(ctx context.Context, operation string)
	RecordOperationFailure(ctx context.Context, operation string)
	RecordOperationDuration(ctx context.Context, operation string, duration time.Duration)
	RecordScoreSubmission(ctx context.Context, stageID string)
	RecordConflictDetected(ctx context.Context, rule string)
	RecordConflictManual(ctx context.Context)
}

type scoringMetrics struct {
	attempts    *prometheus.CounterVec
	successes   *prometheus.CounterVec
	failures    *prometheus.CounterVec
	durations   *prometheus.HistogramVec
	submissions *prometheus.CounterVec
	conflicts   *prometheus.CounterVec
	manual      prometheus.Counter
}

func newScoringMetrics(namespace string, registry *prometheus.Registry) *scoringMetrics {
	attempts, successes, failures, durations := newOperationVecs(namespace, "scoring", registry)
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scoring",
		Name:      "score_submissions_total",
		Help:      "Number of stage scores written.",
	}, []string{"stage_id"})
	conflicts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scoring",
		Name:      "conflicts_total",
		Help:      "Number of score conflicts detected, by resolution rule.",
	}, []string{"rule"})
	manual := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scoring",
		Name:      "conflicts_manual_total",
		Help:      "Number of conflicts escalated to manual resolution.",
	})
	registry.MustRegister(submissions, conflicts, manual)
	return &scoringMetrics{
		attempts:    attempts,
		successes:   successes,
		failures:    failures,
		durations:   durations,
		submissions: submissions,
		conflicts:   conflicts,
		manual:      manual,
	}
}

func (m *scoringMetrics) RecordOperationAttempt(_ context.Context, operation string) {
	m.attempts.WithLabelValues(operation).Inc()
}

func (m *scoringMetrics) RecordOperationSuccess(_ context.Context, operation string) {
	m.successes.WithLabelValues(operation).Inc()
}

func (m *scoringMetrics) RecordOperationFailure(_ context.Context, operation string) {
	m.failures.WithLabelValues(operation).Inc()
}

func (m *scoringMetrics) RecordOperationDuration(_ context.Context, operation string, duration time.Duration) {
	m.durations.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *scoringMetrics) RecordScoreSubmission(_ context.Context, stageID string) {
	m.submissions.WithLabelValues(stageID).Inc()
}

func (m *scoringMetrics) RecordConflictDetected(_ context.Context, rule string) {
	m.conflicts.WithLabelValues(rule).Inc()
}

func (m *scoringMetrics) RecordConflictManual(_ context.Context) {
	m.manual.Inc()
}
