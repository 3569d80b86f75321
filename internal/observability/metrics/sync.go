package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SyncMetrics records offline queue lifecycle metrics.
type SyncMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation string)
	RecordOperationSuccess(ctx context.Context, operation string)
	RecordOperationFailure(ctx context.Context, operation string)
	RecordOperationDuration(ctx context.Context, operation string, duration time.Duration)
	RecordItemEnqueued(ctx context.Context, action string)
	RecordItemCompleted(ctx context.Context, action string)
	RecordItemRetry(ctx context.Context, action string)
	RecordItemFailed(ctx context.Context, action string)
	RecordDrainDuration(ctx context.Context, duration time.Duration)
}

type syncMetrics struct {
	attempts  *prometheus.CounterVec
	successes *prometheus.CounterVec
	failures  *prometheus.CounterVec
	durations *prometheus.HistogramVec
	enqueued  *prometheus.CounterVec
	completed *prometheus.CounterVec
	retries   *prometheus.CounterVec
	failed    *prometheus.CounterVec
	drains    prometheus.Histogram
}

func newSyncMetrics(namespace string, registry *prometheus.Registry) *syncMetrics {
	attempts, successes, failures, durations := newOperationVecs(namespace, "sync", registry)
	itemCounter := func(name, help string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      name,
			Help:      help,
		}, []string{"action"})
	}
	enqueued := itemCounter("items_enqueued_total", "Number of offline actions enqueued.")
	completed := itemCounter("items_completed_total", "Number of queue items processed to completion.")
	retries := itemCounter("items_retried_total", "Number of queue item processing retries.")
	failed := itemCounter("items_failed_total", "Number of queue items frozen at the terminal failed status.")
	drains := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "sync",
		Name:      "drain_duration_seconds",
		Help:      "Duration of a full queue drain for one user.",
		Buckets:   prometheus.DefBuckets,
	})
	registry.MustRegister(enqueued, completed, retries, failed, drains)
	return &syncMetrics{
		attempts:  attempts,
		successes: successes,
		failures:  failures,
		durations: durations,
		enqueued:  enqueued,
		completed: completed,
		retries:   retries,
		failed:    failed,
		drains:    drains,
	}
}

func (m *syncMetrics) RecordOperationAttempt(_ context.Context, operation string) {
	m.attempts.WithLabelValues(operation).Inc()
}

func (m *syncMetrics) RecordOperationSuccess(_ context.Context, operation string) {
	m.successes.WithLabelValues(operation).Inc()
}

func (m *syncMetrics) RecordOperationFailure(_ context.Context, operation string) {
	m.failures.WithLabelValues(operation).Inc()
}

func (m *syncMetrics) RecordOperationDuration(_ context.Context, operation string, duration time.Duration) {
	m.durations.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *syncMetrics) RecordItemEnqueued(_ context.Context, action string) {
	m.enqueued.WithLabelValues(action).Inc()
}

func (m *syncMetrics) RecordItemCompleted(_ context.Context, action string) {
	m.completed.WithLabelValues(action).Inc()
}

func (m *syncMetrics) RecordItemRetry(_ context.Context, action string) {
	m.retries.WithLabelValues(action).Inc()
}

func (m *syncMetrics) RecordItemFailed(_ context.Context, action string) {
	m.failed.WithLabelValues(action).Inc()
}

func (m *syncMetrics) RecordDrainDuration(_ context.Context, duration time.Duration) {
	m.drains.Observe(duration.Seconds())
}
