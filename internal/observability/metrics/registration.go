package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RegistrationMetrics records squad capacity and registration lifecycle metrics.
type RegistrationMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation string)
	RecordOperationSuccess(ctx context.Context, operation string)
	RecordOperationFailure(ctx context.Context, operation string)
	RecordOperationDuration(ctx context.Context, operation string, duration time.Duration)
	RecordWaitlistPromotion(ctx context.Context, squadID string)
	RecordCapacityRejection(ctx context.Context, squadID string)
}

type registrationMetrics struct {
	attempts   *prometheus.CounterVec
	successes  *prometheus.CounterVec
	failures   *prometheus.CounterVec
	durations  *prometheus.HistogramVec
	promotions *prometheus.CounterVec
	rejections *prometheus.CounterVec
}

func newRegistrationMetrics(namespace string, registry *prometheus.Registry) *registrationMetrics {
	attempts, successes, failures, durations := newOperationVecs(namespace, "registration", registry)
	promotions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "registration",
		Name:      "waitlist_promotions_total",
		Help:      "Number of waitlisted registrations promoted to a registered slot.",
	}, []string{"squad_id"})
	rejections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "registration",
		Name:      "capacity_rejections_total",
		Help:      "Number of registrations pushed to the waitlist because the squad was full.",
	}, []string{"squad_id"})
	registry.MustRegister(promotions, rejections)
	return &registrationMetrics{
		attempts:   attempts,
		successes:  successes,
		failures:   failures,
		durations:  durations,
		promotions: promotions,
		rejections: rejections,
	}
}

func (m *registrationMetrics) RecordOperationAttempt(_ context.Context, operation string) {
	m.attempts.WithLabelValues(operation).Inc()
}

func (m *registrationMetrics) RecordOperationSuccess(_ context.Context, operation string) {
	m.successes.WithLabelValues(operation).Inc()
}

func (m *registrationMetrics) RecordOperationFailure(_ context.Context, operation string) {
	m.failures.WithLabelValues(operation).Inc()
}

func (m *registrationMetrics) RecordOperationDuration(_ context.Context, operation string, duration time.Duration) {
	m.durations.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *registrationMetrics) RecordWaitlistPromotion(_ context.Context, squadID string) {
	m.promotions.WithLabelValues(squadID).Inc()
}

func (m *registrationMetrics) RecordCapacityRejection(_ context.Context, squadID string) {
	m.rejections.WithLabelValues(squadID).Inc()
}
