package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RankingMetrics records leaderboard recompute and read metrics.
type RankingMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation string)
	RecordOperationSuccess(ctx context.Context, operation string)
	RecordOperationFailure(ctx context.Context, operation string)
	RecordOperationDuration(ctx context.Context, operation string, duration time.Duration)
	RecordRecompute(ctx context.Context, tournamentID string, shooters int)
	RecordLeaderboardQuery(ctx context.Context, tournamentID string)
}

type rankingMetrics struct {
	attempts   *prometheus.CounterVec
	successes  *prometheus.CounterVec
	failures   *prometheus.CounterVec
	durations  *prometheus.HistogramVec
	recomputes *prometheus.CounterVec
	shooters   *prometheus.HistogramVec
	queries    *prometheus.CounterVec
}

func newRankingMetrics(namespace string, registry *prometheus.Registry) *rankingMetrics {
	attempts, successes, failures, durations := newOperationVecs(namespace, "ranking", registry)
	recomputes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ranking",
		Name:      "recomputes_total",
		Help:      "Number of whole-tournament ranking recomputations.",
	}, []string{"tournament_id"})
	shooters := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "ranking",
		Name:      "recompute_shooters",
		Help:      "Number of shooters ranked per recompute.",
		Buckets:   []float64{10, 25, 50, 100, 200, 400},
	}, []string{"tournament_id"})
	queries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ranking",
		Name:      "leaderboard_queries_total",
		Help:      "Number of leaderboard reads.",
	}, []string{"tournament_id"})
	registry.MustRegister(recomputes, shooters, queries)
	return &rankingMetrics{
		attempts:   attempts,
		successes:  successes,
		failures:   failures,
		durations:  durations,
		recomputes: recomputes,
		shooters:   shooters,
		queries:    queries,
	}
}

func (m *rankingMetrics) RecordOperationAttempt(_ context.Context, operation string) {
	m.attempts.WithLabelValues(operation).Inc()
}

func (m *rankingMetrics) RecordOperationSuccess(_ context.Context, operation string) {
	m.successes.WithLabelValues(operation).Inc()
}

func (m *rankingMetrics) RecordOperationFailure(_ context.Context, operation string) {
	m.failures.WithLabelValues(operation).Inc()
}

func (m *rankingMetrics) RecordOperationDuration(_ context.Context, operation string, duration time.Duration) {
	m.durations.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *rankingMetrics) RecordRecompute(_ context.Context, tournamentID string, shooterCount int) {
	m.recomputes.WithLabelValues(tournamentID).Inc()
	m.shooters.WithLabelValues(tournamentID).Observe(float64(shooterCount))
}

func (m *rankingMetrics) RecordLeaderboardQuery(_ context.Context, tournamentID string) {
	m.queries.WithLabelValues(tournamentID).Inc()
}
