package rankingqueue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/uptrace/bun"

	rankingservice "github.com/cascade-defensive-pistol/match-engine/app/modules/ranking/application"
	"github.com/cascade-defensive-pistol/match-engine/app/shared/sharedtypes"
	"github.com/cascade-defensive-pistol/match-engine/internal/eventbus"
	"github.com/cascade-defensive-pistol/match-engine/internal/observability/attr"
	"github.com/cascade-defensive-pistol/match-engine/internal/observability/metrics"
	"github.com/cascade-defensive-pistol/match-engine/internal/utils"
)

// QueueService defines the contract for ranking job scheduling.
type QueueService interface {
	// EnqueueRecompute queues a standings rebuild for the tournament. Bursts
	// of submissions coalesce into one pending job per tournament.
	EnqueueRecompute(ctx context.Context, tournamentID sharedtypes.TournamentID) error
	// GetScheduledJobs returns queued recompute jobs for a tournament.
	GetScheduledJobs(ctx context.Context, tournamentID sharedtypes.TournamentID) ([]JobInfo, error)
	// HealthCheck verifies the queue service is healthy.
	HealthCheck(ctx context.Context) error
	// Start starts the queue service.
	Start(ctx context.Context) error
	// Stop stops the queue service.
	Stop(ctx context.Context) error
}

var _ QueueService = (*Service)(nil)

// Service handles recompute job scheduling for the ranking module using River.
type Service struct {
	client  *river.Client[pgx.Tx]
	logger  *slog.Logger
	db      *bun.DB
	metrics metrics.RankingMetrics
}

// NewService creates a new River-based queue service for ranking recomputes.
func NewService(
	ctx context.Context,
	bunDB *bun.DB,
	logger *slog.Logger,
	dsn string,
	rankingMetrics metrics.RankingMetrics,
	service rankingservice.Service,
	eventBus eventbus.EventBus,
	helpers utils.Helpers,
) (*Service, error) {
	ctxLogger := logger.With(
		attr.String("operation", "new_ranking_queue_service"),
		attr.String("component", "river_queue"),
	)

	start := time.Now()
	rankingMetrics.RecordOperationAttempt(ctx, "initialize_queue")

	ctxLogger.Info("Initializing ranking queue service")

	// River requires pgx, not database/sql.
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		rankingMetrics.RecordOperationFailure(ctx, "initialize_queue")
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		rankingMetrics.RecordOperationFailure(ctx, "initialize_queue")
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		rankingMetrics.RecordOperationFailure(ctx, "initialize_queue")
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewRecomputeWorker(ctxLogger, service, eventBus, helpers))

	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 10},
			"ranking":          {MaxWorkers: 2},
		},
		Workers: workers,
	})
	if err != nil {
		pool.Close()
		rankingMetrics.RecordOperationFailure(ctx, "initialize_queue")
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	svc := &Service{
		client:  riverClient,
		logger:  ctxLogger,
		db:      bunDB,
		metrics: rankingMetrics,
	}

	rankingMetrics.RecordOperationSuccess(ctx, "initialize_queue")
	rankingMetrics.RecordOperationDuration(ctx, "initialize_queue", time.Since(start))

	ctxLogger.Info("Ranking queue service initialized successfully")
	return svc, nil
}

// Start starts the River queue service.
func (s *Service) Start(ctx context.Context) error {
	s.logger.Info("Starting ranking queue service")
	if err := s.client.Start(ctx); err != nil {
		return fmt.Errorf("failed to start River client: %w", err)
	}
	return nil
}

// Stop stops the River queue service.
func (s *Service) Stop(ctx context.Context) error {
	s.logger.Info("Stopping ranking queue service")
	if err := s.client.Stop(ctx); err != nil {
		return fmt.Errorf("failed to stop River client: %w", err)
	}
	return nil
}

// EnqueueRecompute queues a standings rebuild. UniqueOpts over args keeps one
// pending recompute per tournament however many score writes arrive.
func (s *Service) EnqueueRecompute(ctx context.Context, tournamentID sharedtypes.TournamentID) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "enqueue_recompute")

	ctxLogger := s.logger.With(
		attr.String("tournament_id", tournamentID.String()),
		attr.String("operation", "enqueue_recompute"),
	)

	jobResult, err := s.client.Insert(ctx, RecomputeJob{
		TournamentID: tournamentID,
	}, &river.InsertOpts{
		Queue: "ranking",
		UniqueOpts: river.UniqueOpts{
			ByArgs: true,
		},
	})
	if err != nil {
		ctxLogger.Error("Failed to enqueue recompute job", attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, "enqueue_recompute")
		return fmt.Errorf("failed to enqueue recompute job: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "enqueue_recompute")
	s.metrics.RecordOperationDuration(ctx, "enqueue_recompute", time.Since(start))

	ctxLogger.Info("Recompute job enqueued",
		attr.Int64("job_id", jobResult.Job.ID),
		attr.Any("unique_skipped", jobResult.UniqueSkippedAsDuplicate),
	)
	return nil
}

// GetScheduledJobs returns queued recompute jobs for a tournament.
func (s *Service) GetScheduledJobs(ctx context.Context, tournamentID sharedtypes.TournamentID) ([]JobInfo, error) {
	type riverJobRow struct {
		ID          int64      `bun:"id"`
		Kind        string     `bun:"kind"`
		State       string     `bun:"state"`
		ScheduledAt *time.Time `bun:"scheduled_at"`
		CreatedAt   time.Time  `bun:"created_at"`
		Attempt     int16      `bun:"attempt"`
		MaxAttempts int16      `bun:"max_attempts"`
	}

	var jobs []riverJobRow
	err := s.db.NewSelect().
		Table("river_job").
		Column("id", "kind", "state", "scheduled_at", "created_at", "attempt", "max_attempts").
		Where("kind = ?", RecomputeJob{}.Kind()).
		Where("args->>'tournament_id' = ?", tournamentID.String()).
		Order("created_at ASC").
		Scan(ctx, &jobs)
	if err != nil {
		return nil, fmt.Errorf("failed to query scheduled jobs: %w", err)
	}

	result := make([]JobInfo, len(jobs))
	for i, job := range jobs {
		scheduledAt := ""
		if job.ScheduledAt != nil {
			scheduledAt = job.ScheduledAt.Format(time.RFC3339)
		}
		result[i] = JobInfo{
			ID:           job.ID,
			Kind:         job.Kind,
			TournamentID: tournamentID.String(),
			State:        job.State,
			ScheduledAt:  scheduledAt,
			CreatedAt:    job.CreatedAt.Format(time.RFC3339),
			Attempt:      int(job.Attempt),
			MaxAttempts:  int(job.MaxAttempts),
		}
	}
	return result, nil
}

// HealthCheck verifies the queue service is healthy.
func (s *Service) HealthCheck(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("river client is nil")
	}
	var count int
	err := s.db.NewSelect().
		Table("river_job").
		ColumnExpr("COUNT(*)").
		Scan(ctx, &count)
	if err != nil {
		return fmt.Errorf("queue service health check failed: %w", err)
	}
	return nil
}

// GetClient returns the underlying River client for advanced operations.
func (s *Service) GetClient() *river.Client[pgx.Tx] {
	return s.client
}
