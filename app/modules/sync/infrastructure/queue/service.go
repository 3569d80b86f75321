package syncqueue

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

	syncservice "github.com/cascade-defensive-pistol/match-engine/app/modules/sync/application"
	"github.com/cascade-defensive-pistol/match-engine/internal/observability/attr"
	"github.com/cascade-defensive-pistol/match-engine/internal/observability/metrics"
)

// RetentionInterval is how often the periodic retention sweep runs. The
// retention window itself lives in the sync domain; this only bounds how
// stale an expired item can get before the sweep catches it.
const RetentionInterval = time.Hour

// QueueService defines the contract for sync housekeeping jobs.
type QueueService interface {
	// HealthCheck verifies the queue service is healthy.
	HealthCheck(ctx context.Context) error
	// Start starts the queue service.
	Start(ctx context.Context) error
	// Stop stops the queue service.
	Stop(ctx context.Context) error
}

var _ QueueService = (*Service)(nil)

// Service runs the periodic retention sweep for the sync module using River.
type Service struct {
	client  *river.Client[pgx.Tx]
	logger  *slog.Logger
	db      *bun.DB
	metrics metrics.SyncMetrics
}

// NewService creates a new River-based queue service for sync housekeeping.
func NewService(
	ctx context.Context,
	bunDB *bun.DB,
	logger *slog.Logger,
	dsn string,
	syncMetrics metrics.SyncMetrics,
	service syncservice.Service,
) (*Service, error) {
	ctxLogger := logger.With(
		attr.String("operation", "new_sync_queue_service"),
		attr.String("component", "river_queue"),
	)

	start := time.Now()
	syncMetrics.RecordOperationAttempt(ctx, "initialize_queue")

	ctxLogger.Info("Initializing sync queue service")

	// River requires pgx, not database/sql.
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		syncMetrics.RecordOperationFailure(ctx, "initialize_queue")
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		syncMetrics.RecordOperationFailure(ctx, "initialize_queue")
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		syncMetrics.RecordOperationFailure(ctx, "initialize_queue")
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewRetentionWorker(ctxLogger, service))

	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 10},
			"sync":             {MaxWorkers: 1},
		},
		Workers: workers,
		PeriodicJobs: []*river.PeriodicJob{
			river.NewPeriodicJob(
				river.PeriodicInterval(RetentionInterval),
				func() (river.JobArgs, *river.InsertOpts) {
					return RetentionJob{}, &river.InsertOpts{Queue: "sync"}
				},
				&river.PeriodicJobOpts{RunOnStart: true},
			),
		},
	})
	if err != nil {
		pool.Close()
		syncMetrics.RecordOperationFailure(ctx, "initialize_queue")
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	svc := &Service{
		client:  riverClient,
		logger:  ctxLogger,
		db:      bunDB,
		metrics: syncMetrics,
	}

	syncMetrics.RecordOperationSuccess(ctx, "initialize_queue")
	syncMetrics.RecordOperationDuration(ctx, "initialize_queue", time.Since(start))

	ctxLogger.Info("Sync queue service initialized successfully")
	return svc, nil
}

// Start starts the River queue service.
func (s *Service) Start(ctx context.Context) error {
	s.logger.Info("Starting sync queue service")
	if err := s.client.Start(ctx); err != nil {
		return fmt.Errorf("failed to start River client: %w", err)
	}
	return nil
}

// Stop stops the River queue service.
func (s *Service) Stop(ctx context.Context) error {
	s.logger.Info("Stopping sync queue service")
	if err := s.client.Stop(ctx); err != nil {
		return fmt.Errorf("failed to stop River client: %w", err)
	}
	return nil
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
