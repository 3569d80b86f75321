package syncqueue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/riverqueue/river"

	syncservice "github.com/cascade-defensive-pistol/match-engine/app/modules/sync/application"
	"github.com/cascade-defensive-pistol/match-engine/internal/observability/attr"
)

// RetentionWorker garbage-collects completed queue items.
type RetentionWorker struct {
	river.WorkerDefaults[RetentionJob]
	logger  *slog.Logger
	service syncservice.Service
}

// NewRetentionWorker creates a worker bound to the sync service.
func NewRetentionWorker(logger *slog.Logger, service syncservice.Service) *RetentionWorker {
	return &RetentionWorker{
		logger:  logger,
		service: service,
	}
}

// Work runs one retention sweep.
func (w *RetentionWorker) Work(ctx context.Context, job *river.Job[RetentionJob]) error {
	deleted, err := w.service.PurgeExpired(ctx)
	if err != nil {
		return fmt.Errorf("failed to purge expired sync items: %w", err)
	}

	w.logger.InfoContext(ctx, "Sync retention sweep completed",
		attr.Int64("job_id", job.ID),
		attr.Int("deleted", deleted),
	)
	return nil
}
