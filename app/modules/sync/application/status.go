package syncservice

import (
	"context"

	syncdb "github.com/cascade-defensive-pistol/match-engine/app/modules/sync/infrastructure/repositories"
	"github.com/cascade-defensive-pistol/match-engine/app/shared/sharedtypes"
	"github.com/cascade-defensive-pistol/match-engine/internal/observability/attr"
)

// ListPending returns the user's pending items in replay order.
func (s *SyncService) ListPending(ctx context.Context, userID sharedtypes.UserID) ([]syncdb.QueueItem, error) {
	return s.repo.ListPending(ctx, nil, userID)
}

// SyncStatus returns the user's queue broken down by status.
func (s *SyncService) SyncStatus(ctx context.Context, userID sharedtypes.UserID) (syncdb.StatusCounts, error) {
	return s.repo.CountsByStatus(ctx, nil, userID)
}

// PurgeExpired deletes completed items older than the retention window.
func (s *SyncService) PurgeExpired(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.retention)
	deleted, err := s.repo.DeleteCompletedBefore(ctx, nil, cutoff)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.logger.InfoContext(ctx, "Purged expired sync items",
			attr.Int("deleted", deleted),
		)
	}
	return deleted, nil
}
