package syncservice

import (
	"context"
	"errors"
	"time"

	syncevents "github.com/cascade-defensive-pistol/match-engine/app/modules/sync/events"
	syncdb "github.com/cascade-defensive-pistol/match-engine/app/modules/sync/infrastructure/repositories"
	"github.com/cascade-defensive-pistol/match-engine/app/shared/sharedtypes"
	"github.com/cascade-defensive-pistol/match-engine/internal/observability/attr"
	"github.com/cascade-defensive-pistol/match-engine/internal/results"
)

// Drain replays the user's pending items oldest-first. Each item is fully
// processed before the next is fetched, so a queued correction can never
// race ahead of the submission it corrects. A transiently failing item stops
// the pass: it went back to pending at the head of the line, and skipping
// past it would reorder the replay.
func (s *SyncService) Drain(ctx context.Context, userID sharedtypes.UserID) (DrainResult, error) {
	return withTelemetry(s, ctx, "DrainSyncQueue", func(ctx context.Context) (DrainResult, error) {
		start := time.Now()
		var processed, completed, failed int

		for {
			if err := s.limiter.Wait(ctx); err != nil {
				return DrainResult{}, err
			}

			item, err := s.repo.NextPending(ctx, nil, userID)
			if errors.Is(err, syncdb.ErrItemNotFound) {
				break
			}
			if err != nil {
				return DrainResult{}, err
			}

			result, err := s.ProcessItem(ctx, item.ID)
			if err != nil {
				return DrainResult{}, err
			}
			processed++

			if result.IsSuccess() {
				completed++
				continue
			}
			if result.Failure.Terminal {
				failed++
				continue
			}

			s.logger.InfoContext(ctx, "Drain paused on retryable item",
				attr.String("user_id", string(userID)),
				attr.String("item_id", item.ID.String()),
				attr.String("last_error", result.Failure.Reason),
			)
			break
		}

		counts, err := s.repo.CountsByStatus(ctx, nil, userID)
		if err != nil {
			return DrainResult{}, err
		}

		s.metrics.RecordDrainDuration(ctx, time.Since(start))

		return results.Success[syncevents.SyncQueueDrainedPayloadV1, syncevents.SyncDrainFailedPayloadV1](
			syncevents.SyncQueueDrainedPayloadV1{
				UserID:    userID,
				Processed: processed,
				Completed: completed,
				Failed:    failed,
				Remaining: counts.Pending,
			}), nil
	})
}
