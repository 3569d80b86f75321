package syncservice

import (
	"context"

	syncevents "github.com/cascade-defensive-pistol/match-engine/app/modules/sync/events"
	syncdb "github.com/cascade-defensive-pistol/match-engine/app/modules/sync/infrastructure/repositories"
	"github.com/cascade-defensive-pistol/match-engine/app/shared/sharedtypes"
	"github.com/cascade-defensive-pistol/match-engine/internal/results"
)

// EnqueueResult is the outcome of queueing one offline action.
type EnqueueResult = results.OperationResult[syncevents.SyncItemEnqueuedPayloadV1, syncevents.SyncEnqueueFailedPayloadV1]

// ProcessItemResult is the outcome of replaying one queue item. A failure
// payload with Terminal=false means the item went back to pending.
type ProcessItemResult = results.OperationResult[syncevents.SyncItemCompletedPayloadV1, syncevents.SyncItemFailedPayloadV1]

// DrainResult is the outcome of a full queue drain for one user.
type DrainResult = results.OperationResult[syncevents.SyncQueueDrainedPayloadV1, syncevents.SyncDrainFailedPayloadV1]

// Service defines the interface for the SyncService.
type Service interface {
	// Enqueue durably stores one offline mutation. Payloads that fail shape
	// validation are rejected here and never stored.
	Enqueue(ctx context.Context, payload syncevents.SyncEnqueueRequestedPayloadV1) (EnqueueResult, error)

	// ListPending returns the user's pending items in replay order.
	ListPending(ctx context.Context, userID sharedtypes.UserID) ([]syncdb.QueueItem, error)

	// ProcessItem replays one queue item against the owning service.
	// Replaying an already completed item is a no-op success.
	ProcessItem(ctx context.Context, itemID sharedtypes.QueueItemID) (ProcessItemResult, error)

	// Drain replays the user's pending items oldest-first, one fully
	// processed before the next begins. A retryable failure stops the pass;
	// the stuck item keeps its place in line for the next one.
	Drain(ctx context.Context, userID sharedtypes.UserID) (DrainResult, error)

	// SyncStatus returns the user's queue broken down by status.
	SyncStatus(ctx context.Context, userID sharedtypes.UserID) (syncdb.StatusCounts, error)

	// PurgeExpired deletes completed items past the retention window.
	PurgeExpired(ctx context.Context) (int, error)
}
