package syncdb

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/cascade-defensive-pistol/match-engine/app/shared/sharedtypes"
)

// Repository is the storage contract for the offline sync queue. Methods
// accept a bun.IDB so callers can pass a transaction; nil falls back to the
// repository's own connection.
type Repository interface {
	// Create stores a new queue item.
	Create(ctx context.Context, db bun.IDB, item *QueueItem) error

	// GetByID returns one item, or ErrItemNotFound.
	GetByID(ctx context.Context, db bun.IDB, id sharedtypes.QueueItemID) (*QueueItem, error)

	// ListPending returns the user's pending items oldest-first, ties broken
	// by id for a stable replay order.
	ListPending(ctx context.Context, db bun.IDB, userID sharedtypes.UserID) ([]QueueItem, error)

	// NextPending returns the user's oldest pending item, or ErrItemNotFound
	// when the queue is drained.
	NextPending(ctx context.Context, db bun.IDB, userID sharedtypes.UserID) (*QueueItem, error)

	// ClaimProcessing flips one item from pending to processing. The flip is
	// conditional on the current status, so two concurrent drains cannot both
	// claim the same item; it reports whether this caller won the claim.
	ClaimProcessing(ctx context.Context, db bun.IDB, id sharedtypes.QueueItemID) (bool, error)

	// MarkCompleted finishes an item, stamping CompletedAt for the retention
	// window. Note carries context such as a conflict handed off to manual
	// resolution; empty for a clean apply.
	MarkCompleted(ctx context.Context, db bun.IDB, id sharedtypes.QueueItemID, completedAt time.Time, note string) error

	// MarkFailed freezes an item at the terminal failed status.
	MarkFailed(ctx context.Context, db bun.IDB, id sharedtypes.QueueItemID, retries int, lastError string) error

	// ReturnToPending puts an item back in line after a transient failure,
	// recording the retry count and the error for the next pass.
	ReturnToPending(ctx context.Context, db bun.IDB, id sharedtypes.QueueItemID, retries int, lastError string) error

	// CountsByStatus returns the user's queue broken down by status.
	CountsByStatus(ctx context.Context, db bun.IDB, userID sharedtypes.UserID) (StatusCounts, error)

	// DeleteCompletedBefore garbage-collects completed items whose
	// CompletedAt is older than the cutoff, returning how many went.
	DeleteCompletedBefore(ctx context.Context, db bun.IDB, cutoff time.Time) (int, error)
}
