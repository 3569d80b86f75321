package syncevents

import (
	"encoding/json"
	"time"

	syncdomain "github.com/cascade-defensive-pistol/match-engine/app/modules/sync/domain"
	"github.com/cascade-defensive-pistol/match-engine/app/shared/sharedtypes"
)

// SyncStreamName is the JetStream stream carrying all offline sync subjects.
const SyncStreamName = "sync"

const (
	SyncEnqueueRequestedV1 = "sync.item.enqueue.requested.v1"
	SyncItemEnqueuedV1     = "sync.item.enqueued.v1"
	SyncEnqueueFailedV1    = "sync.item.enqueue.failed.v1"

	SyncDrainRequestedV1 = "sync.queue.drain.requested.v1"
	SyncQueueDrainedV1   = "sync.queue.drained.v1"
	SyncDrainFailedV1    = "sync.queue.drain.failed.v1"

	SyncItemCompletedV1 = "sync.item.completed.v1"
	SyncItemFailedV1    = "sync.item.failed.v1"
)

// SyncEnqueueRequestedPayloadV1 carries one offline mutation to be queued.
// Payload is the raw action request; it is validated against the action's
// request shape before anything is stored.
type SyncEnqueueRequestedPayloadV1 struct {
	UserID  sharedtypes.UserID `json:"user_id"`
	Action  syncdomain.Action  `json:"action"`
	Payload json.RawMessage    `json:"payload"`
}

// SyncItemEnqueuedPayloadV1 announces a durably queued offline action.
type SyncItemEnqueuedPayloadV1 struct {
	ItemID    sharedtypes.QueueItemID `json:"item_id"`
	UserID    sharedtypes.UserID      `json:"user_id"`
	Action    syncdomain.Action       `json:"action"`
	CreatedAt time.Time               `json:"created_at"`
}

// SyncEnqueueFailedPayloadV1 reports a rejected enqueue. Rejected actions are
// never stored.
type SyncEnqueueFailedPayloadV1 struct {
	UserID sharedtypes.UserID `json:"user_id"`
	Action syncdomain.Action  `json:"action"`
	Reason string             `json:"reason"`
}

// SyncItemCompletedPayloadV1 announces one successfully replayed queue item.
type SyncItemCompletedPayloadV1 struct {
	ItemID sharedtypes.QueueItemID `json:"item_id"`
	UserID sharedtypes.UserID      `json:"user_id"`
	Action syncdomain.Action       `json:"action"`
}

// SyncItemFailedPayloadV1 reports a queue item that could not be replayed.
// Terminal marks items frozen at the retry ceiling (or rejected outright);
// non-terminal items went back to pending for the next sync pass.
type SyncItemFailedPayloadV1 struct {
	ItemID   sharedtypes.QueueItemID `json:"item_id"`
	UserID   sharedtypes.UserID      `json:"user_id"`
	Action   syncdomain.Action       `json:"action"`
	Reason   string                  `json:"reason"`
	Retries  int                     `json:"retries"`
	Terminal bool                    `json:"terminal"`
}

// SyncDrainRequestedPayloadV1 asks for a full replay of one user's queue,
// typically on reconnect.
type SyncDrainRequestedPayloadV1 struct {
	UserID sharedtypes.UserID `json:"user_id"`
}

// SyncQueueDrainedPayloadV1 summarizes one drain pass.
type SyncQueueDrainedPayloadV1 struct {
	UserID    sharedtypes.UserID `json:"user_id"`
	Processed int                `json:"processed"`
	Completed int                `json:"completed"`
	Failed    int                `json:"failed"`
	Remaining int                `json:"remaining"`
}

// SyncDrainFailedPayloadV1 reports a drain pass that could not run.
type SyncDrainFailedPayloadV1 struct {
	UserID sharedtypes.UserID `json:"user_id"`
	Reason string             `json:"reason"`
}
