package syncdb

import (
	"encoding/json"
	"time"

	"github.com/uptrace/bun"

	syncdomain "github.com/cascade-defensive-pistol/match-engine/app/modules/sync/domain"
	"github.com/cascade-defensive-pistol/match-engine/app/shared/sharedtypes"
)

// QueueItem is one durably stored offline mutation. Payload keeps the raw
// action request exactly as the client produced it; the processor unmarshals
// it against the action's request shape at replay time.
type QueueItem struct {
	bun.BaseModel `bun:"table:offline_queue_items,alias:oq"`

	ID          sharedtypes.QueueItemID `bun:"id,pk,type:uuid"`
	UserID      sharedtypes.UserID      `bun:"user_id,notnull"`
	Action      syncdomain.Action       `bun:"action,notnull"`
	Payload     json.RawMessage         `bun:"payload,type:jsonb,notnull"`
	Status      syncdomain.Status       `bun:"status,notnull,default:'pending'"`
	Retries     int                     `bun:"retries,notnull,default:0"`
	LastError   string                  `bun:"last_error"`
	CreatedAt   time.Time               `bun:"created_at,notnull"`
	UpdatedAt   time.Time               `bun:"updated_at,notnull"`
	CompletedAt *time.Time              `bun:"completed_at"`
}

// StatusCounts is one user's queue broken down by lifecycle state.
type StatusCounts struct {
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
}
