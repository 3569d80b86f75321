package syncdomain

import "time"

// Action is the kind of mutation a queue item replays against the server.
type Action string

const (
	ActionSubmitScore        Action = "submitScore"
	ActionUpdateScore        Action = "updateScore"
	ActionCreateRegistration Action = "createRegistration"
)

var knownActions = map[Action]bool{
	ActionSubmitScore:        true,
	ActionUpdateScore:        true,
	ActionCreateRegistration: true,
}

// IsValid reports whether a is a replayable action kind.
func (a Action) IsValid() bool { return knownActions[a] }

// Status is the lifecycle state of a queue item.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// MaxRetries is the default ceiling on automatic reprocessing attempts. An
// item that fails while already at the ceiling freezes at StatusFailed and is
// never picked up by another sync pass.
const MaxRetries = 3

// CompletedRetention is how long completed items stay visible before the
// retention job deletes them. They are kept around at all so a user can audit
// what their last sync actually did.
const CompletedRetention = 24 * time.Hour

// NextAfterFailure returns the retry count and status an item moves to after
// a transient processing failure. Below the ceiling the item goes back to
// pending for the next pass; at the ceiling it is frozen failed.
func NextAfterFailure(retries, ceiling int) (int, Status) {
	retries++
	if retries >= ceiling {
		return retries, StatusFailed
	}
	return retries, StatusPending
}

// Terminal reports whether s is a resting state no sync pass will touch again.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}
