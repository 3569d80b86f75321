package scoringhandlers

import "github.com/ThreeDotsLabs/watermill/message"

// Handlers defines the message handlers exposed by the scoring module.
type Handlers interface {
	HandleScoreSubmissionRequest(msg *message.Message) ([]*message.Message, error)
	HandleScoreUpdateRequest(msg *message.Message) ([]*message.Message, error)
	HandleConflictResolutionRequest(msg *message.Message) ([]*message.Message, error)
}
