package rankinghandlers

import "github.com/ThreeDotsLabs/watermill/message"

// Handlers defines the message handlers exposed by the ranking module.
type Handlers interface {
	HandleScoreSubmitted(msg *message.Message) ([]*message.Message, error)
	HandleScoreUpdated(msg *message.Message) ([]*message.Message, error)
	HandleShooterCheckedIn(msg *message.Message) ([]*message.Message, error)
	HandleRecomputeRequested(msg *message.Message) ([]*message.Message, error)
}
