package synchandlers

import "github.com/ThreeDotsLabs/watermill/message"

// Handlers defines the message handlers exposed by the sync module.
type Handlers interface {
	HandleEnqueueRequest(msg *message.Message) ([]*message.Message, error)
	HandleDrainRequest(msg *message.Message) ([]*message.Message, error)
}
