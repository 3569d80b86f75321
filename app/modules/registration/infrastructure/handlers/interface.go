package registrationhandlers

import "github.com/ThreeDotsLabs/watermill/message"

// Handlers defines the message handlers exposed by the registration module.
type Handlers interface {
	HandleRegistrationRequest(msg *message.Message) ([]*message.Message, error)
	HandleCancellationRequest(msg *message.Message) ([]*message.Message, error)
	HandleTransferRequest(msg *message.Message) ([]*message.Message, error)
	HandleCheckInRequest(msg *message.Message) ([]*message.Message, error)
	HandleSquadCapacityChangeRequest(msg *message.Message) ([]*message.Message, error)
	HandleSquadCloseRequest(msg *message.Message) ([]*message.Message, error)
	HandleSquadOpenRequest(msg *message.Message) ([]*message.Message, error)
}
