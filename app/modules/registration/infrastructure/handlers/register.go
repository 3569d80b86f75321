package registrationhandlers

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	registrationevents "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/events"
	"github.com/cascade-defensive-pistol/match-engine/internal/observability/attr"
)

// HandleRegistrationRequest grants a squad slot or a waitlist place and
// publishes the outcome.
func (h *RegistrationHandlers) HandleRegistrationRequest(msg *message.Message) ([]*message.Message, error) {
	wrappedHandler := h.handlerWrapper(
		"HandleRegistrationRequest",
		&registrationevents.RegistrationRequestedPayloadV1{},
		func(ctx context.Context, msg *message.Message, payload interface{}) ([]*message.Message, error) {
			registrationPayload := payload.(*registrationevents.RegistrationRequestedPayloadV1)

			h.logger.InfoContext(ctx, "Received RegistrationRequest event",
				attr.CorrelationIDFromMsg(msg),
				attr.String("shooter_id", string(registrationPayload.ShooterID)),
				attr.String("squad_id", registrationPayload.SquadID.String()),
			)

			result, err := h.service.Register(ctx, *registrationPayload)
			if err != nil {
				return nil, fmt.Errorf("failed to register shooter: %w", err)
			}

			if result.IsFailure() {
				failureMsg, errCreate := h.helpers.CreateResultMessage(msg, result.Failure, registrationevents.RegistrationFailedV1)
				if errCreate != nil {
					return nil, fmt.Errorf("failed to create failure message: %w", errCreate)
				}
				return []*message.Message{failureMsg}, nil
			}

			if result.Success.Waitlisted != nil {
				waitlistMsg, errCreate := h.helpers.CreateResultMessage(msg, result.Success.Waitlisted, registrationevents.ShooterWaitlistedV1)
				if errCreate != nil {
					return nil, fmt.Errorf("failed to create waitlist message: %w", errCreate)
				}
				return []*message.Message{waitlistMsg}, nil
			}

			successMsg, err := h.helpers.CreateResultMessage(msg, result.Success.Registered, registrationevents.ShooterRegisteredV1)
			if err != nil {
				return nil, fmt.Errorf("failed to create success message: %w", err)
			}
			return []*message.Message{successMsg}, nil
		},
	)

	return wrappedHandler(msg)
}
