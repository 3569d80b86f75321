package registrationhandlers

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	registrationevents "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/events"
	"github.com/cascade-defensive-pistol/match-engine/internal/observability/attr"
)

// HandleCheckInRequest marks a shooter present and publishes the outcome.
func (h *RegistrationHandlers) HandleCheckInRequest(msg *message.Message) ([]*message.Message, error) {
	wrappedHandler := h.handlerWrapper(
		"HandleCheckInRequest",
		&registrationevents.CheckInRequestedPayloadV1{},
		func(ctx context.Context, msg *message.Message, payload interface{}) ([]*message.Message, error) {
			checkInPayload := payload.(*registrationevents.CheckInRequestedPayloadV1)

			h.logger.InfoContext(ctx, "Received CheckInRequest event",
				attr.CorrelationIDFromMsg(msg),
				attr.String("registration_id", checkInPayload.RegistrationID.String()),
			)

			result, err := h.service.CheckIn(ctx, *checkInPayload)
			if err != nil {
				return nil, fmt.Errorf("failed to check in shooter: %w", err)
			}

			if result.IsFailure() {
				failureMsg, errCreate := h.helpers.CreateResultMessage(msg, result.Failure, registrationevents.CheckInFailedV1)
				if errCreate != nil {
					return nil, fmt.Errorf("failed to create failure message: %w", errCreate)
				}
				return []*message.Message{failureMsg}, nil
			}

			successMsg, err := h.helpers.CreateResultMessage(msg, result.Success, registrationevents.ShooterCheckedInV1)
			if err != nil {
				return nil, fmt.Errorf("failed to create success message: %w", err)
			}
			return []*message.Message{successMsg}, nil
		},
	)

	return wrappedHandler(msg)
}
