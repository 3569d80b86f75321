package registrationhandlers

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	registrationevents "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/events"
	"github.com/cascade-defensive-pistol/match-engine/internal/observability/attr"
)

// HandleCancellationRequest releases a registration and publishes the outcome
// plus one event per waitlist promotion the freed slot triggered.
func (h *RegistrationHandlers) HandleCancellationRequest(msg *message.Message) ([]*message.Message, error) {
	wrappedHandler := h.handlerWrapper(
		"HandleCancellationRequest",
		&registrationevents.CancellationRequestedPayloadV1{},
		func(ctx context.Context, msg *message.Message, payload interface{}) ([]*message.Message, error) {
			cancellationPayload := payload.(*registrationevents.CancellationRequestedPayloadV1)

			h.logger.InfoContext(ctx, "Received CancellationRequest event",
				attr.CorrelationIDFromMsg(msg),
				attr.String("registration_id", cancellationPayload.RegistrationID.String()),
			)

			result, err := h.service.Cancel(ctx, *cancellationPayload)
			if err != nil {
				return nil, fmt.Errorf("failed to cancel registration: %w", err)
			}

			if result.IsFailure() {
				failureMsg, errCreate := h.helpers.CreateResultMessage(msg, result.Failure, registrationevents.CancellationFailedV1)
				if errCreate != nil {
					return nil, fmt.Errorf("failed to create failure message: %w", errCreate)
				}
				return []*message.Message{failureMsg}, nil
			}

			successMsg, err := h.helpers.CreateResultMessage(msg, result.Success, registrationevents.RegistrationCancelledV1)
			if err != nil {
				return nil, fmt.Errorf("failed to create success message: %w", err)
			}
			return h.appendPromotionMessages([]*message.Message{successMsg}, msg, result.Success.Promoted)
		},
	)

	return wrappedHandler(msg)
}
