package registrationhandlers

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	registrationevents "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/events"
	"github.com/cascade-defensive-pistol/match-engine/internal/observability/attr"
)

// HandleTransferRequest moves a shooter between squads and publishes the
// outcome plus any source-squad waitlist promotions.
func (h *RegistrationHandlers) HandleTransferRequest(msg *message.Message) ([]*message.Message, error) {
	wrappedHandler := h.handlerWrapper(
		"HandleTransferRequest",
		&registrationevents.TransferRequestedPayloadV1{},
		func(ctx context.Context, msg *message.Message, payload interface{}) ([]*message.Message, error) {
			transferPayload := payload.(*registrationevents.TransferRequestedPayloadV1)

			h.logger.InfoContext(ctx, "Received TransferRequest event",
				attr.CorrelationIDFromMsg(msg),
				attr.String("registration_id", transferPayload.RegistrationID.String()),
				attr.String("new_squad_id", transferPayload.NewSquadID.String()),
			)

			result, err := h.service.Transfer(ctx, *transferPayload)
			if err != nil {
				return nil, fmt.Errorf("failed to transfer registration: %w", err)
			}

			if result.IsFailure() {
				failureMsg, errCreate := h.helpers.CreateResultMessage(msg, result.Failure, registrationevents.TransferFailedV1)
				if errCreate != nil {
					return nil, fmt.Errorf("failed to create failure message: %w", errCreate)
				}
				return []*message.Message{failureMsg}, nil
			}

			successMsg, err := h.helpers.CreateResultMessage(msg, result.Success, registrationevents.ShooterTransferredV1)
			if err != nil {
				return nil, fmt.Errorf("failed to create success message: %w", err)
			}
			return h.appendPromotionMessages([]*message.Message{successMsg}, msg, result.Success.Promoted)
		},
	)

	return wrappedHandler(msg)
}
