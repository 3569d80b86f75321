package registrationhandlers

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	registrationservice "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/application"
	registrationevents "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/events"
	"github.com/cascade-defensive-pistol/match-engine/internal/observability/attr"
)

// HandleSquadCapacityChangeRequest resizes a squad and publishes the outcome
// plus any waitlist promotions the added capacity triggered.
func (h *RegistrationHandlers) HandleSquadCapacityChangeRequest(msg *message.Message) ([]*message.Message, error) {
	wrappedHandler := h.handlerWrapper(
		"HandleSquadCapacityChangeRequest",
		&registrationevents.SquadCapacityChangeRequestedPayloadV1{},
		func(ctx context.Context, msg *message.Message, payload interface{}) ([]*message.Message, error) {
			capacityPayload := payload.(*registrationevents.SquadCapacityChangeRequestedPayloadV1)

			h.logger.InfoContext(ctx, "Received SquadCapacityChangeRequest event",
				attr.CorrelationIDFromMsg(msg),
				attr.String("squad_id", capacityPayload.SquadID.String()),
				attr.Int("max_shooters", capacityPayload.MaxShooters),
			)

			result, err := h.service.SetCapacity(ctx, *capacityPayload)
			if err != nil {
				return nil, fmt.Errorf("failed to change squad capacity: %w", err)
			}

			if result.IsFailure() {
				failureMsg, errCreate := h.helpers.CreateResultMessage(msg, result.Failure, registrationevents.SquadCapacityChangeFailedV1)
				if errCreate != nil {
					return nil, fmt.Errorf("failed to create failure message: %w", errCreate)
				}
				return []*message.Message{failureMsg}, nil
			}

			successMsg, err := h.helpers.CreateResultMessage(msg, result.Success, registrationevents.SquadCapacityChangedV1)
			if err != nil {
				return nil, fmt.Errorf("failed to create success message: %w", err)
			}
			return h.appendPromotionMessages([]*message.Message{successMsg}, msg, result.Success.Promoted)
		},
	)

	return wrappedHandler(msg)
}

// HandleSquadCloseRequest manually closes a squad and publishes the status change.
func (h *RegistrationHandlers) HandleSquadCloseRequest(msg *message.Message) ([]*message.Message, error) {
	wrappedHandler := h.handlerWrapper(
		"HandleSquadCloseRequest",
		&registrationevents.SquadCloseRequestedPayloadV1{},
		func(ctx context.Context, msg *message.Message, payload interface{}) ([]*message.Message, error) {
			closePayload := payload.(*registrationevents.SquadCloseRequestedPayloadV1)

			h.logger.InfoContext(ctx, "Received SquadCloseRequest event",
				attr.CorrelationIDFromMsg(msg),
				attr.String("squad_id", closePayload.SquadID.String()),
			)

			result, err := h.service.CloseSquad(ctx, *closePayload)
			if err != nil {
				return nil, fmt.Errorf("failed to close squad: %w", err)
			}
			return h.squadStatusMessages(msg, result)
		},
	)

	return wrappedHandler(msg)
}

// HandleSquadOpenRequest reopens a squad and publishes the status change plus
// any waitlist promotions the reopened capacity triggered.
func (h *RegistrationHandlers) HandleSquadOpenRequest(msg *message.Message) ([]*message.Message, error) {
	wrappedHandler := h.handlerWrapper(
		"HandleSquadOpenRequest",
		&registrationevents.SquadOpenRequestedPayloadV1{},
		func(ctx context.Context, msg *message.Message, payload interface{}) ([]*message.Message, error) {
			openPayload := payload.(*registrationevents.SquadOpenRequestedPayloadV1)

			h.logger.InfoContext(ctx, "Received SquadOpenRequest event",
				attr.CorrelationIDFromMsg(msg),
				attr.String("squad_id", openPayload.SquadID.String()),
			)

			result, err := h.service.OpenSquad(ctx, *openPayload)
			if err != nil {
				return nil, fmt.Errorf("failed to open squad: %w", err)
			}
			return h.squadStatusMessages(msg, result)
		},
	)

	return wrappedHandler(msg)
}

func (h *RegistrationHandlers) squadStatusMessages(msg *message.Message, result registrationservice.SquadStatusResult) ([]*message.Message, error) {
	if result.IsFailure() {
		failureMsg, err := h.helpers.CreateResultMessage(msg, result.Failure, registrationevents.SquadCapacityChangeFailedV1)
		if err != nil {
			return nil, fmt.Errorf("failed to create failure message: %w", err)
		}
		return []*message.Message{failureMsg}, nil
	}

	successMsg, err := h.helpers.CreateResultMessage(msg, result.Success, registrationevents.SquadStatusChangedV1)
	if err != nil {
		return nil, fmt.Errorf("failed to create success message: %w", err)
	}
	return h.appendPromotionMessages([]*message.Message{successMsg}, msg, result.Success.Promoted)
}
