package synchandlers

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	syncevents "github.com/cascade-defensive-pistol/match-engine/app/modules/sync/events"
	"github.com/cascade-defensive-pistol/match-engine/internal/observability/attr"
)

// HandleDrainRequest replays one user's queue, typically on reconnect, and
// publishes the drain summary.
func (h *SyncHandlers) HandleDrainRequest(msg *message.Message) ([]*message.Message, error) {
	wrappedHandler := h.handlerWrapper(
		"HandleDrainRequest",
		&syncevents.SyncDrainRequestedPayloadV1{},
		func(ctx context.Context, msg *message.Message, payload interface{}) ([]*message.Message, error) {
			drainPayload := payload.(*syncevents.SyncDrainRequestedPayloadV1)

			h.logger.InfoContext(ctx, "Received DrainRequest event",
				attr.CorrelationIDFromMsg(msg),
				attr.String("user_id", string(drainPayload.UserID)),
			)

			result, err := h.service.Drain(ctx, drainPayload.UserID)
			if err != nil {
				return nil, fmt.Errorf("failed to drain sync queue: %w", err)
			}

			if result.IsFailure() {
				failureMsg, errCreate := h.helpers.CreateResultMessage(msg, result.Failure, syncevents.SyncDrainFailedV1)
				if errCreate != nil {
					return nil, fmt.Errorf("failed to create failure message: %w", errCreate)
				}
				return []*message.Message{failureMsg}, nil
			}

			successMsg, err := h.helpers.CreateResultMessage(msg, result.Success, syncevents.SyncQueueDrainedV1)
			if err != nil {
				return nil, fmt.Errorf("failed to create drained message: %w", err)
			}
			return []*message.Message{successMsg}, nil
		},
	)

	return wrappedHandler(msg)
}
