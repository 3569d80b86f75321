package synchandlers

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	syncevents "github.com/cascade-defensive-pistol/match-engine/app/modules/sync/events"
	"github.com/cascade-defensive-pistol/match-engine/internal/observability/attr"
)

// HandleEnqueueRequest durably stores one offline mutation and publishes the
// outcome.
func (h *SyncHandlers) HandleEnqueueRequest(msg *message.Message) ([]*message.Message, error) {
	wrappedHandler := h.handlerWrapper(
		"HandleEnqueueRequest",
		&syncevents.SyncEnqueueRequestedPayloadV1{},
		func(ctx context.Context, msg *message.Message, payload interface{}) ([]*message.Message, error) {
			enqueuePayload := payload.(*syncevents.SyncEnqueueRequestedPayloadV1)

			h.logger.InfoContext(ctx, "Received EnqueueRequest event",
				attr.CorrelationIDFromMsg(msg),
				attr.String("user_id", string(enqueuePayload.UserID)),
				attr.String("action", string(enqueuePayload.Action)),
			)

			result, err := h.service.Enqueue(ctx, *enqueuePayload)
			if err != nil {
				return nil, fmt.Errorf("failed to enqueue sync item: %w", err)
			}

			if result.IsFailure() {
				failureMsg, errCreate := h.helpers.CreateResultMessage(msg, result.Failure, syncevents.SyncEnqueueFailedV1)
				if errCreate != nil {
					return nil, fmt.Errorf("failed to create failure message: %w", errCreate)
				}
				return []*message.Message{failureMsg}, nil
			}

			successMsg, err := h.helpers.CreateResultMessage(msg, result.Success, syncevents.SyncItemEnqueuedV1)
			if err != nil {
				return nil, fmt.Errorf("failed to create success message: %w", err)
			}
			return []*message.Message{successMsg}, nil
		},
	)

	return wrappedHandler(msg)
}
