package scoringhandlers

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	scoringevents "github.com/cascade-defensive-pistol/match-engine/app/modules/scoring/events"
	"github.com/cascade-defensive-pistol/match-engine/internal/observability/attr"
)

// HandleConflictResolutionRequest applies a match director's manual pick.
func (h *ScoringHandlers) HandleConflictResolutionRequest(msg *message.Message) ([]*message.Message, error) {
	wrappedHandler := h.handlerWrapper(
		"HandleConflictResolutionRequest",
		&scoringevents.ScoreConflictResolutionRequestedPayloadV1{},
		func(ctx context.Context, msg *message.Message, payload interface{}) ([]*message.Message, error) {
			resolutionPayload := payload.(*scoringevents.ScoreConflictResolutionRequestedPayloadV1)

			h.logger.InfoContext(ctx, "Received ConflictResolutionRequest event",
				attr.CorrelationIDFromMsg(msg),
				attr.String("score_id", resolutionPayload.ScoreID.String()),
				attr.String("resolved_by", string(resolutionPayload.ResolvedBy)),
			)

			result, err := h.service.ResolveConflict(ctx, *resolutionPayload)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve conflict: %w", err)
			}

			if result.IsFailure() {
				failureMsg, errCreate := h.helpers.CreateResultMessage(msg, result.Failure, scoringevents.ScoreConflictResolutionFailedV1)
				if errCreate != nil {
					return nil, fmt.Errorf("failed to create failure message: %w", errCreate)
				}
				return []*message.Message{failureMsg}, nil
			}

			successMsg, err := h.helpers.CreateResultMessage(msg, result.Success, scoringevents.ScoreUpdatedV1)
			if err != nil {
				return nil, fmt.Errorf("failed to create success message: %w", err)
			}
			return []*message.Message{successMsg}, nil
		},
	)

	return wrappedHandler(msg)
}
