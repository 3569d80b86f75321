package scoringhandlers

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	scoringevents "github.com/cascade-defensive-pistol/match-engine/app/modules/scoring/events"
	"github.com/cascade-defensive-pistol/match-engine/internal/observability/attr"
)

// HandleScoreUpdateRequest applies a score correction. A correction that went
// through auto-resolution additionally publishes the conflict outcome; one
// the rules could not settle publishes a manual-resolution request instead of
// a failure.
func (h *ScoringHandlers) HandleScoreUpdateRequest(msg *message.Message) ([]*message.Message, error) {
	wrappedHandler := h.handlerWrapper(
		"HandleScoreUpdateRequest",
		&scoringevents.ScoreUpdateRequestedPayloadV1{},
		func(ctx context.Context, msg *message.Message, payload interface{}) ([]*message.Message, error) {
			updatePayload := payload.(*scoringevents.ScoreUpdateRequestedPayloadV1)

			h.logger.InfoContext(ctx, "Received ScoreUpdateRequest event",
				attr.CorrelationIDFromMsg(msg),
				attr.String("score_id", updatePayload.ScoreID.String()),
			)

			result, err := h.service.UpdateScore(ctx, *updatePayload)
			if err != nil {
				return nil, fmt.Errorf("failed to update score: %w", err)
			}

			if result.IsFailure() {
				if result.Failure.Manual != nil {
					manualMsg, errCreate := h.helpers.CreateResultMessage(msg, result.Failure.Manual, scoringevents.ScoreConflictManualRequiredV1)
					if errCreate != nil {
						return nil, fmt.Errorf("failed to create manual-resolution message: %w", errCreate)
					}
					return []*message.Message{manualMsg}, nil
				}
				failureMsg, errCreate := h.helpers.CreateResultMessage(msg, result.Failure.Failed, scoringevents.ScoreUpdateFailedV1)
				if errCreate != nil {
					return nil, fmt.Errorf("failed to create failure message: %w", errCreate)
				}
				return []*message.Message{failureMsg}, nil
			}

			messages := make([]*message.Message, 0, 2)
			successMsg, err := h.helpers.CreateResultMessage(msg, result.Success.Updated, scoringevents.ScoreUpdatedV1)
			if err != nil {
				return nil, fmt.Errorf("failed to create success message: %w", err)
			}
			messages = append(messages, successMsg)

			if result.Success.Conflict != nil {
				conflictMsg, err := h.helpers.CreateResultMessage(msg, result.Success.Conflict, scoringevents.ScoreConflictResolvedV1)
				if err != nil {
					return nil, fmt.Errorf("failed to create conflict message: %w", err)
				}
				messages = append(messages, conflictMsg)
			}

			return messages, nil
		},
	)

	return wrappedHandler(msg)
}
