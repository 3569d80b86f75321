package scoringhandlers

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	scoringevents "github.com/cascade-defensive-pistol/match-engine/app/modules/scoring/events"
	"github.com/cascade-defensive-pistol/match-engine/internal/observability/attr"
)

// HandleScoreSubmissionRequest stores a submitted stage score and publishes
// the accepted or failed outcome.
func (h *ScoringHandlers) HandleScoreSubmissionRequest(msg *message.Message) ([]*message.Message, error) {
	wrappedHandler := h.handlerWrapper(
		"HandleScoreSubmissionRequest",
		&scoringevents.ScoreSubmissionRequestedPayloadV1{},
		func(ctx context.Context, msg *message.Message, payload interface{}) ([]*message.Message, error) {
			submissionPayload := payload.(*scoringevents.ScoreSubmissionRequestedPayloadV1)

			h.logger.InfoContext(ctx, "Received ScoreSubmissionRequest event",
				attr.CorrelationIDFromMsg(msg),
				attr.String("stage_id", submissionPayload.StageID.String()),
				attr.String("shooter_id", string(submissionPayload.ShooterID)),
			)

			result, err := h.service.SubmitScore(ctx, *submissionPayload)
			if err != nil {
				return nil, fmt.Errorf("failed to submit score: %w", err)
			}

			if result.IsFailure() {
				failureMsg, errCreate := h.helpers.CreateResultMessage(msg, result.Failure, scoringevents.ScoreSubmissionFailedV1)
				if errCreate != nil {
					return nil, fmt.Errorf("failed to create failure message: %w", errCreate)
				}
				return []*message.Message{failureMsg}, nil
			}

			successMsg, err := h.helpers.CreateResultMessage(msg, result.Success, scoringevents.ScoreSubmittedV1)
			if err != nil {
				return nil, fmt.Errorf("failed to create success message: %w", err)
			}
			return []*message.Message{successMsg}, nil
		},
	)

	return wrappedHandler(msg)
}
