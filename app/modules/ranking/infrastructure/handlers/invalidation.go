package rankinghandlers

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	rankingevents "github.com/cascade-defensive-pistol/match-engine/app/modules/ranking/events"
	registrationevents "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/events"
	scoringevents "github.com/cascade-defensive-pistol/match-engine/app/modules/scoring/events"
	"github.com/cascade-defensive-pistol/match-engine/internal/observability/attr"
)

// HandleScoreSubmitted queues a recompute when a new stage score commits.
func (h *RankingHandlers) HandleScoreSubmitted(msg *message.Message) ([]*message.Message, error) {
	wrappedHandler := h.handlerWrapper(
		"HandleScoreSubmitted",
		&scoringevents.ScoreSubmittedPayloadV1{},
		func(ctx context.Context, msg *message.Message, payload interface{}) ([]*message.Message, error) {
			submittedPayload := payload.(*scoringevents.ScoreSubmittedPayloadV1)

			if err := h.queue.EnqueueRecompute(ctx, submittedPayload.TournamentID); err != nil {
				return nil, fmt.Errorf("failed to enqueue recompute: %w", err)
			}
			return nil, nil
		},
	)

	return wrappedHandler(msg)
}

// HandleScoreUpdated queues a recompute when a score correction commits.
func (h *RankingHandlers) HandleScoreUpdated(msg *message.Message) ([]*message.Message, error) {
	wrappedHandler := h.handlerWrapper(
		"HandleScoreUpdated",
		&scoringevents.ScoreUpdatedPayloadV1{},
		func(ctx context.Context, msg *message.Message, payload interface{}) ([]*message.Message, error) {
			updatedPayload := payload.(*scoringevents.ScoreUpdatedPayloadV1)

			if err := h.queue.EnqueueRecompute(ctx, updatedPayload.TournamentID); err != nil {
				return nil, fmt.Errorf("failed to enqueue recompute: %w", err)
			}
			return nil, nil
		},
	)

	return wrappedHandler(msg)
}

// HandleShooterCheckedIn queues a recompute when check-in corrects a
// shooter's division or classification, which shifts their ranking context.
func (h *RankingHandlers) HandleShooterCheckedIn(msg *message.Message) ([]*message.Message, error) {
	wrappedHandler := h.handlerWrapper(
		"HandleShooterCheckedIn",
		&registrationevents.ShooterCheckedInPayloadV1{},
		func(ctx context.Context, msg *message.Message, payload interface{}) ([]*message.Message, error) {
			checkedInPayload := payload.(*registrationevents.ShooterCheckedInPayloadV1)

			h.logger.InfoContext(ctx, "Refreshing ranking context after check-in",
				attr.CorrelationIDFromMsg(msg),
				attr.String("shooter_id", string(checkedInPayload.ShooterID)),
			)

			if err := h.queue.EnqueueRecompute(ctx, checkedInPayload.TournamentID); err != nil {
				return nil, fmt.Errorf("failed to enqueue recompute: %w", err)
			}
			return nil, nil
		},
	)

	return wrappedHandler(msg)
}

// HandleRecomputeRequested queues an explicitly requested recompute.
func (h *RankingHandlers) HandleRecomputeRequested(msg *message.Message) ([]*message.Message, error) {
	wrappedHandler := h.handlerWrapper(
		"HandleRecomputeRequested",
		&rankingevents.RankingRecomputeRequestedPayloadV1{},
		func(ctx context.Context, msg *message.Message, payload interface{}) ([]*message.Message, error) {
			requestPayload := payload.(*rankingevents.RankingRecomputeRequestedPayloadV1)

			if err := h.queue.EnqueueRecompute(ctx, requestPayload.TournamentID); err != nil {
				return nil, fmt.Errorf("failed to enqueue recompute: %w", err)
			}
			return nil, nil
		},
	)

	return wrappedHandler(msg)
}
