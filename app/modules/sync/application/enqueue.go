package syncservice

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	registrationevents "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/events"
	scoringevents "github.com/cascade-defensive-pistol/match-engine/app/modules/scoring/events"
	syncdomain "github.com/cascade-defensive-pistol/match-engine/app/modules/sync/domain"
	syncevents "github.com/cascade-defensive-pistol/match-engine/app/modules/sync/events"
	syncdb "github.com/cascade-defensive-pistol/match-engine/app/modules/sync/infrastructure/repositories"
	"github.com/cascade-defensive-pistol/match-engine/app/shared/sharedtypes"
	"github.com/cascade-defensive-pistol/match-engine/internal/results"
)

const (
	ReasonUnknownAction  = "UNKNOWN_ACTION"
	ReasonInvalidPayload = "INVALID_PAYLOAD"
	ReasonMissingUser    = "MISSING_USER"
	ReasonItemNotFound   = "ITEM_NOT_FOUND"
	ReasonItemFrozen     = "ITEM_FAILED"
	ReasonItemBusy       = "ITEM_PROCESSING"
	ReasonDrainStalled   = "DRAIN_STALLED"
)

// Enqueue durably stores one offline mutation for later replay. The payload
// is checked against the action's request shape up front: a malformed item
// would fail every replay identically, so it is rejected now instead of
// burning its retries in the queue.
func (s *SyncService) Enqueue(ctx context.Context, payload syncevents.SyncEnqueueRequestedPayloadV1) (EnqueueResult, error) {
	return withTelemetry(s, ctx, "EnqueueSyncItem", func(ctx context.Context) (EnqueueResult, error) {
		fail := func(reason string) EnqueueResult {
			return results.Failure[syncevents.SyncItemEnqueuedPayloadV1](
				syncevents.SyncEnqueueFailedPayloadV1{
					UserID: payload.UserID,
					Action: payload.Action,
					Reason: reason,
				})
		}

		if payload.UserID == "" {
			return fail(ReasonMissingUser), nil
		}
		if !payload.Action.IsValid() {
			return fail(ReasonUnknownAction), nil
		}
		if err := validateActionPayload(payload.Action, payload.Payload); err != nil {
			return fail(ReasonInvalidPayload), nil
		}

		now := s.now()
		item := &syncdb.QueueItem{
			ID:        sharedtypes.NewQueueItemID(),
			UserID:    payload.UserID,
			Action:    payload.Action,
			Payload:   payload.Payload,
			Status:    syncdomain.StatusPending,
			Retries:   0,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.repo.Create(ctx, nil, item); err != nil {
			return EnqueueResult{}, err
		}

		s.metrics.RecordItemEnqueued(ctx, string(payload.Action))

		return results.Success[syncevents.SyncItemEnqueuedPayloadV1, syncevents.SyncEnqueueFailedPayloadV1](
			syncevents.SyncItemEnqueuedPayloadV1{
				ItemID:    item.ID,
				UserID:    item.UserID,
				Action:    item.Action,
				CreatedAt: item.CreatedAt,
			}), nil
	})
}

// validateActionPayload checks the raw payload against the action's request
// shape and its key identifiers. Field-level business validation stays with
// the owning service at replay time.
func validateActionPayload(action syncdomain.Action, raw json.RawMessage) error {
	switch action {
	case syncdomain.ActionSubmitScore:
		var p scoringevents.ScoreSubmissionRequestedPayloadV1
		if err := json.Unmarshal(raw, &p); err != nil {
			return fmt.Errorf("malformed submitScore payload: %w", err)
		}
		if uuid.UUID(p.TournamentID) == uuid.Nil || uuid.UUID(p.StageID) == uuid.Nil || p.ShooterID == "" {
			return fmt.Errorf("submitScore payload missing stage, tournament, or shooter")
		}
	case syncdomain.ActionUpdateScore:
		var p scoringevents.ScoreUpdateRequestedPayloadV1
		if err := json.Unmarshal(raw, &p); err != nil {
			return fmt.Errorf("malformed updateScore payload: %w", err)
		}
		if uuid.UUID(p.ScoreID) == uuid.Nil {
			return fmt.Errorf("updateScore payload missing score id")
		}
	case syncdomain.ActionCreateRegistration:
		var p registrationevents.RegistrationRequestedPayloadV1
		if err := json.Unmarshal(raw, &p); err != nil {
			return fmt.Errorf("malformed createRegistration payload: %w", err)
		}
		if uuid.UUID(p.TournamentID) == uuid.Nil || uuid.UUID(p.SquadID) == uuid.Nil || p.ShooterID == "" {
			return fmt.Errorf("createRegistration payload missing squad, tournament, or shooter")
		}
	default:
		return fmt.Errorf("unknown action %q", action)
	}
	return nil
}
