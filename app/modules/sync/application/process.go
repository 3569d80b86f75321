package syncservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	registrationevents "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/events"
	scoringevents "github.com/cascade-defensive-pistol/match-engine/app/modules/scoring/events"
	syncdomain "github.com/cascade-defensive-pistol/match-engine/app/modules/sync/domain"
	syncevents "github.com/cascade-defensive-pistol/match-engine/app/modules/sync/events"
	syncdb "github.com/cascade-defensive-pistol/match-engine/app/modules/sync/infrastructure/repositories"
	"github.com/cascade-defensive-pistol/match-engine/app/shared/sharedtypes"
	"github.com/cascade-defensive-pistol/match-engine/internal/observability/attr"
	"github.com/cascade-defensive-pistol/match-engine/internal/results"
)

// replayOutcome classifies one replay attempt. Exactly one of the three
// branches is taken: applied (item done), reason (business rejection, frozen
// without retry), or err (transient, drives the retry counter).
type replayOutcome struct {
	applied bool
	note    string
	reason  string
	err     error
}

// ProcessItem replays one queue item against the service that owns its
// action. Completed items are a no-op success, so a retried network call
// that already went through cannot apply its mutation twice.
func (s *SyncService) ProcessItem(ctx context.Context, itemID sharedtypes.QueueItemID) (ProcessItemResult, error) {
	return withTelemetry(s, ctx, "ProcessSyncItem", func(ctx context.Context) (ProcessItemResult, error) {
		item, err := s.repo.GetByID(ctx, nil, itemID)
		if errors.Is(err, syncdb.ErrItemNotFound) {
			return results.Failure[syncevents.SyncItemCompletedPayloadV1](
				syncevents.SyncItemFailedPayloadV1{
					ItemID:   itemID,
					Reason:   ReasonItemNotFound,
					Terminal: true,
				}), nil
		}
		if err != nil {
			return ProcessItemResult{}, err
		}

		fail := func(reason string, retries int, terminal bool) ProcessItemResult {
			return results.Failure[syncevents.SyncItemCompletedPayloadV1](
				syncevents.SyncItemFailedPayloadV1{
					ItemID:   item.ID,
					UserID:   item.UserID,
					Action:   item.Action,
					Reason:   reason,
					Retries:  retries,
					Terminal: terminal,
				})
		}
		complete := func() ProcessItemResult {
			return results.Success[syncevents.SyncItemCompletedPayloadV1, syncevents.SyncItemFailedPayloadV1](
				syncevents.SyncItemCompletedPayloadV1{
					ItemID: item.ID,
					UserID: item.UserID,
					Action: item.Action,
				})
		}

		switch item.Status {
		case syncdomain.StatusCompleted:
			return complete(), nil
		case syncdomain.StatusFailed:
			return fail(ReasonItemFrozen, item.Retries, true), nil
		}

		claimed, err := s.repo.ClaimProcessing(ctx, nil, item.ID)
		if err != nil {
			return ProcessItemResult{}, err
		}
		if !claimed {
			return fail(ReasonItemBusy, item.Retries, false), nil
		}

		outcome := s.replay(ctx, item)

		switch {
		case outcome.err != nil:
			retries, status := syncdomain.NextAfterFailure(item.Retries, s.maxRetries)
			if status == syncdomain.StatusFailed {
				if markErr := s.repo.MarkFailed(ctx, nil, item.ID, retries, outcome.err.Error()); markErr != nil {
					return ProcessItemResult{}, markErr
				}
				s.metrics.RecordItemFailed(ctx, string(item.Action))
				s.logger.WarnContext(ctx, "Queue item frozen at retry ceiling",
					attr.String("item_id", item.ID.String()),
					attr.String("action", string(item.Action)),
					attr.Error(outcome.err),
				)
				return fail(outcome.err.Error(), retries, true), nil
			}
			if markErr := s.repo.ReturnToPending(ctx, nil, item.ID, retries, outcome.err.Error()); markErr != nil {
				return ProcessItemResult{}, markErr
			}
			s.metrics.RecordItemRetry(ctx, string(item.Action))
			return fail(outcome.err.Error(), retries, false), nil

		case outcome.reason != "":
			// Business rejection: a retry would be rejected the same way, so
			// the item freezes immediately with its retry budget unspent.
			if markErr := s.repo.MarkFailed(ctx, nil, item.ID, item.Retries, outcome.reason); markErr != nil {
				return ProcessItemResult{}, markErr
			}
			s.metrics.RecordItemFailed(ctx, string(item.Action))
			return fail(outcome.reason, item.Retries, true), nil

		default:
			if markErr := s.repo.MarkCompleted(ctx, nil, item.ID, s.now(), outcome.note); markErr != nil {
				return ProcessItemResult{}, markErr
			}
			s.metrics.RecordItemCompleted(ctx, string(item.Action))
			return complete(), nil
		}
	})
}

// replay dispatches the item's payload to the owning service. Conflicts are
// not failures of the replay: the item's intent reached the server, and the
// conflict lives on in the resolver path, so the item completes with a note.
func (s *SyncService) replay(ctx context.Context, item *syncdb.QueueItem) replayOutcome {
	switch item.Action {
	case syncdomain.ActionSubmitScore:
		var p scoringevents.ScoreSubmissionRequestedPayloadV1
		if err := json.Unmarshal(item.Payload, &p); err != nil {
			return replayOutcome{reason: ReasonInvalidPayload}
		}
		result, err := s.scoring.SubmitScore(ctx, p)
		if err != nil {
			return replayOutcome{err: err}
		}
		if result.IsFailure() {
			if result.Failure.Reason == "CONFLICT_MANUAL_REQUIRED" {
				return replayOutcome{applied: true, note: "conflict escalated for manual resolution"}
			}
			return replayOutcome{reason: result.Failure.Reason}
		}
		return replayOutcome{applied: true}

	case syncdomain.ActionUpdateScore:
		var p scoringevents.ScoreUpdateRequestedPayloadV1
		if err := json.Unmarshal(item.Payload, &p); err != nil {
			return replayOutcome{reason: ReasonInvalidPayload}
		}
		result, err := s.scoring.UpdateScore(ctx, p)
		if err != nil {
			return replayOutcome{err: err}
		}
		if result.IsFailure() {
			if result.Failure.Manual != nil {
				return replayOutcome{applied: true, note: "conflict escalated for manual resolution"}
			}
			return replayOutcome{reason: result.Failure.Failed.Reason}
		}
		return replayOutcome{applied: true}

	case syncdomain.ActionCreateRegistration:
		var p registrationevents.RegistrationRequestedPayloadV1
		if err := json.Unmarshal(item.Payload, &p); err != nil {
			return replayOutcome{reason: ReasonInvalidPayload}
		}
		result, err := s.registration.Register(ctx, p)
		if err != nil {
			return replayOutcome{err: err}
		}
		if result.IsFailure() {
			// An existing active registration means an earlier replay (or a
			// live request) already landed this item's intent.
			if result.Failure.Reason == "ALREADY_REGISTERED" {
				return replayOutcome{applied: true, note: "registration already present"}
			}
			return replayOutcome{reason: result.Failure.Reason}
		}
		return replayOutcome{applied: true}

	default:
		return replayOutcome{reason: fmt.Sprintf("%s: %s", ReasonUnknownAction, item.Action)}
	}
}
