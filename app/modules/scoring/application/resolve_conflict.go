package scoringservice

import (
	"context"
	"errors"

	"github.com/uptrace/bun"

	scoringdomain "github.com/cascade-defensive-pistol/match-engine/app/modules/scoring/domain"
	scoringevents "github.com/cascade-defensive-pistol/match-engine/app/modules/scoring/events"
	scoringdb "github.com/cascade-defensive-pistol/match-engine/app/modules/scoring/infrastructure/repositories"
	"github.com/cascade-defensive-pistol/match-engine/app/shared/sharedtypes"
	"github.com/cascade-defensive-pistol/match-engine/internal/results"
)

// ResolveConflict applies a match director's pick for a conflict the automatic
// rules escalated. The chosen version is validated and written as-is; derived
// times are recomputed as with any other write.
func (s *ScoringService) ResolveConflict(ctx context.Context, payload scoringevents.ScoreConflictResolutionRequestedPayloadV1) (ResolveConflictResult, error) {
	return withTelemetry(s, ctx, "ResolveConflict", func(ctx context.Context) (ResolveConflictResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (ResolveConflictResult, error) {
			failure := func(reason string) ResolveConflictResult {
				return results.Failure[scoringevents.ScoreUpdatedPayloadV1](scoringevents.ScoreConflictResolutionFailedPayloadV1{
					ScoreID: payload.ScoreID,
					Reason:  reason,
				})
			}

			existing, err := s.repo.GetByID(ctx, db, payload.ScoreID)
			if err != nil {
				if errors.Is(err, scoringdb.ErrNotFound) {
					return failure("SCORE_NOT_FOUND"), nil
				}
				return ResolveConflictResult{}, err
			}

			stage, err := s.repo.GetStage(ctx, db, existing.StageID)
			if err != nil {
				return ResolveConflictResult{}, err
			}

			chosen := payload.Chosen
			if !chosen.DNF && !chosen.DQ {
				if err := scoringdomain.ValidateStrings(chosen.Strings, stage.RoundsPerString); err != nil {
					return failure(err.Error()), nil
				}
			}
			if err := scoringdomain.ValidatePenalties(chosen.Penalties); err != nil {
				return failure(err.Error()), nil
			}

			chosen.ModifiedBy = string(payload.ResolvedBy)
			applyVersion(existing, chosen)

			if err := s.repo.Upsert(ctx, db, existing); err != nil {
				return ResolveConflictResult{}, err
			}

			return results.Success[scoringevents.ScoreUpdatedPayloadV1, scoringevents.ScoreConflictResolutionFailedPayloadV1](updatedPayload(existing)), nil
		})
	})
}

// GetScoresForTournament retrieves all stage scores for a tournament.
func (s *ScoringService) GetScoresForTournament(ctx context.Context, tournamentID sharedtypes.TournamentID) ([]scoringdb.StageScore, error) {
	return s.repo.GetForTournament(ctx, nil, tournamentID)
}
