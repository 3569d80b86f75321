package scoringservice

import (
	"context"
	"errors"

	"github.com/uptrace/bun"

	scoringdomain "github.com/cascade-defensive-pistol/match-engine/app/modules/scoring/domain"
	scoringevents "github.com/cascade-defensive-pistol/match-engine/app/modules/scoring/events"
	scoringdb "github.com/cascade-defensive-pistol/match-engine/app/modules/scoring/infrastructure/repositories"
	"github.com/cascade-defensive-pistol/match-engine/internal/observability/attr"
	"github.com/cascade-defensive-pistol/match-engine/internal/results"
)

// UpdateScore applies a correction to an existing score. When the stored row
// changed since the editor's base version, the divergence runs through the
// conflict rules instead of blindly overwriting.
func (s *ScoringService) UpdateScore(ctx context.Context, payload scoringevents.ScoreUpdateRequestedPayloadV1) (UpdateScoreResult, error) {
	return withTelemetry(s, ctx, "UpdateScore", func(ctx context.Context) (UpdateScoreResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (UpdateScoreResult, error) {
			failure := func(reason string) UpdateScoreResult {
				return results.Failure[UpdateScoreSuccess](UpdateScoreFailure{
					Failed: &scoringevents.ScoreUpdateFailedPayloadV1{
						ScoreID: payload.ScoreID,
						Reason:  reason,
					},
				})
			}

			existing, err := s.repo.GetByID(ctx, db, payload.ScoreID)
			if err != nil {
				if errors.Is(err, scoringdb.ErrNotFound) {
					return failure("SCORE_NOT_FOUND"), nil
				}
				return UpdateScoreResult{}, err
			}

			stage, err := s.repo.GetStage(ctx, db, existing.StageID)
			if err != nil {
				return UpdateScoreResult{}, err
			}

			terminal := payload.DNF || payload.DQ
			if terminal {
				// Partial strings are fine on a DNF/DQ, invalid ones are not.
				if err := scoringdomain.ValidateRecordedStrings(payload.Strings, stage.RoundsPerString); err != nil {
					return failure(err.Error()), nil
				}
			} else {
				if err := scoringdomain.ValidateStrings(payload.Strings, stage.RoundsPerString); err != nil {
					return failure(err.Error()), nil
				}
			}
			if err := scoringdomain.ValidatePenalties(payload.Penalties); err != nil {
				return failure(err.Error()), nil
			}

			local := scoringdomain.ScoreVersion{
				Strings:    payload.Strings,
				Penalties:  payload.Penalties,
				DNF:        payload.DNF,
				DQ:         payload.DQ,
				ModifiedAt: payload.ModifiedAt,
				ModifiedBy: string(payload.ScoredBy),
			}

			// Fast-forward: nobody edited since the base the editor saw.
			if existing.UpdatedAt.Equal(payload.BaseModifiedAt) {
				applyVersion(existing, local)
				if err := s.repo.Upsert(ctx, db, existing); err != nil {
					return UpdateScoreResult{}, err
				}
				return results.Success[UpdateScoreSuccess, UpdateScoreFailure](UpdateScoreSuccess{
					Updated: updatedPayload(existing),
				}), nil
			}

			server := existing.Version()
			if !scoringdomain.InConflict(local, server) {
				// Intervening edit landed the same content; nothing to do.
				return results.Success[UpdateScoreSuccess, UpdateScoreFailure](UpdateScoreSuccess{
					Updated: updatedPayload(existing),
				}), nil
			}

			outcome := scoringdomain.Resolve(local, server)
			s.metrics.RecordConflictDetected(ctx, outcome.Rule)
			s.logger.InfoContext(ctx, "Score update conflict detected",
				attr.ExtractCorrelationID(ctx),
				attr.String("score_id", payload.ScoreID.String()),
				attr.String("rule", outcome.Rule),
				attr.String("resolution", string(outcome.Resolution)),
			)

			conflictInfo := &scoringevents.ScoreConflictResolvedPayloadV1{
				ScoreID:    payload.ScoreID,
				Rule:       outcome.Rule,
				Resolution: string(outcome.Resolution),
			}

			switch outcome.Resolution {
			case scoringdomain.ResolutionUseServer:
				return results.Success[UpdateScoreSuccess, UpdateScoreFailure](UpdateScoreSuccess{
					Updated:  updatedPayload(existing),
					Conflict: conflictInfo,
				}), nil
			case scoringdomain.ResolutionUseLocal:
				applyVersion(existing, local)
			case scoringdomain.ResolutionUseMerged:
				applyVersion(existing, *outcome.Merged)
			default:
				s.metrics.RecordConflictManual(ctx)
				return results.Failure[UpdateScoreSuccess](UpdateScoreFailure{
					Manual: &scoringevents.ScoreConflictManualRequiredPayloadV1{
						ScoreID: payload.ScoreID,
						Local:   local,
						Server:  server,
					},
				}), nil
			}

			if err := s.repo.Upsert(ctx, db, existing); err != nil {
				return UpdateScoreResult{}, err
			}
			return results.Success[UpdateScoreSuccess, UpdateScoreFailure](UpdateScoreSuccess{
				Updated:  updatedPayload(existing),
				Conflict: conflictInfo,
			}), nil
		})
	})
}

func updatedPayload(score *scoringdb.StageScore) scoringevents.ScoreUpdatedPayloadV1 {
	return scoringevents.ScoreUpdatedPayloadV1{
		ScoreID:      score.ID,
		TournamentID: score.TournamentID,
		StageID:      score.StageID,
		ShooterID:    score.ShooterID,
		Breakdown: scoringdomain.ScoreBreakdown{
			RawTime:     score.RawTime,
			PointsDown:  score.PointsDown,
			PenaltyTime: score.PenaltyTime,
			FinalTime:   score.FinalTime,
		},
		DNF: score.DNF,
		DQ:  score.DQ,
	}
}
