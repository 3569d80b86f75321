package scoringservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	scoringdomain "github.com/cascade-defensive-pistol/match-engine/app/modules/scoring/domain"
	scoringevents "github.com/cascade-defensive-pistol/match-engine/app/modules/scoring/events"
	scoringdb "github.com/cascade-defensive-pistol/match-engine/app/modules/scoring/infrastructure/repositories"
	"github.com/cascade-defensive-pistol/match-engine/app/shared/sharedtypes"
	"github.com/cascade-defensive-pistol/match-engine/internal/observability/attr"
	"github.com/cascade-defensive-pistol/match-engine/internal/results"
)

// SubmitScore validates and stores a new stage score for one shooter.
func (s *ScoringService) SubmitScore(ctx context.Context, payload scoringevents.ScoreSubmissionRequestedPayloadV1) (SubmitScoreResult, error) {
	return withTelemetry(s, ctx, "SubmitScore", func(ctx context.Context) (SubmitScoreResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (SubmitScoreResult, error) {
			failure := func(reason string) SubmitScoreResult {
				return results.Failure[scoringevents.ScoreSubmittedPayloadV1](scoringevents.ScoreSubmissionFailedPayloadV1{
					TournamentID: payload.TournamentID,
					StageID:      payload.StageID,
					ShooterID:    payload.ShooterID,
					Reason:       reason,
				})
			}

			stage, err := s.repo.GetStage(ctx, db, payload.StageID)
			if err != nil {
				if errors.Is(err, scoringdb.ErrStageNotFound) {
					return failure("STAGE_NOT_FOUND"), nil
				}
				return SubmitScoreResult{}, err
			}
			if stage.TournamentID != payload.TournamentID {
				return failure("STAGE_NOT_IN_TOURNAMENT"), nil
			}

			if !payload.Division.IsValid() {
				return failure("INVALID_DIVISION"), nil
			}
			if !payload.Classification.IsValid() {
				return failure("INVALID_CLASSIFICATION"), nil
			}

			terminal := payload.DNF || payload.DQ
			if terminal {
				// Partial strings are fine on a DNF/DQ, invalid ones are not.
				if err := scoringdomain.ValidateRecordedStrings(payload.Strings, stage.RoundsPerString); err != nil {
					return failure(err.Error()), nil
				}
			} else {
				if len(payload.Strings) != stage.StringCount {
					return failure(fmt.Sprintf("expected %d strings, got %d", stage.StringCount, len(payload.Strings))), nil
				}
				if err := scoringdomain.ValidateStrings(payload.Strings, stage.RoundsPerString); err != nil {
					return failure(err.Error()), nil
				}
			}
			if err := scoringdomain.ValidatePenalties(payload.Penalties); err != nil {
				return failure(err.Error()), nil
			}

			existing, err := s.repo.GetByStageAndShooter(ctx, db, payload.StageID, payload.ShooterID)
			if err != nil && !errors.Is(err, scoringdb.ErrNotFound) {
				return SubmitScoreResult{}, err
			}

			incoming := scoringdomain.ScoreVersion{
				Strings:    payload.Strings,
				Penalties:  payload.Penalties,
				DNF:        payload.DNF,
				DQ:         payload.DQ,
				ModifiedAt: payload.ScoredAt,
				ModifiedBy: string(payload.ScoredBy),
			}

			if existing != nil {
				server := existing.Version()
				if !scoringdomain.InConflict(incoming, server) {
					// Replay of an already-stored submission. Common after an
					// offline drain; answer with the stored result.
					s.logger.InfoContext(ctx, "Duplicate score submission ignored",
						attr.ExtractCorrelationID(ctx),
						attr.String("score_id", existing.ID.String()),
					)
					return results.Success[scoringevents.ScoreSubmittedPayloadV1, scoringevents.ScoreSubmissionFailedPayloadV1](submittedPayload(existing)), nil
				}

				outcome := scoringdomain.Resolve(incoming, server)
				s.metrics.RecordConflictDetected(ctx, outcome.Rule)

				switch outcome.Resolution {
				case scoringdomain.ResolutionUseServer:
					return results.Success[scoringevents.ScoreSubmittedPayloadV1, scoringevents.ScoreSubmissionFailedPayloadV1](submittedPayload(existing)), nil
				case scoringdomain.ResolutionUseMerged:
					incoming = *outcome.Merged
				case scoringdomain.ResolutionUseLocal:
					// Incoming wins; fall through to the write below.
				default:
					s.metrics.RecordConflictManual(ctx)
					return failure("CONFLICT_MANUAL_REQUIRED"), nil
				}
			}

			score := &scoringdb.StageScore{
				ID:             sharedtypes.ScoreID(uuid.New()),
				TournamentID:   payload.TournamentID,
				StageID:        payload.StageID,
				ShooterID:      payload.ShooterID,
				SquadID:        payload.SquadID,
				Division:       payload.Division,
				Classification: payload.Classification,
				ScoredBy:       payload.ScoredBy,
				ScoredAt:       payload.ScoredAt,
				UpdatedAt:      payload.ScoredAt,
			}
			if existing != nil {
				score.ID = existing.ID
				score.ScoredAt = existing.ScoredAt
			}
			applyVersion(score, incoming)

			if err := s.repo.Upsert(ctx, db, score); err != nil {
				return SubmitScoreResult{}, err
			}
			s.metrics.RecordScoreSubmission(ctx, payload.StageID.String())

			return results.Success[scoringevents.ScoreSubmittedPayloadV1, scoringevents.ScoreSubmissionFailedPayloadV1](submittedPayload(score)), nil
		})
	})
}

// applyVersion writes a resolved version's content onto the row and recomputes
// the derived times.
func applyVersion(score *scoringdb.StageScore, v scoringdomain.ScoreVersion) {
	score.Strings = v.Strings
	score.Penalties = v.Penalties
	score.DNF = v.DNF
	score.DQ = v.DQ
	score.UpdatedAt = v.ModifiedAt
	score.ScoredBy = sharedtypes.UserID(v.ModifiedBy)

	breakdown := scoringdomain.CalculateScoreBreakdown(v.Strings, v.Penalties)
	score.RawTime = breakdown.RawTime
	score.PointsDown = breakdown.PointsDown
	score.PenaltyTime = breakdown.PenaltyTime
	score.FinalTime = breakdown.FinalTime
}

func submittedPayload(score *scoringdb.StageScore) scoringevents.ScoreSubmittedPayloadV1 {
	return scoringevents.ScoreSubmittedPayloadV1{
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
