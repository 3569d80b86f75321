package rankingservice

import (
	"context"

	"github.com/uptrace/bun"

	rankingdomain "github.com/cascade-defensive-pistol/match-engine/app/modules/ranking/domain"
	rankingevents "github.com/cascade-defensive-pistol/match-engine/app/modules/ranking/events"
	rankingdb "github.com/cascade-defensive-pistol/match-engine/app/modules/ranking/infrastructure/repositories"
	registrationdomain "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/domain"
	registrationdb "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/infrastructure/repositories"
	scoringdb "github.com/cascade-defensive-pistol/match-engine/app/modules/scoring/infrastructure/repositories"
	"github.com/cascade-defensive-pistol/match-engine/app/shared/sharedtypes"
	"github.com/cascade-defensive-pistol/match-engine/internal/results"
)

// RecomputeRankings rebuilds the tournament's standings from all committed
// stage scores. The recompute is whole-tournament on purpose: rank numbers
// drift under partial updates, a full rewrite cannot.
func (s *RankingService) RecomputeRankings(ctx context.Context, payload rankingevents.RankingRecomputeRequestedPayloadV1) (RecomputeResult, error) {
	return withTelemetry(s, ctx, "RecomputeRankings", func(ctx context.Context) (RecomputeResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (RecomputeResult, error) {
			scores, err := s.scores.GetForTournament(ctx, db, payload.TournamentID)
			if err != nil {
				return RecomputeResult{}, err
			}
			totalStages, err := s.scores.CountStages(ctx, db, payload.TournamentID)
			if err != nil {
				return RecomputeResult{}, err
			}
			registrations, err := s.regs.ListByTournament(ctx, db, payload.TournamentID)
			if err != nil {
				return RecomputeResult{}, err
			}

			ranked := rankingdomain.Rank(aggregateScores(scores, registrations, totalStages))

			computedAt := s.now()
			rows := make([]rankingdb.MatchResult, len(ranked))
			for i, r := range ranked {
				rows[i] = rankingdb.FromRanked(payload.TournamentID, r, computedAt)
			}

			if err := s.resultRepo.ReplaceForTournament(ctx, db, payload.TournamentID, rows); err != nil {
				return RecomputeResult{}, err
			}
			s.metrics.RecordRecompute(ctx, payload.TournamentID.String(), len(rows))

			return results.Success[rankingevents.TournamentRankingUpdatedPayloadV1, rankingevents.RankingRecomputeFailedPayloadV1](rankingevents.TournamentRankingUpdatedPayloadV1{
				TournamentID: payload.TournamentID,
				ShooterCount: len(rows),
				ComputedAt:   computedAt,
			}), nil
		})
	})
}

// aggregateScores folds per-stage scores into per-shooter tournament totals.
// Division, classification, and award categories come from the shooter's
// active registration when one exists (check-in may have corrected them); the
// score row's own values are the fallback for shooters scored without one.
func aggregateScores(scores []scoringdb.StageScore, registrations []registrationdb.Registration, totalStages int) []rankingdomain.ShooterAggregate {
	regByShooter := make(map[sharedtypes.ShooterID]*registrationdb.Registration, len(registrations))
	for i := range registrations {
		if registrations[i].Status != registrationdomain.StatusCancelled {
			regByShooter[registrations[i].ShooterID] = &registrations[i]
		}
	}

	byShooter := map[sharedtypes.ShooterID]*rankingdomain.ShooterAggregate{}
	order := make([]sharedtypes.ShooterID, 0, len(scores))
	for _, score := range scores {
		agg, ok := byShooter[score.ShooterID]
		if !ok {
			agg = &rankingdomain.ShooterAggregate{
				ShooterID:      score.ShooterID,
				Division:       score.Division,
				Classification: score.Classification,
				TotalStages:    totalStages,
			}
			byShooter[score.ShooterID] = agg
			order = append(order, score.ShooterID)
		}

		agg.TotalTime += score.RawTime
		agg.TotalPointsDown += score.PointsDown
		agg.TotalPenaltyTime += score.PenaltyTime
		agg.FinalScore += score.FinalTime
		if score.DNF {
			agg.DNF = true
		}
		if score.DQ {
			agg.DQ = true
		}
		if !score.DNF && !score.DQ {
			agg.CompletedStages++
		}
	}

	aggregates := make([]rankingdomain.ShooterAggregate, 0, len(order))
	for _, shooterID := range order {
		agg := byShooter[shooterID]
		if reg, ok := regByShooter[shooterID]; ok {
			agg.Division = reg.Division
			agg.Classification = reg.Classification
			agg.CustomCategories = reg.CustomCategories
		}
		aggregates = append(aggregates, *agg)
	}
	return aggregates
}
