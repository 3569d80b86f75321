package rankingservice

import (
	"context"

	rankingevents "github.com/cascade-defensive-pistol/match-engine/app/modules/ranking/events"
	rankingdb "github.com/cascade-defensive-pistol/match-engine/app/modules/ranking/infrastructure/repositories"
	"github.com/cascade-defensive-pistol/match-engine/app/shared/sharedtypes"
	"github.com/cascade-defensive-pistol/match-engine/internal/results"
)

// RecomputeResult is the outcome of a whole-tournament recompute.
type RecomputeResult = results.OperationResult[rankingevents.TournamentRankingUpdatedPayloadV1, rankingevents.RankingRecomputeFailedPayloadV1]

// Service defines the interface for the RankingService.
type Service interface {
	// RecomputeRankings rebuilds the tournament's standings from scratch and
	// swaps the committed match_results rows in one transaction.
	RecomputeRankings(ctx context.Context, payload rankingevents.RankingRecomputeRequestedPayloadV1) (RecomputeResult, error)

	// GetLeaderboard reads the last committed standings, optionally narrowed
	// to a division or a classification within a division.
	GetLeaderboard(ctx context.Context, tournamentID sharedtypes.TournamentID, filter rankingdb.LeaderboardFilter) ([]rankingdb.MatchResult, error)

	// GetShooterResult reads one shooter's aggregate result.
	GetShooterResult(ctx context.Context, tournamentID sharedtypes.TournamentID, shooterID sharedtypes.ShooterID) (*rankingdb.MatchResult, error)
}
