package rankingservice

import (
	"context"

	rankingdb "github.com/cascade-defensive-pistol/match-engine/app/modules/ranking/infrastructure/repositories"
	"github.com/cascade-defensive-pistol/match-engine/app/shared/sharedtypes"
)

// GetLeaderboard reads the last committed standings. Reads never join the
// recompute transaction, so they never block writers.
func (s *RankingService) GetLeaderboard(ctx context.Context, tournamentID sharedtypes.TournamentID, filter rankingdb.LeaderboardFilter) ([]rankingdb.MatchResult, error) {
	s.metrics.RecordLeaderboardQuery(ctx, tournamentID.String())
	return s.resultRepo.GetLeaderboard(ctx, nil, tournamentID, filter)
}

// GetShooterResult reads one shooter's aggregate result.
func (s *RankingService) GetShooterResult(ctx context.Context, tournamentID sharedtypes.TournamentID, shooterID sharedtypes.ShooterID) (*rankingdb.MatchResult, error) {
	return s.resultRepo.GetByShooter(ctx, nil, tournamentID, shooterID)
}
