package rankingdb

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/cascade-defensive-pistol/match-engine/app/shared/sharedtypes"
)

// LeaderboardFilter narrows a leaderboard read. Nil fields match everything.
type LeaderboardFilter struct {
	Division       *sharedtypes.Division
	Classification *sharedtypes.Classification
}

// Repository persists derived match results.
type Repository interface {
	// ReplaceForTournament atomically swaps the tournament's result rows for
	// the freshly computed generation. Run inside a transaction.
	ReplaceForTournament(ctx context.Context, db bun.IDB, tournamentID sharedtypes.TournamentID, results []MatchResult) error

	// GetLeaderboard reads the last committed results, ordered by the rank
	// matching the filter scope.
	GetLeaderboard(ctx context.Context, db bun.IDB, tournamentID sharedtypes.TournamentID, filter LeaderboardFilter) ([]MatchResult, error)

	// GetByShooter reads one shooter's aggregate result.
	GetByShooter(ctx context.Context, db bun.IDB, tournamentID sharedtypes.TournamentID, shooterID sharedtypes.ShooterID) (*MatchResult, error)
}
