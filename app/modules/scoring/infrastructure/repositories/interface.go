package scoringdb

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/cascade-defensive-pistol/match-engine/app/shared/sharedtypes"
)

// Repository is the persistence boundary for stage scores. Every method
// accepts a bun.IDB so callers can run inside an enclosing transaction; a nil
// db falls back to the repository's own connection.
type Repository interface {
	GetByID(ctx context.Context, db bun.IDB, id sharedtypes.ScoreID) (*StageScore, error)
	// GetByStageAndShooter looks a score up by its natural key. Returns
	// ErrNotFound when no score exists.
	GetByStageAndShooter(ctx context.Context, db bun.IDB, stageID sharedtypes.StageID, shooterID sharedtypes.ShooterID) (*StageScore, error)
	// Upsert inserts the score or, when the (stage, shooter) natural key is
	// taken, overwrites the existing row. At most one score per key.
	Upsert(ctx context.Context, db bun.IDB, score *StageScore) error
	GetForTournament(ctx context.Context, db bun.IDB, tournamentID sharedtypes.TournamentID) ([]StageScore, error)

	GetStage(ctx context.Context, db bun.IDB, stageID sharedtypes.StageID) (*Stage, error)
	CountStages(ctx context.Context, db bun.IDB, tournamentID sharedtypes.TournamentID) (int, error)
}
