package rankingdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/cascade-defensive-pistol/match-engine/app/shared/sharedtypes"
)

// MatchResultDBImpl implements Repository on bun.
type MatchResultDBImpl struct {
	DB *bun.DB
}

var _ Repository = (*MatchResultDBImpl)(nil)

func (r *MatchResultDBImpl) idb(db bun.IDB) bun.IDB {
	if db != nil {
		return db
	}
	return r.DB
}

func (r *MatchResultDBImpl) ReplaceForTournament(ctx context.Context, db bun.IDB, tournamentID sharedtypes.TournamentID, results []MatchResult) error {
	idb := r.idb(db)

	_, err := idb.NewDelete().
		Model((*MatchResult)(nil)).
		Where("tournament_id = ?", tournamentID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to clear results for tournament %s: %w", tournamentID, err)
	}

	if len(results) == 0 {
		return nil
	}
	_, err = idb.NewInsert().
		Model(&results).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert results for tournament %s: %w", tournamentID, err)
	}
	return nil
}

func (r *MatchResultDBImpl) GetLeaderboard(ctx context.Context, db bun.IDB, tournamentID sharedtypes.TournamentID, filter LeaderboardFilter) ([]MatchResult, error) {
	var results []MatchResult
	q := r.idb(db).NewSelect().
		Model(&results).
		Where("mr.tournament_id = ?", tournamentID)

	// Order by the rank scoped to the narrowest filter so page one is the
	// podium for that scope, not the overall podium re-filtered.
	switch {
	case filter.Division != nil && filter.Classification != nil:
		q = q.Where("mr.division = ?", *filter.Division).
			Where("mr.classification = ?", *filter.Classification).
			Order("mr.classification_rank")
	case filter.Division != nil:
		q = q.Where("mr.division = ?", *filter.Division).
			Order("mr.division_rank")
	default:
		q = q.Order("mr.overall_rank")
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to fetch leaderboard for tournament %s: %w", tournamentID, err)
	}
	return results, nil
}

func (r *MatchResultDBImpl) GetByShooter(ctx context.Context, db bun.IDB, tournamentID sharedtypes.TournamentID, shooterID sharedtypes.ShooterID) (*MatchResult, error) {
	var result MatchResult
	err := r.idb(db).NewSelect().
		Model(&result).
		Where("mr.tournament_id = ?", tournamentID).
		Where("mr.shooter_id = ?", shooterID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to fetch result for shooter %s: %w", shooterID, err)
	}
	return &result, nil
}
