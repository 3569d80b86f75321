package scoringdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/cascade-defensive-pistol/match-engine/app/shared/sharedtypes"
)

// ScoreDBImpl implements Repository on bun.
type ScoreDBImpl struct {
	DB *bun.DB
}

var _ Repository = (*ScoreDBImpl)(nil)

func (r *ScoreDBImpl) idb(db bun.IDB) bun.IDB {
	if db != nil {
		return db
	}
	return r.DB
}

func (r *ScoreDBImpl) GetByID(ctx context.Context, db bun.IDB, id sharedtypes.ScoreID) (*StageScore, error) {
	var score StageScore
	err := r.idb(db).NewSelect().
		Model(&score).
		Where("ss.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch score %s: %w", id, err)
	}
	return &score, nil
}

func (r *ScoreDBImpl) GetByStageAndShooter(ctx context.Context, db bun.IDB, stageID sharedtypes.StageID, shooterID sharedtypes.ShooterID) (*StageScore, error) {
	var score StageScore
	err := r.idb(db).NewSelect().
		Model(&score).
		Where("ss.stage_id = ?", stageID).
		Where("ss.shooter_id = ?", shooterID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch score for stage %s shooter %s: %w", stageID, shooterID, err)
	}
	return &score, nil
}

func (r *ScoreDBImpl) Upsert(ctx context.Context, db bun.IDB, score *StageScore) error {
	_, err := r.idb(db).NewInsert().
		Model(score).
		On("CONFLICT (stage_id, shooter_id) DO UPDATE").
		Set("squad_id = EXCLUDED.squad_id").
		Set("division = EXCLUDED.division").
		Set("classification = EXCLUDED.classification").
		Set("scored_by = EXCLUDED.scored_by").
		Set("strings = EXCLUDED.strings").
		Set("penalties = EXCLUDED.penalties").
		Set("raw_time = EXCLUDED.raw_time").
		Set("points_down = EXCLUDED.points_down").
		Set("penalty_time = EXCLUDED.penalty_time").
		Set("final_time = EXCLUDED.final_time").
		Set("dnf = EXCLUDED.dnf").
		Set("dq = EXCLUDED.dq").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert score for stage %s shooter %s: %w", score.StageID, score.ShooterID, err)
	}
	return nil
}

func (r *ScoreDBImpl) GetForTournament(ctx context.Context, db bun.IDB, tournamentID sharedtypes.TournamentID) ([]StageScore, error) {
	var scores []StageScore
	err := r.idb(db).NewSelect().
		Model(&scores).
		Where("ss.tournament_id = ?", tournamentID).
		Order("ss.stage_id", "ss.shooter_id").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scores for tournament %s: %w", tournamentID, err)
	}
	return scores, nil
}

func (r *ScoreDBImpl) GetStage(ctx context.Context, db bun.IDB, stageID sharedtypes.StageID) (*Stage, error) {
	var stage Stage
	err := r.idb(db).NewSelect().
		Model(&stage).
		Where("st.id = ?", stageID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStageNotFound
		}
		return nil, fmt.Errorf("failed to fetch stage %s: %w", stageID, err)
	}
	return &stage, nil
}

func (r *ScoreDBImpl) CountStages(ctx context.Context, db bun.IDB, tournamentID sharedtypes.TournamentID) (int, error) {
	count, err := r.idb(db).NewSelect().
		Model((*Stage)(nil)).
		Where("st.tournament_id = ?", tournamentID).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count stages for tournament %s: %w", tournamentID, err)
	}
	return count, nil
}
