package scoringmigrations

import (
	"context"
	"fmt"

	scoringdb "github.com/cascade-defensive-pistol/match-engine/app/modules/scoring/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating scoring tables...")

		if _, err := db.NewCreateTable().Model((*scoringdb.Stage)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}

		if _, err := db.NewCreateTable().Model((*scoringdb.StageScore)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE UNIQUE INDEX IF NOT EXISTS idx_stage_scores_stage_shooter ON stage_scores(stage_id, shooter_id);
			`); err != nil {
				return fmt.Errorf("failed to add unique index to stage_scores: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_stage_scores_tournament_id ON stage_scores(tournament_id);
			`); err != nil {
				return fmt.Errorf("failed to add index to stage_scores: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_stages_tournament_id ON stages(tournament_id);
			`); err != nil {
				return fmt.Errorf("failed to add index to stages: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping scoring tables...")

		if _, err := db.NewDropTable().Model((*scoringdb.StageScore)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}

		if _, err := db.NewDropTable().Model((*scoringdb.Stage)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}

		return nil
	})
}
