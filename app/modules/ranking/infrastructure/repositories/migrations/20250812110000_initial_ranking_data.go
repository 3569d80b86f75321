package rankingmigrations

import (
	"context"
	"fmt"

	rankingdb "github.com/cascade-defensive-pistol/match-engine/app/modules/ranking/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating ranking tables...")

		if _, err := db.NewCreateTable().Model((*rankingdb.MatchResult)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE UNIQUE INDEX IF NOT EXISTS idx_match_results_tournament_shooter ON match_results(tournament_id, shooter_id);
			`); err != nil {
				return fmt.Errorf("failed to add unique index to match_results: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_match_results_tournament_overall ON match_results(tournament_id, overall_rank);
			`); err != nil {
				return fmt.Errorf("failed to add overall rank index to match_results: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_match_results_tournament_division ON match_results(tournament_id, division, division_rank);
			`); err != nil {
				return fmt.Errorf("failed to add division rank index to match_results: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping ranking tables...")

		if _, err := db.NewDropTable().Model((*rankingdb.MatchResult)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}

		return nil
	})
}
