package syncmigrations

import (
	"context"
	"fmt"

	syncdb "github.com/cascade-defensive-pistol/match-engine/app/modules/sync/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating sync tables...")

		if _, err := db.NewCreateTable().Model((*syncdb.QueueItem)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_offline_queue_user_status_created ON offline_queue_items(user_id, status, created_at);
			`); err != nil {
				return fmt.Errorf("failed to add drain index to offline_queue_items: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_offline_queue_completed_at ON offline_queue_items(completed_at) WHERE status = 'completed';
			`); err != nil {
				return fmt.Errorf("failed to add retention index to offline_queue_items: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping sync tables...")

		if _, err := db.NewDropTable().Model((*syncdb.QueueItem)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}

		return nil
	})
}
