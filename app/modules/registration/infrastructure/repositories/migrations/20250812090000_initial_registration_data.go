package registrationmigrations

import (
	"context"
	"fmt"

	registrationdb "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating registration tables...")

		if _, err := db.NewCreateTable().Model((*registrationdb.Tournament)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}

		if _, err := db.NewCreateTable().Model((*registrationdb.Squad)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}

		if _, err := db.NewCreateTable().Model((*registrationdb.Registration)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_squads_tournament_id ON squads(tournament_id);
			`); err != nil {
				return fmt.Errorf("failed to add index to squads: %w", err)
			}
			// One active registration per (shooter, tournament). Partial so
			// cancelled rows never block a re-registration.
			if _, err := tx.ExecContext(ctx, `
				CREATE UNIQUE INDEX IF NOT EXISTS idx_registrations_tournament_shooter_active
				ON registrations(tournament_id, shooter_id) WHERE status != 'cancelled';
			`); err != nil {
				return fmt.Errorf("failed to add unique index to registrations: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_registrations_squad_status ON registrations(squad_id, status, registered_at, id);
			`); err != nil {
				return fmt.Errorf("failed to add waitlist index to registrations: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping registration tables...")

		if _, err := db.NewDropTable().Model((*registrationdb.Registration)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}

		if _, err := db.NewDropTable().Model((*registrationdb.Squad)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}

		if _, err := db.NewDropTable().Model((*registrationdb.Tournament)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}

		return nil
	})
}
