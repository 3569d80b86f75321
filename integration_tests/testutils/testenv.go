// Package testutils builds the shared environment for integration tests: a
// throwaway Postgres with every module's migrations applied, plus fixture
// generators.
package testutils

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"

	_ "github.com/jackc/pgx/v5/stdlib"

	rankingmigrations "github.com/cascade-defensive-pistol/match-engine/app/modules/ranking/infrastructure/repositories/migrations"
	registrationmigrations "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/infrastructure/repositories/migrations"
	scoringmigrations "github.com/cascade-defensive-pistol/match-engine/app/modules/scoring/infrastructure/repositories/migrations"
	syncmigrations "github.com/cascade-defensive-pistol/match-engine/app/modules/sync/infrastructure/repositories/migrations"
	"github.com/cascade-defensive-pistol/match-engine/config"
	"github.com/cascade-defensive-pistol/match-engine/db/bundb"
	"github.com/cascade-defensive-pistol/match-engine/integration_tests/containers"
)

// TestEnvironment holds the resources shared by one integration test package.
type TestEnvironment struct {
	Ctx         context.Context
	PgContainer *postgres.PostgresContainer
	DB          *bun.DB
	DBService   *bundb.DBService
	DSN         string
	Logger      *slog.Logger

	cancel context.CancelFunc
}

// NewTestEnvironment starts Postgres, connects bun, and applies every
// module's migrations. Call Cleanup when the package's tests are done.
func NewTestEnvironment(t *testing.T) (*TestEnvironment, error) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)

	pgContainer, dsn, err := containers.SetupPostgresContainer(ctx)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start postgres: %w", err)
	}

	dbService, err := bundb.NewBunDBService(ctx, config.PostgresConfig{DSN: dsn})
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		cancel()
		return nil, fmt.Errorf("failed to connect bun: %w", err)
	}
	db := dbService.GetDB()

	if err := applyMigrations(ctx, db); err != nil {
		_ = pgContainer.Terminate(ctx)
		cancel()
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	return &TestEnvironment{
		Ctx:         ctx,
		PgContainer: pgContainer,
		DB:          db,
		DBService:   dbService,
		DSN:         dsn,
		Logger:      logger,
		cancel:      cancel,
	}, nil
}

func applyMigrations(ctx context.Context, db *bun.DB) error {
	for name, migrations := range map[string]*migrate.Migrations{
		"registration": registrationmigrations.Migrations,
		"scoring":      scoringmigrations.Migrations,
		"ranking":      rankingmigrations.Migrations,
		"sync":         syncmigrations.Migrations,
	} {
		migrator := migrate.NewMigrator(db, migrations)
		if err := migrator.Init(ctx); err != nil {
			return fmt.Errorf("failed to init %s migrations: %w", name, err)
		}
		if _, err := migrator.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to run %s migrations: %w", name, err)
		}
	}
	return nil
}

// Cleanup tears the environment down in reverse order of construction.
func (env *TestEnvironment) Cleanup() {
	if env.DB != nil {
		_ = env.DB.Close()
	}
	if env.PgContainer != nil {
		_ = env.PgContainer.Terminate(context.Background())
	}
	env.cancel()
}
