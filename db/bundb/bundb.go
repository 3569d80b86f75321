package bundb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	rankingdb "github.com/cascade-defensive-pistol/match-engine/app/modules/ranking/infrastructure/repositories"
	registrationdb "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/infrastructure/repositories"
	scoringdb "github.com/cascade-defensive-pistol/match-engine/app/modules/scoring/infrastructure/repositories"
	syncdb "github.com/cascade-defensive-pistol/match-engine/app/modules/sync/infrastructure/repositories"
	"github.com/cascade-defensive-pistol/match-engine/config"
)

// DBService bundles the per-module repositories over one shared connection
// pool.
type DBService struct {
	RegistrationDB *registrationdb.RegistrationDBImpl
	ScoringDB      *scoringdb.ScoreDBImpl
	RankingDB      *rankingdb.MatchResultDBImpl
	SyncDB         *syncdb.QueueDBImpl
	db             *bun.DB
}

// GetDB returns the underlying database connection pool.
func (dbService *DBService) GetDB() *bun.DB {
	return dbService.db
}

// NewBunDBService initializes a new DBService with the provided Postgres
// configuration.
func NewBunDBService(ctx context.Context, cfg config.PostgresConfig) (*DBService, error) {
	sqldb, err := pgConn(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := bun.NewDB(sqldb, pgdialect.New())
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	dbService := &DBService{
		RegistrationDB: &registrationdb.RegistrationDBImpl{DB: db},
		ScoringDB:      &scoringdb.ScoreDBImpl{DB: db},
		RankingDB:      &rankingdb.MatchResultDBImpl{DB: db},
		SyncDB:         &syncdb.QueueDBImpl{DB: db},
		db:             db,
	}

	db.RegisterModel(
		(*registrationdb.Tournament)(nil),
		(*registrationdb.Squad)(nil),
		(*registrationdb.Registration)(nil),
		(*scoringdb.Stage)(nil),
		(*scoringdb.StageScore)(nil),
		(*rankingdb.MatchResult)(nil),
		(*syncdb.QueueItem)(nil),
	)

	return dbService, nil
}

func pgConn(dsn string) (*sql.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))

	if err := sqldb.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return sqldb, nil
}
