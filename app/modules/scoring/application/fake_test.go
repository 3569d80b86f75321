package scoringservice

import (
	"context"

	"github.com/uptrace/bun"

	scoringdb "github.com/cascade-defensive-pistol/match-engine/app/modules/scoring/infrastructure/repositories"
	"github.com/cascade-defensive-pistol/match-engine/app/shared/sharedtypes"
)

// FakeScoringRepository provides a programmable stub for the scoringdb.Repository interface.
type FakeScoringRepository struct {
	trace []string

	GetByIDFunc              func(ctx context.Context, db bun.IDB, id sharedtypes.ScoreID) (*scoringdb.StageScore, error)
	GetByStageAndShooterFunc func(ctx context.Context, db bun.IDB, stageID sharedtypes.StageID, shooterID sharedtypes.ShooterID) (*scoringdb.StageScore, error)
	UpsertFunc               func(ctx context.Context, db bun.IDB, score *scoringdb.StageScore) error
	GetForTournamentFunc     func(ctx context.Context, db bun.IDB, tournamentID sharedtypes.TournamentID) ([]scoringdb.StageScore, error)
	GetStageFunc             func(ctx context.Context, db bun.IDB, stageID sharedtypes.StageID) (*scoringdb.Stage, error)
	CountStagesFunc          func(ctx context.Context, db bun.IDB, tournamentID sharedtypes.TournamentID) (int, error)

	LastUpserted *scoringdb.StageScore
}

// NewFakeScoringRepository initializes a new FakeScoringRepository with an empty trace.
func NewFakeScoringRepository() *FakeScoringRepository {
	return &FakeScoringRepository{trace: []string{}}
}

// Trace returns the sequence of method calls made to the fake.
func (f *FakeScoringRepository) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeScoringRepository) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeScoringRepository) GetByID(ctx context.Context, db bun.IDB, id sharedtypes.ScoreID) (*scoringdb.StageScore, error) {
	f.record("GetByID")
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, db, id)
	}
	return nil, scoringdb.ErrNotFound
}

func (f *FakeScoringRepository) GetByStageAndShooter(ctx context.Context, db bun.IDB, stageID sharedtypes.StageID, shooterID sharedtypes.ShooterID) (*scoringdb.StageScore, error) {
	f.record("GetByStageAndShooter")
	if f.GetByStageAndShooterFunc != nil {
		return f.GetByStageAndShooterFunc(ctx, db, stageID, shooterID)
	}
	return nil, scoringdb.ErrNotFound
}

func (f *FakeScoringRepository) Upsert(ctx context.Context, db bun.IDB, score *scoringdb.StageScore) error {
	f.record("Upsert")
	f.LastUpserted = score
	if f.UpsertFunc != nil {
		return f.UpsertFunc(ctx, db, score)
	}
	return nil
}

func (f *FakeScoringRepository) GetForTournament(ctx context.Context, db bun.IDB, tournamentID sharedtypes.TournamentID) ([]scoringdb.StageScore, error) {
	f.record("GetForTournament")
	if f.GetForTournamentFunc != nil {
		return f.GetForTournamentFunc(ctx, db, tournamentID)
	}
	return []scoringdb.StageScore{}, nil
}

func (f *FakeScoringRepository) GetStage(ctx context.Context, db bun.IDB, stageID sharedtypes.StageID) (*scoringdb.Stage, error) {
	f.record("GetStage")
	if f.GetStageFunc != nil {
		return f.GetStageFunc(ctx, db, stageID)
	}
	return nil, scoringdb.ErrStageNotFound
}

func (f *FakeScoringRepository) CountStages(ctx context.Context, db bun.IDB, tournamentID sharedtypes.TournamentID) (int, error) {
	f.record("CountStages")
	if f.CountStagesFunc != nil {
		return f.CountStagesFunc(ctx, db, tournamentID)
	}
	return 0, nil
}

var _ scoringdb.Repository = (*FakeScoringRepository)(nil)
