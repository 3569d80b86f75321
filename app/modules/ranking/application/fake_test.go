package rankingservice

import (
	"context"

	"github.com/uptrace/bun"

	rankingdb "github.com/cascade-defensive-pistol/match-engine/app/modules/ranking/infrastructure/repositories"
	registrationdb "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/infrastructure/repositories"
	scoringdb "github.com/cascade-defensive-pistol/match-engine/app/modules/scoring/infrastructure/repositories"
	"github.com/cascade-defensive-pistol/match-engine/app/shared/sharedtypes"
)

// FakeResultRepository keeps the last replaced generation per tournament.
type FakeResultRepository struct {
	Replaced map[sharedtypes.TournamentID][]rankingdb.MatchResult

	ReplaceFunc func(ctx context.Context, db bun.IDB, tournamentID sharedtypes.TournamentID, results []rankingdb.MatchResult) error
}

func NewFakeResultRepository() *FakeResultRepository {
	return &FakeResultRepository{Replaced: map[sharedtypes.TournamentID][]rankingdb.MatchResult{}}
}

func (f *FakeResultRepository) ReplaceForTournament(ctx context.Context, db bun.IDB, tournamentID sharedtypes.TournamentID, results []rankingdb.MatchResult) error {
	if f.ReplaceFunc != nil {
		return f.ReplaceFunc(ctx, db, tournamentID, results)
	}
	stored := make([]rankingdb.MatchResult, len(results))
	copy(stored, results)
	f.Replaced[tournamentID] = stored
	return nil
}

func (f *FakeResultRepository) GetLeaderboard(ctx context.Context, db bun.IDB, tournamentID sharedtypes.TournamentID, filter rankingdb.LeaderboardFilter) ([]rankingdb.MatchResult, error) {
	var out []rankingdb.MatchResult
	for _, row := range f.Replaced[tournamentID] {
		if filter.Division != nil && row.Division != *filter.Division {
			continue
		}
		if filter.Classification != nil && row.Classification != *filter.Classification {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (f *FakeResultRepository) GetByShooter(ctx context.Context, db bun.IDB, tournamentID sharedtypes.TournamentID, shooterID sharedtypes.ShooterID) (*rankingdb.MatchResult, error) {
	for _, row := range f.Replaced[tournamentID] {
		if row.ShooterID == shooterID {
			copied := row
			return &copied, nil
		}
	}
	return nil, rankingdb.ErrResultNotFound
}

var _ rankingdb.Repository = (*FakeResultRepository)(nil)

// FakeScoreSource serves canned stage scores and a stage count.
type FakeScoreSource struct {
	Scores     []scoringdb.StageScore
	StageCount int
}

func (f *FakeScoreSource) GetByID(context.Context, bun.IDB, sharedtypes.ScoreID) (*scoringdb.StageScore, error) {
	return nil, scoringdb.ErrNotFound
}

func (f *FakeScoreSource) GetByStageAndShooter(context.Context, bun.IDB, sharedtypes.StageID, sharedtypes.ShooterID) (*scoringdb.StageScore, error) {
	return nil, scoringdb.ErrNotFound
}

func (f *FakeScoreSource) Upsert(context.Context, bun.IDB, *scoringdb.StageScore) error { return nil }

func (f *FakeScoreSource) GetForTournament(context.Context, bun.IDB, sharedtypes.TournamentID) ([]scoringdb.StageScore, error) {
	return f.Scores, nil
}

func (f *FakeScoreSource) GetStage(context.Context, bun.IDB, sharedtypes.StageID) (*scoringdb.Stage, error) {
	return nil, scoringdb.ErrStageNotFound
}

func (f *FakeScoreSource) CountStages(context.Context, bun.IDB, sharedtypes.TournamentID) (int, error) {
	return f.StageCount, nil
}

var _ scoringdb.Repository = (*FakeScoreSource)(nil)

// FakeRegistrationSource serves canned registrations for context lookups.
type FakeRegistrationSource struct {
	Registrations []registrationdb.Registration
}

func (f *FakeRegistrationSource) GetTournament(context.Context, bun.IDB, sharedtypes.TournamentID) (*registrationdb.Tournament, error) {
	return nil, registrationdb.ErrTournamentNotFound
}

func (f *FakeRegistrationSource) GetSquad(context.Context, bun.IDB, sharedtypes.SquadID) (*registrationdb.Squad, error) {
	return nil, registrationdb.ErrSquadNotFound
}

func (f *FakeRegistrationSource) GetSquadForUpdate(context.Context, bun.IDB, sharedtypes.SquadID) (*registrationdb.Squad, error) {
	return nil, registrationdb.ErrSquadNotFound
}

func (f *FakeRegistrationSource) UpdateSquad(context.Context, bun.IDB, *registrationdb.Squad) error {
	return nil
}

func (f *FakeRegistrationSource) ListSquads(context.Context, bun.IDB, sharedtypes.TournamentID) ([]registrationdb.Squad, error) {
	return nil, nil
}

func (f *FakeRegistrationSource) CountRegistered(context.Context, bun.IDB, sharedtypes.SquadID) (int, error) {
	return 0, nil
}

func (f *FakeRegistrationSource) GetRegistration(context.Context, bun.IDB, sharedtypes.RegistrationID) (*registrationdb.Registration, error) {
	return nil, registrationdb.ErrRegistrationNotFound
}

func (f *FakeRegistrationSource) FindActiveByShooter(context.Context, bun.IDB, sharedtypes.TournamentID, sharedtypes.ShooterID) (*registrationdb.Registration, error) {
	return nil, registrationdb.ErrRegistrationNotFound
}

func (f *FakeRegistrationSource) FindWaitlisted(context.Context, bun.IDB, sharedtypes.SquadID) ([]registrationdb.Registration, error) {
	return nil, nil
}

func (f *FakeRegistrationSource) CreateRegistration(context.Context, bun.IDB, *registrationdb.Registration) error {
	return nil
}

func (f *FakeRegistrationSource) UpdateRegistration(context.Context, bun.IDB, *registrationdb.Registration) error {
	return nil
}

func (f *FakeRegistrationSource) ListByTournament(context.Context, bun.IDB, sharedtypes.TournamentID) ([]registrationdb.Registration, error) {
	return f.Registrations, nil
}

var _ registrationdb.Repository = (*FakeRegistrationSource)(nil)
