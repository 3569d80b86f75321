package registrationservice

import (
	"context"

	"github.com/uptrace/bun"

	registrationdomain "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/domain"
	registrationdb "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/infrastructure/repositories"
	"github.com/cascade-defensive-pistol/match-engine/app/shared/sharedtypes"
)

// FakeRegistrationRepository provides an in-memory, programmable stub for the
// registrationdb.Repository interface. Unlike a bare mock it keeps real squad
// and registration state so multi-step operations (cancel + promote,
// transfer) exercise their whole flow.
type FakeRegistrationRepository struct {
	trace []string

	Tournaments   map[sharedtypes.TournamentID]*registrationdb.Tournament
	Squads        map[sharedtypes.SquadID]*registrationdb.Squad
	Registrations map[sharedtypes.RegistrationID]*registrationdb.Registration

	GetSquadForUpdateFunc  func(ctx context.Context, db bun.IDB, id sharedtypes.SquadID) (*registrationdb.Squad, error)
	CreateRegistrationFunc func(ctx context.Context, db bun.IDB, registration *registrationdb.Registration) error
}

// NewFakeRegistrationRepository initializes an empty fake.
func NewFakeRegistrationRepository() *FakeRegistrationRepository {
	return &FakeRegistrationRepository{
		trace:         []string{},
		Tournaments:   map[sharedtypes.TournamentID]*registrationdb.Tournament{},
		Squads:        map[sharedtypes.SquadID]*registrationdb.Squad{},
		Registrations: map[sharedtypes.RegistrationID]*registrationdb.Registration{},
	}
}

// Trace returns the sequence of method calls made to the fake.
func (f *FakeRegistrationRepository) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeRegistrationRepository) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeRegistrationRepository) GetTournament(ctx context.Context, db bun.IDB, id sharedtypes.TournamentID) (*registrationdb.Tournament, error) {
	f.record("GetTournament")
	if t, ok := f.Tournaments[id]; ok {
		copied := *t
		return &copied, nil
	}
	return nil, registrationdb.ErrTournamentNotFound
}

func (f *FakeRegistrationRepository) GetSquad(ctx context.Context, db bun.IDB, id sharedtypes.SquadID) (*registrationdb.Squad, error) {
	f.record("GetSquad")
	if sq, ok := f.Squads[id]; ok {
		copied := *sq
		return &copied, nil
	}
	return nil, registrationdb.ErrSquadNotFound
}

func (f *FakeRegistrationRepository) GetSquadForUpdate(ctx context.Context, db bun.IDB, id sharedtypes.SquadID) (*registrationdb.Squad, error) {
	f.record("GetSquadForUpdate")
	if f.GetSquadForUpdateFunc != nil {
		return f.GetSquadForUpdateFunc(ctx, db, id)
	}
	if sq, ok := f.Squads[id]; ok {
		copied := *sq
		return &copied, nil
	}
	return nil, registrationdb.ErrSquadNotFound
}

func (f *FakeRegistrationRepository) UpdateSquad(ctx context.Context, db bun.IDB, squad *registrationdb.Squad) error {
	f.record("UpdateSquad")
	copied := *squad
	f.Squads[squad.ID] = &copied
	return nil
}

func (f *FakeRegistrationRepository) ListSquads(ctx context.Context, db bun.IDB, tournamentID sharedtypes.TournamentID) ([]registrationdb.Squad, error) {
	f.record("ListSquads")
	var out []registrationdb.Squad
	for _, sq := range f.Squads {
		if sq.TournamentID == tournamentID {
			out = append(out, *sq)
		}
	}
	return out, nil
}

func (f *FakeRegistrationRepository) CountRegistered(ctx context.Context, db bun.IDB, squadID sharedtypes.SquadID) (int, error) {
	f.record("CountRegistered")
	count := 0
	for _, r := range f.Registrations {
		if r.SquadID == squadID &&
			(r.Status == registrationdomain.StatusRegistered || r.Status == registrationdomain.StatusCheckedIn) {
			count++
		}
	}
	return count, nil
}

func (f *FakeRegistrationRepository) GetRegistration(ctx context.Context, db bun.IDB, id sharedtypes.RegistrationID) (*registrationdb.Registration, error) {
	f.record("GetRegistration")
	if r, ok := f.Registrations[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, registrationdb.ErrRegistrationNotFound
}

func (f *FakeRegistrationRepository) FindActiveByShooter(ctx context.Context, db bun.IDB, tournamentID sharedtypes.TournamentID, shooterID sharedtypes.ShooterID) (*registrationdb.Registration, error) {
	f.record("FindActiveByShooter")
	for _, r := range f.Registrations {
		if r.TournamentID == tournamentID && r.ShooterID == shooterID && r.Status.IsActive() {
			copied := *r
			return &copied, nil
		}
	}
	return nil, registrationdb.ErrRegistrationNotFound
}

func (f *FakeRegistrationRepository) FindWaitlisted(ctx context.Context, db bun.IDB, squadID sharedtypes.SquadID) ([]registrationdb.Registration, error) {
	f.record("FindWaitlisted")
	var out []registrationdb.Registration
	for _, r := range f.Registrations {
		if r.SquadID == squadID && r.Status == registrationdomain.StatusWaitlist {
			out = append(out, *r)
		}
	}
	// FIFO by registered_at, ties by id.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && waitlistBefore(out[j], out[j-1]); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out, nil
}

func waitlistBefore(a, b registrationdb.Registration) bool {
	if !a.RegisteredAt.Equal(b.RegisteredAt) {
		return a.RegisteredAt.Before(b.RegisteredAt)
	}
	return a.ID.String() < b.ID.String()
}

func (f *FakeRegistrationRepository) CreateRegistration(ctx context.Context, db bun.IDB, registration *registrationdb.Registration) error {
	f.record("CreateRegistration")
	if f.CreateRegistrationFunc != nil {
		return f.CreateRegistrationFunc(ctx, db, registration)
	}
	// Mirrors the partial unique index on (tournament_id, shooter_id).
	for _, r := range f.Registrations {
		if r.TournamentID == registration.TournamentID && r.ShooterID == registration.ShooterID && r.Status.IsActive() {
			return registrationdb.ErrDuplicateRegistration
		}
	}
	copied := *registration
	f.Registrations[registration.ID] = &copied
	return nil
}

func (f *FakeRegistrationRepository) UpdateRegistration(ctx context.Context, db bun.IDB, registration *registrationdb.Registration) error {
	f.record("UpdateRegistration")
	copied := *registration
	f.Registrations[registration.ID] = &copied
	return nil
}

func (f *FakeRegistrationRepository) ListByTournament(ctx context.Context, db bun.IDB, tournamentID sharedtypes.TournamentID) ([]registrationdb.Registration, error) {
	f.record("ListByTournament")
	var out []registrationdb.Registration
	for _, r := range f.Registrations {
		if r.TournamentID == tournamentID {
			out = append(out, *r)
		}
	}
	return out, nil
}

var _ registrationdb.Repository = (*FakeRegistrationRepository)(nil)
