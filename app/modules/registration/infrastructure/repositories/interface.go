package registrationdb

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/cascade-defensive-pistol/match-engine/app/shared/sharedtypes"
)

// Repository is the persistence boundary for tournaments, squads, and
// registrations. Every method accepts a bun.IDB so capacity mutations can run
// inside one enclosing transaction; a nil db falls back to the repository's
// own connection.
type Repository interface {
	GetTournament(ctx context.Context, db bun.IDB, id sharedtypes.TournamentID) (*Tournament, error)

	GetSquad(ctx context.Context, db bun.IDB, id sharedtypes.SquadID) (*Squad, error)
	// GetSquadForUpdate fetches the squad row with SELECT ... FOR UPDATE,
	// serializing concurrent capacity mutations on the same squad.
	GetSquadForUpdate(ctx context.Context, db bun.IDB, id sharedtypes.SquadID) (*Squad, error)
	UpdateSquad(ctx context.Context, db bun.IDB, squad *Squad) error
	ListSquads(ctx context.Context, db bun.IDB, tournamentID sharedtypes.TournamentID) ([]Squad, error)
	// CountRegistered recomputes a squad's occupancy from registration rows.
	// Recovery path for drifted counters.
	CountRegistered(ctx context.Context, db bun.IDB, squadID sharedtypes.SquadID) (int, error)

	GetRegistration(ctx context.Context, db bun.IDB, id sharedtypes.RegistrationID) (*Registration, error)
	// FindActiveByShooter returns the shooter's non-cancelled registration for
	// the tournament, or ErrRegistrationNotFound.
	FindActiveByShooter(ctx context.Context, db bun.IDB, tournamentID sharedtypes.TournamentID, shooterID sharedtypes.ShooterID) (*Registration, error)
	// FindWaitlisted returns a squad's waitlist in promotion order: earliest
	// registered_at first, ties broken by registration id.
	FindWaitlisted(ctx context.Context, db bun.IDB, squadID sharedtypes.SquadID) ([]Registration, error)
	// CreateRegistration inserts the row. Returns ErrDuplicateRegistration
	// when the shooter already holds an active registration in the
	// tournament.
	CreateRegistration(ctx context.Context, db bun.IDB, registration *Registration) error
	UpdateRegistration(ctx context.Context, db bun.IDB, registration *Registration) error
	ListByTournament(ctx context.Context, db bun.IDB, tournamentID sharedtypes.TournamentID) ([]Registration, error)
}
