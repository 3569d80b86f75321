package registrationdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"

	registrationdomain "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/domain"
	"github.com/cascade-defensive-pistol/match-engine/app/shared/sharedtypes"
)

// pgerrUniqueViolation is the SQLSTATE postgres reports for a unique index hit.
const pgerrUniqueViolation = "23505"

// RegistrationDBImpl implements Repository on bun.
type RegistrationDBImpl struct {
	DB *bun.DB
}

var _ Repository = (*RegistrationDBImpl)(nil)

func (r *RegistrationDBImpl) idb(db bun.IDB) bun.IDB {
	if db != nil {
		return db
	}
	return r.DB
}

func (r *RegistrationDBImpl) GetTournament(ctx context.Context, db bun.IDB, id sharedtypes.TournamentID) (*Tournament, error) {
	var tournament Tournament
	err := r.idb(db).NewSelect().
		Model(&tournament).
		Where("t.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to fetch tournament %s: %w", id, err)
	}
	return &tournament, nil
}

func (r *RegistrationDBImpl) GetSquad(ctx context.Context, db bun.IDB, id sharedtypes.SquadID) (*Squad, error) {
	return r.getSquad(ctx, db, id, false)
}

func (r *RegistrationDBImpl) GetSquadForUpdate(ctx context.Context, db bun.IDB, id sharedtypes.SquadID) (*Squad, error) {
	return r.getSquad(ctx, db, id, true)
}

func (r *RegistrationDBImpl) getSquad(ctx context.Context, db bun.IDB, id sharedtypes.SquadID, forUpdate bool) (*Squad, error) {
	var squad Squad
	q := r.idb(db).NewSelect().
		Model(&squad).
		Where("sq.id = ?", id)
	if forUpdate {
		q = q.For("UPDATE")
	}
	if err := q.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSquadNotFound
		}
		return nil, fmt.Errorf("failed to fetch squad %s: %w", id, err)
	}
	return &squad, nil
}

func (r *RegistrationDBImpl) UpdateSquad(ctx context.Context, db bun.IDB, squad *Squad) error {
	_, err := r.idb(db).NewUpdate().
		Model(squad).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update squad %s: %w", squad.ID, err)
	}
	return nil
}

func (r *RegistrationDBImpl) ListSquads(ctx context.Context, db bun.IDB, tournamentID sharedtypes.TournamentID) ([]Squad, error) {
	var squads []Squad
	err := r.idb(db).NewSelect().
		Model(&squads).
		Where("sq.tournament_id = ?", tournamentID).
		Order("sq.time_slot", "sq.name").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list squads for tournament %s: %w", tournamentID, err)
	}
	return squads, nil
}

func (r *RegistrationDBImpl) CountRegistered(ctx context.Context, db bun.IDB, squadID sharedtypes.SquadID) (int, error) {
	count, err := r.idb(db).NewSelect().
		Model((*Registration)(nil)).
		Where("r.squad_id = ?", squadID).
		Where("r.status IN (?)", bun.In([]registrationdomain.RegistrationStatus{
			registrationdomain.StatusRegistered,
			registrationdomain.StatusCheckedIn,
		})).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count registered shooters for squad %s: %w", squadID, err)
	}
	return count, nil
}

func (r *RegistrationDBImpl) GetRegistration(ctx context.Context, db bun.IDB, id sharedtypes.RegistrationID) (*Registration, error) {
	var registration Registration
	err := r.idb(db).NewSelect().
		Model(&registration).
		Where("r.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to fetch registration %s: %w", id, err)
	}
	return &registration, nil
}

func (r *RegistrationDBImpl) FindActiveByShooter(ctx context.Context, db bun.IDB, tournamentID sharedtypes.TournamentID, shooterID sharedtypes.ShooterID) (*Registration, error) {
	var registration Registration
	err := r.idb(db).NewSelect().
		Model(&registration).
		Where("r.tournament_id = ?", tournamentID).
		Where("r.shooter_id = ?", shooterID).
		Where("r.status != ?", registrationdomain.StatusCancelled).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to find active registration for shooter %s: %w", shooterID, err)
	}
	return &registration, nil
}

func (r *RegistrationDBImpl) FindWaitlisted(ctx context.Context, db bun.IDB, squadID sharedtypes.SquadID) ([]Registration, error) {
	var registrations []Registration
	err := r.idb(db).NewSelect().
		Model(&registrations).
		Where("r.squad_id = ?", squadID).
		Where("r.status = ?", registrationdomain.StatusWaitlist).
		Order("r.registered_at", "r.id").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch waitlist for squad %s: %w", squadID, err)
	}
	return registrations, nil
}

func (r *RegistrationDBImpl) CreateRegistration(ctx context.Context, db bun.IDB, registration *Registration) error {
	_, err := r.idb(db).NewInsert().
		Model(registration).
		Exec(ctx)
	if err != nil {
		var pgErr pgdriver.Error
		if errors.As(err, &pgErr) && pgErr.Field('C') == pgerrUniqueViolation {
			return ErrDuplicateRegistration
		}
		return fmt.Errorf("failed to create registration for shooter %s: %w", registration.ShooterID, err)
	}
	return nil
}

func (r *RegistrationDBImpl) UpdateRegistration(ctx context.Context, db bun.IDB, registration *Registration) error {
	_, err := r.idb(db).NewUpdate().
		Model(registration).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update registration %s: %w", registration.ID, err)
	}
	return nil
}

func (r *RegistrationDBImpl) ListByTournament(ctx context.Context, db bun.IDB, tournamentID sharedtypes.TournamentID) ([]Registration, error) {
	var registrations []Registration
	err := r.idb(db).NewSelect().
		Model(&registrations).
		Where("r.tournament_id = ?", tournamentID).
		Order("r.registered_at", "r.id").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations for tournament %s: %w", tournamentID, err)
	}
	return registrations, nil
}
