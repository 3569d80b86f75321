package registrationservice

import (
	"context"
	"errors"

	"github.com/uptrace/bun"

	registrationdomain "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/domain"
	registrationevents "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/events"
	registrationdb "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/infrastructure/repositories"
	"github.com/cascade-defensive-pistol/match-engine/app/shared/sharedtypes"
	"github.com/cascade-defensive-pistol/match-engine/internal/results"
)

// SetCapacity resizes a squad under the row lock. Shrinking below current
// occupancy is rejected; growing promotes waitlisted shooters into the new
// slots before the transaction commits.
func (s *RegistrationService) SetCapacity(ctx context.Context, payload registrationevents.SquadCapacityChangeRequestedPayloadV1) (SetCapacityResult, error) {
	return withTelemetry(s, ctx, "SetCapacity", func(ctx context.Context) (SetCapacityResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (SetCapacityResult, error) {
			failure := func(reason string) SetCapacityResult {
				return results.Failure[registrationevents.SquadCapacityChangedPayloadV1](registrationevents.SquadCapacityChangeFailedPayloadV1{
					SquadID: payload.SquadID,
					Reason:  reason,
				})
			}

			squad, err := s.repo.GetSquadForUpdate(ctx, db, payload.SquadID)
			if err != nil {
				if errors.Is(err, registrationdb.ErrSquadNotFound) {
					return failure(ReasonNotFound), nil
				}
				return SetCapacityResult{}, err
			}

			if payload.MaxShooters < squad.CurrentShooters {
				return failure(ReasonCapacityBelowCurrent), nil
			}

			squad.MaxShooters = payload.MaxShooters
			squad.Status = registrationdomain.DeriveSquadStatus(squad.CurrentShooters, squad.MaxShooters, squad.ManuallyClosed)

			promoted, err := s.promoteWaitlisted(ctx, db, squad)
			if err != nil {
				return SetCapacityResult{}, err
			}
			if err := s.repo.UpdateSquad(ctx, db, squad); err != nil {
				return SetCapacityResult{}, err
			}

			return results.Success[registrationevents.SquadCapacityChangedPayloadV1, registrationevents.SquadCapacityChangeFailedPayloadV1](registrationevents.SquadCapacityChangedPayloadV1{
				SquadID:     squad.ID,
				MaxShooters: squad.MaxShooters,
				Promoted:    promoted,
			}), nil
		})
	})
}

// CloseSquad manually closes a squad to new registrations. Existing
// registrations and the waitlist are untouched.
func (s *RegistrationService) CloseSquad(ctx context.Context, payload registrationevents.SquadCloseRequestedPayloadV1) (SquadStatusResult, error) {
	return withTelemetry(s, ctx, "CloseSquad", func(ctx context.Context) (SquadStatusResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (SquadStatusResult, error) {
			return s.setManuallyClosed(ctx, db, payload.SquadID, true)
		})
	})
}

// OpenSquad reopens a manually closed squad. Reopening with spare capacity
// promotes from the waitlist.
func (s *RegistrationService) OpenSquad(ctx context.Context, payload registrationevents.SquadOpenRequestedPayloadV1) (SquadStatusResult, error) {
	return withTelemetry(s, ctx, "OpenSquad", func(ctx context.Context) (SquadStatusResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (SquadStatusResult, error) {
			return s.setManuallyClosed(ctx, db, payload.SquadID, false)
		})
	})
}

func (s *RegistrationService) setManuallyClosed(ctx context.Context, db bun.IDB, squadID sharedtypes.SquadID, closed bool) (SquadStatusResult, error) {
	squad, err := s.repo.GetSquadForUpdate(ctx, db, squadID)
	if err != nil {
		if errors.Is(err, registrationdb.ErrSquadNotFound) {
			return results.Failure[registrationevents.SquadStatusChangedPayloadV1](registrationevents.SquadCapacityChangeFailedPayloadV1{
				SquadID: squadID,
				Reason:  ReasonNotFound,
			}), nil
		}
		return SquadStatusResult{}, err
	}

	squad.ManuallyClosed = closed
	squad.Status = registrationdomain.DeriveSquadStatus(squad.CurrentShooters, squad.MaxShooters, squad.ManuallyClosed)

	var promoted []registrationevents.ShooterPromotedPayloadV1
	if !closed {
		promoted, err = s.promoteWaitlisted(ctx, db, squad)
		if err != nil {
			return SquadStatusResult{}, err
		}
	}
	if err := s.repo.UpdateSquad(ctx, db, squad); err != nil {
		return SquadStatusResult{}, err
	}

	return results.Success[registrationevents.SquadStatusChangedPayloadV1, registrationevents.SquadCapacityChangeFailedPayloadV1](registrationevents.SquadStatusChangedPayloadV1{
		SquadID:  squad.ID,
		Status:   squad.Status,
		Promoted: promoted,
	}), nil
}

// GetRegistration retrieves one registration by id.
func (s *RegistrationService) GetRegistration(ctx context.Context, id sharedtypes.RegistrationID) (*registrationdb.Registration, error) {
	return s.repo.GetRegistration(ctx, nil, id)
}

// ListSquads returns the tournament's squads with live occupancy.
func (s *RegistrationService) ListSquads(ctx context.Context, tournamentID sharedtypes.TournamentID) ([]registrationdb.Squad, error) {
	return s.repo.ListSquads(ctx, nil, tournamentID)
}

// ListRegistrations returns every registration in the tournament.
func (s *RegistrationService) ListRegistrations(ctx context.Context, tournamentID sharedtypes.TournamentID) ([]registrationdb.Registration, error) {
	return s.repo.ListByTournament(ctx, nil, tournamentID)
}
