package registrationservice

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	registrationdomain "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/domain"
	registrationevents "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/events"
	registrationdb "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/infrastructure/repositories"
	"github.com/cascade-defensive-pistol/match-engine/app/shared/sharedtypes"
	"github.com/cascade-defensive-pistol/match-engine/internal/results"
)

// Failure reason codes shared by the registration operations.
const (
	ReasonTournamentClosed     = "TOURNAMENT_CLOSED"
	ReasonDivisionNotAllowed   = "DIVISION_NOT_ALLOWED"
	ReasonAlreadyRegistered    = "ALREADY_REGISTERED"
	ReasonSquadClosed          = "SQUAD_CLOSED"
	ReasonInvalidCategory      = "INVALID_CATEGORY"
	ReasonNotOwner             = "NOT_OWNER"
	ReasonTournamentLocked     = "TOURNAMENT_LOCKED"
	ReasonTargetFull           = "TARGET_FULL"
	ReasonTargetClosed         = "TARGET_CLOSED"
	ReasonCapacityBelowCurrent = "CAPACITY_BELOW_CURRENT"
	ReasonInvalidClass         = "INVALID_CLASSIFICATION"
	ReasonNotRegistered        = "NOT_REGISTERED"
	ReasonAlreadyCheckedIn     = "ALREADY_CHECKED_IN"
	ReasonNotFound             = "NOT_FOUND"
)

// Register grants the shooter a squad slot, or a waitlist place when the
// squad is full. The squad row is locked for the whole decision, so two
// concurrent registrations can never both take the last slot.
func (s *RegistrationService) Register(ctx context.Context, payload registrationevents.RegistrationRequestedPayloadV1) (RegisterResult, error) {
	return withTelemetry(s, ctx, "Register", func(ctx context.Context) (RegisterResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (RegisterResult, error) {
			failure := func(reason string) RegisterResult {
				if reason == ReasonSquadClosed || reason == ReasonTargetFull {
					s.metrics.RecordCapacityRejection(ctx, payload.SquadID.String())
				}
				return results.Failure[RegisterSuccess](registrationevents.RegistrationFailedPayloadV1{
					TournamentID: payload.TournamentID,
					ShooterID:    payload.ShooterID,
					SquadID:      payload.SquadID,
					Reason:       reason,
				})
			}

			tournament, err := s.repo.GetTournament(ctx, db, payload.TournamentID)
			if err != nil {
				if errors.Is(err, registrationdb.ErrTournamentNotFound) {
					return failure(ReasonNotFound), nil
				}
				return RegisterResult{}, err
			}

			if !registrationdomain.RegistrationWindowOpen(tournament.Status, tournament.RegistrationOpensAt, tournament.RegistrationClosesAt, s.now()) {
				return failure(ReasonTournamentClosed), nil
			}
			if !registrationdomain.DivisionAllowed(tournament.Divisions, payload.Division) {
				return failure(ReasonDivisionNotAllowed), nil
			}
			if !payload.Classification.IsValid() {
				return failure(ReasonInvalidClass), nil
			}
			if !registrationdomain.CategoriesKnown(tournament.CustomCategories, payload.CustomCategories) {
				return failure(ReasonInvalidCategory), nil
			}

			// Fast path only. The partial unique index on the registrations
			// table catches writers that race past this read.
			if _, err := s.repo.FindActiveByShooter(ctx, db, payload.TournamentID, payload.ShooterID); err == nil {
				return failure(ReasonAlreadyRegistered), nil
			} else if !errors.Is(err, registrationdb.ErrRegistrationNotFound) {
				return RegisterResult{}, err
			}

			squad, err := s.repo.GetSquadForUpdate(ctx, db, payload.SquadID)
			if err != nil {
				if errors.Is(err, registrationdb.ErrSquadNotFound) {
					return failure(ReasonNotFound), nil
				}
				return RegisterResult{}, err
			}
			if squad.TournamentID != payload.TournamentID {
				return failure(ReasonNotFound), nil
			}
			if squad.Status == registrationdomain.SquadClosed {
				return failure(ReasonSquadClosed), nil
			}

			registration := &registrationdb.Registration{
				ID:               sharedtypes.RegistrationID(uuid.New()),
				TournamentID:     payload.TournamentID,
				ShooterID:        payload.ShooterID,
				UserID:           payload.UserID,
				SquadID:          payload.SquadID,
				Division:         payload.Division,
				Classification:   payload.Classification,
				CustomCategories: payload.CustomCategories,
				PaymentStatus:    registrationdomain.PaymentPending,
				RegisteredAt:     payload.RequestedAt,
			}

			if squad.HasSpareCapacity() {
				registration.Status = registrationdomain.StatusRegistered
				if err := s.repo.CreateRegistration(ctx, db, registration); err != nil {
					if errors.Is(err, registrationdb.ErrDuplicateRegistration) {
						return failure(ReasonAlreadyRegistered), nil
					}
					return RegisterResult{}, err
				}

				squad.CurrentShooters++
				squad.Status = registrationdomain.DeriveSquadStatus(squad.CurrentShooters, squad.MaxShooters, squad.ManuallyClosed)
				if err := s.repo.UpdateSquad(ctx, db, squad); err != nil {
					return RegisterResult{}, err
				}

				return results.Success[RegisterSuccess, registrationevents.RegistrationFailedPayloadV1](RegisterSuccess{
					Registered: &registrationevents.ShooterRegisteredPayloadV1{
						RegistrationID: registration.ID,
						TournamentID:   registration.TournamentID,
						ShooterID:      registration.ShooterID,
						SquadID:        registration.SquadID,
						Status:         registration.Status,
					},
				}), nil
			}

			// Full squad: join the waitlist. No capacity change.
			registration.Status = registrationdomain.StatusWaitlist
			if err := s.repo.CreateRegistration(ctx, db, registration); err != nil {
				if errors.Is(err, registrationdb.ErrDuplicateRegistration) {
					return failure(ReasonAlreadyRegistered), nil
				}
				return RegisterResult{}, err
			}

			waitlist, err := s.repo.FindWaitlisted(ctx, db, payload.SquadID)
			if err != nil {
				return RegisterResult{}, err
			}

			return results.Success[RegisterSuccess, registrationevents.RegistrationFailedPayloadV1](RegisterSuccess{
				Waitlisted: &registrationevents.ShooterWaitlistedPayloadV1{
					RegistrationID: registration.ID,
					TournamentID:   registration.TournamentID,
					ShooterID:      registration.ShooterID,
					SquadID:        registration.SquadID,
					Position:       len(waitlist),
				},
			}), nil
		})
	})
}
