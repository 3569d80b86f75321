package registrationservice

import (
	"context"
	"errors"

	"github.com/uptrace/bun"

	registrationdomain "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/domain"
	registrationevents "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/events"
	registrationdb "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/infrastructure/repositories"
	"github.com/cascade-defensive-pistol/match-engine/internal/results"
)

// Cancel releases a registration. A freed registered slot decrements the
// squad counter and promotes from the waitlist inside the same transaction.
func (s *RegistrationService) Cancel(ctx context.Context, payload registrationevents.CancellationRequestedPayloadV1) (CancelResult, error) {
	return withTelemetry(s, ctx, "Cancel", func(ctx context.Context) (CancelResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (CancelResult, error) {
			failure := func(reason string) CancelResult {
				return results.Failure[registrationevents.RegistrationCancelledPayloadV1](registrationevents.CancellationFailedPayloadV1{
					RegistrationID: payload.RegistrationID,
					Reason:         reason,
				})
			}

			registration, err := s.repo.GetRegistration(ctx, db, payload.RegistrationID)
			if err != nil {
				if errors.Is(err, registrationdb.ErrRegistrationNotFound) {
					return failure(ReasonNotFound), nil
				}
				return CancelResult{}, err
			}

			if registration.UserID != payload.UserID {
				return failure(ReasonNotOwner), nil
			}

			tournament, err := s.repo.GetTournament(ctx, db, registration.TournamentID)
			if err != nil {
				return CancelResult{}, err
			}
			if registrationdomain.Locked(tournament.Status) {
				return failure(ReasonTournamentLocked), nil
			}
			if !registrationdomain.CanCancel(registration.Status) {
				return failure(ReasonNotRegistered), nil
			}

			heldSlot := registration.Status == registrationdomain.StatusRegistered ||
				registration.Status == registrationdomain.StatusCheckedIn

			registration.Status = registrationdomain.StatusCancelled
			if err := s.repo.UpdateRegistration(ctx, db, registration); err != nil {
				return CancelResult{}, err
			}

			var promoted []registrationevents.ShooterPromotedPayloadV1
			if heldSlot {
				squad, err := s.repo.GetSquadForUpdate(ctx, db, registration.SquadID)
				if err != nil {
					return CancelResult{}, err
				}

				squad.CurrentShooters--
				squad.Status = registrationdomain.DeriveSquadStatus(squad.CurrentShooters, squad.MaxShooters, squad.ManuallyClosed)

				promoted, err = s.promoteWaitlisted(ctx, db, squad)
				if err != nil {
					return CancelResult{}, err
				}
				if err := s.repo.UpdateSquad(ctx, db, squad); err != nil {
					return CancelResult{}, err
				}
			}

			return results.Success[registrationevents.RegistrationCancelledPayloadV1, registrationevents.CancellationFailedPayloadV1](registrationevents.RegistrationCancelledPayloadV1{
				RegistrationID: registration.ID,
				TournamentID:   registration.TournamentID,
				SquadID:        registration.SquadID,
				Promoted:       promoted,
			}), nil
		})
	})
}
