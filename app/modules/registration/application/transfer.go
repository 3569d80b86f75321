package registrationservice

import (
	"bytes"
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

// Transfer atomically moves a registered shooter to another squad: the old
// slot is freed (with waitlist promotion) and the new slot taken in one
// transaction. Both squad rows are locked in ascending id order so two
// opposing transfers cannot deadlock.
func (s *RegistrationService) Transfer(ctx context.Context, payload registrationevents.TransferRequestedPayloadV1) (TransferResult, error) {
	return withTelemetry(s, ctx, "Transfer", func(ctx context.Context) (TransferResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (TransferResult, error) {
			failure := func(reason string) TransferResult {
				return results.Failure[registrationevents.ShooterTransferredPayloadV1](registrationevents.TransferFailedPayloadV1{
					RegistrationID: payload.RegistrationID,
					NewSquadID:     payload.NewSquadID,
					Reason:         reason,
				})
			}

			registration, err := s.repo.GetRegistration(ctx, db, payload.RegistrationID)
			if err != nil {
				if errors.Is(err, registrationdb.ErrRegistrationNotFound) {
					return failure(ReasonNotFound), nil
				}
				return TransferResult{}, err
			}
			if registration.UserID != payload.UserID {
				return failure(ReasonNotOwner), nil
			}
			if registration.SquadID == payload.NewSquadID {
				return failure(ReasonAlreadyRegistered), nil
			}

			tournament, err := s.repo.GetTournament(ctx, db, registration.TournamentID)
			if err != nil {
				return TransferResult{}, err
			}
			if registrationdomain.Locked(tournament.Status) {
				return failure(ReasonTournamentLocked), nil
			}
			if !registrationdomain.CanTransfer(registration.Status) {
				return failure(ReasonNotRegistered), nil
			}

			source, target, err := s.lockSquadPair(ctx, db, registration.SquadID, payload.NewSquadID)
			if err != nil {
				if errors.Is(err, registrationdb.ErrSquadNotFound) {
					return failure(ReasonNotFound), nil
				}
				return TransferResult{}, err
			}
			if target.TournamentID != registration.TournamentID {
				return failure(ReasonNotFound), nil
			}
			if target.Status == registrationdomain.SquadClosed {
				return failure(ReasonTargetClosed), nil
			}
			if !target.HasSpareCapacity() {
				return failure(ReasonTargetFull), nil
			}

			// Take the new slot first; with both rows locked the order is
			// unobservable, and a failure before commit rolls everything back.
			registration.SquadID = target.ID
			if err := s.repo.UpdateRegistration(ctx, db, registration); err != nil {
				return TransferResult{}, err
			}

			target.CurrentShooters++
			target.Status = registrationdomain.DeriveSquadStatus(target.CurrentShooters, target.MaxShooters, target.ManuallyClosed)
			if err := s.repo.UpdateSquad(ctx, db, target); err != nil {
				return TransferResult{}, err
			}

			source.CurrentShooters--
			source.Status = registrationdomain.DeriveSquadStatus(source.CurrentShooters, source.MaxShooters, source.ManuallyClosed)
			promoted, err := s.promoteWaitlisted(ctx, db, source)
			if err != nil {
				return TransferResult{}, err
			}
			if err := s.repo.UpdateSquad(ctx, db, source); err != nil {
				return TransferResult{}, err
			}

			return results.Success[registrationevents.ShooterTransferredPayloadV1, registrationevents.TransferFailedPayloadV1](registrationevents.ShooterTransferredPayloadV1{
				RegistrationID: registration.ID,
				TournamentID:   registration.TournamentID,
				FromSquadID:    source.ID,
				ToSquadID:      target.ID,
				Promoted:       promoted,
			}), nil
		})
	})
}

// lockSquadPair locks two squad rows in ascending id order and returns them
// as (source, target).
func (s *RegistrationService) lockSquadPair(ctx context.Context, db bun.IDB, sourceID, targetID sharedtypes.SquadID) (*registrationdb.Squad, *registrationdb.Squad, error) {
	first, second := sourceID, targetID
	if squadIDLess(targetID, sourceID) {
		first, second = targetID, sourceID
	}

	firstSquad, err := s.repo.GetSquadForUpdate(ctx, db, first)
	if err != nil {
		return nil, nil, err
	}
	secondSquad, err := s.repo.GetSquadForUpdate(ctx, db, second)
	if err != nil {
		return nil, nil, err
	}

	if firstSquad.ID == sourceID {
		return firstSquad, secondSquad, nil
	}
	return secondSquad, firstSquad, nil
}

func squadIDLess(a, b sharedtypes.SquadID) bool {
	ua, ub := uuid.UUID(a), uuid.UUID(b)
	return bytes.Compare(ua[:], ub[:]) < 0
}
