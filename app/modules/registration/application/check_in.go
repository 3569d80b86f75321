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

// CheckIn marks a registered shooter as present. When the safety officer at
// the door verifies different equipment, the supplied division or
// classification overrides the registered one.
func (s *RegistrationService) CheckIn(ctx context.Context, payload registrationevents.CheckInRequestedPayloadV1) (CheckInResult, error) {
	return withTelemetry(s, ctx, "CheckIn", func(ctx context.Context) (CheckInResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (CheckInResult, error) {
			failure := func(reason string) CheckInResult {
				return results.Failure[registrationevents.ShooterCheckedInPayloadV1](registrationevents.CheckInFailedPayloadV1{
					RegistrationID: payload.RegistrationID,
					Reason:         reason,
				})
			}

			registration, err := s.repo.GetRegistration(ctx, db, payload.RegistrationID)
			if err != nil {
				if errors.Is(err, registrationdb.ErrRegistrationNotFound) {
					return failure(ReasonNotFound), nil
				}
				return CheckInResult{}, err
			}

			if registration.Status == registrationdomain.StatusCheckedIn {
				return failure(ReasonAlreadyCheckedIn), nil
			}
			if !registrationdomain.CanCheckIn(registration.Status) {
				return failure(ReasonNotRegistered), nil
			}

			if payload.VerifyDivision != nil {
				if !payload.VerifyDivision.IsValid() {
					return failure(ReasonDivisionNotAllowed), nil
				}
				registration.Division = *payload.VerifyDivision
			}
			if payload.VerifyClassification != nil {
				if !payload.VerifyClassification.IsValid() {
					return failure(ReasonInvalidClass), nil
				}
				registration.Classification = *payload.VerifyClassification
			}

			registration.Status = registrationdomain.StatusCheckedIn
			checkedInAt := payload.CheckedInAt
			registration.CheckedInAt = &checkedInAt

			if err := s.repo.UpdateRegistration(ctx, db, registration); err != nil {
				return CheckInResult{}, err
			}

			return results.Success[registrationevents.ShooterCheckedInPayloadV1, registrationevents.CheckInFailedPayloadV1](registrationevents.ShooterCheckedInPayloadV1{
				RegistrationID: registration.ID,
				TournamentID:   registration.TournamentID,
				ShooterID:      registration.ShooterID,
				Division:       registration.Division,
				Classification: registration.Classification,
			}), nil
		})
	})
}
