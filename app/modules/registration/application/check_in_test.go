package registrationservice

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	registrationdomain "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/domain"
	registrationevents "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/events"
	"github.com/cascade-defensive-pistol/match-engine/app/shared/sharedtypes"
)

func TestRegistrationService_CheckIn(t *testing.T) {
	ctx := context.Background()
	matchDay := time.Date(2026, 4, 18, 7, 30, 0, 0, time.UTC)

	register := func(t *testing.T, svc *RegistrationService, f *fixture, shooter sharedtypes.ShooterID, at time.Time) sharedtypes.RegistrationID {
		t.Helper()
		payload := f.request(shooter)
		payload.RequestedAt = at
		result, err := svc.Register(ctx, payload)
		require.NoError(t, err)
		require.True(t, result.IsSuccess())
		if result.Success.Registered != nil {
			return result.Success.Registered.RegistrationID
		}
		return result.Success.Waitlisted.RegistrationID
	}

	t.Run("marks the shooter present", func(t *testing.T) {
		f := newFixture(10)
		svc := newRegTestService(f.repo)

		id := register(t, svc, f, "A100001", testNow)

		result, err := svc.CheckIn(ctx, registrationevents.CheckInRequestedPayloadV1{
			RegistrationID: id,
			CheckedInAt:    matchDay,
		})
		require.NoError(t, err)
		require.True(t, result.IsSuccess())
		assert.Equal(t, sharedtypes.Division("SSP"), result.Success.Division)

		stored := f.repo.Registrations[id]
		assert.Equal(t, registrationdomain.StatusCheckedIn, stored.Status)
		require.NotNil(t, stored.CheckedInAt)
		assert.True(t, stored.CheckedInAt.Equal(matchDay))
	})

	t.Run("equipment check overrides division and classification", func(t *testing.T) {
		f := newFixture(10)
		svc := newRegTestService(f.repo)

		id := register(t, svc, f, "A100001", testNow)

		division := sharedtypes.Division("ESP")
		classification := sharedtypes.Classification("SS")
		result, err := svc.CheckIn(ctx, registrationevents.CheckInRequestedPayloadV1{
			RegistrationID:       id,
			VerifyDivision:       &division,
			VerifyClassification: &classification,
			CheckedInAt:          matchDay,
		})
		require.NoError(t, err)
		require.True(t, result.IsSuccess())
		assert.Equal(t, division, result.Success.Division)
		assert.Equal(t, classification, result.Success.Classification)

		stored := f.repo.Registrations[id]
		assert.Equal(t, division, stored.Division)
		assert.Equal(t, classification, stored.Classification)
	})

	t.Run("rejects an unrecognized verified division", func(t *testing.T) {
		f := newFixture(10)
		svc := newRegTestService(f.repo)

		id := register(t, svc, f, "A100001", testNow)

		division := sharedtypes.Division("RACE-GUN")
		result, err := svc.CheckIn(ctx, registrationevents.CheckInRequestedPayloadV1{
			RegistrationID: id,
			VerifyDivision: &division,
			CheckedInAt:    matchDay,
		})
		require.NoError(t, err)
		require.True(t, result.IsFailure())
		assert.Equal(t, ReasonDivisionNotAllowed, result.Failure.Reason)
		assert.Equal(t, registrationdomain.StatusRegistered, f.repo.Registrations[id].Status)
	})

	t.Run("rejects a second check-in", func(t *testing.T) {
		f := newFixture(10)
		svc := newRegTestService(f.repo)

		id := register(t, svc, f, "A100001", testNow)

		_, err := svc.CheckIn(ctx, registrationevents.CheckInRequestedPayloadV1{
			RegistrationID: id,
			CheckedInAt:    matchDay,
		})
		require.NoError(t, err)

		result, err := svc.CheckIn(ctx, registrationevents.CheckInRequestedPayloadV1{
			RegistrationID: id,
			CheckedInAt:    matchDay.Add(time.Minute),
		})
		require.NoError(t, err)
		require.True(t, result.IsFailure())
		assert.Equal(t, ReasonAlreadyCheckedIn, result.Failure.Reason)
	})

	t.Run("waitlisted shooters cannot check in", func(t *testing.T) {
		f := newFixture(1)
		svc := newRegTestService(f.repo)

		register(t, svc, f, "A100001", testNow)
		waitlisted := register(t, svc, f, "A100002", testNow.Add(time.Minute))

		result, err := svc.CheckIn(ctx, registrationevents.CheckInRequestedPayloadV1{
			RegistrationID: waitlisted,
			CheckedInAt:    matchDay,
		})
		require.NoError(t, err)
		require.True(t, result.IsFailure())
		assert.Equal(t, ReasonNotRegistered, result.Failure.Reason)
	})

	t.Run("unknown registration fails with NOT_FOUND", func(t *testing.T) {
		f := newFixture(10)
		svc := newRegTestService(f.repo)

		result, err := svc.CheckIn(ctx, registrationevents.CheckInRequestedPayloadV1{
			RegistrationID: sharedtypes.RegistrationID(uuid.New()),
			CheckedInAt:    matchDay,
		})
		require.NoError(t, err)
		require.True(t, result.IsFailure())
		assert.Equal(t, ReasonNotFound, result.Failure.Reason)
	})
}
