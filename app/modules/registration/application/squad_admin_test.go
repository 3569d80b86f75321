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

func TestRegistrationService_SetCapacity(t *testing.T) {
	ctx := context.Background()

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

	t.Run("growing promotes the waitlist FIFO", func(t *testing.T) {
		f := newFixture(1)
		svc := newRegTestService(f.repo)

		register(t, svc, f, "A100001", testNow)
		waitA := register(t, svc, f, "A100002", testNow.Add(time.Minute))
		waitB := register(t, svc, f, "A100003", testNow.Add(2*time.Minute))
		waitC := register(t, svc, f, "A100004", testNow.Add(3*time.Minute))

		result, err := svc.SetCapacity(ctx, registrationevents.SquadCapacityChangeRequestedPayloadV1{
			SquadID:     f.squadID,
			MaxShooters: 3,
			RequestedBy: "match-director",
		})
		require.NoError(t, err)
		require.True(t, result.IsSuccess())
		assert.Equal(t, 3, result.Success.MaxShooters)

		// Two new slots, two promotions, in waitlist order.
		require.Len(t, result.Success.Promoted, 2)
		assert.Equal(t, waitA, result.Success.Promoted[0].RegistrationID)
		assert.Equal(t, waitB, result.Success.Promoted[1].RegistrationID)
		assert.Equal(t, registrationdomain.StatusWaitlist, f.repo.Registrations[waitC].Status)

		squad := f.repo.Squads[f.squadID]
		assert.Equal(t, 3, squad.CurrentShooters)
		assert.Equal(t, registrationdomain.SquadFull, squad.Status)
	})

	t.Run("rejects shrinking below current occupancy", func(t *testing.T) {
		f := newFixture(3)
		svc := newRegTestService(f.repo)

		register(t, svc, f, "A100001", testNow)
		register(t, svc, f, "A100002", testNow.Add(time.Minute))

		result, err := svc.SetCapacity(ctx, registrationevents.SquadCapacityChangeRequestedPayloadV1{
			SquadID:     f.squadID,
			MaxShooters: 1,
			RequestedBy: "match-director",
		})
		require.NoError(t, err)
		require.True(t, result.IsFailure())
		assert.Equal(t, ReasonCapacityBelowCurrent, result.Failure.Reason)
		assert.Equal(t, 3, f.repo.Squads[f.squadID].MaxShooters)
	})

	t.Run("shrinking to exactly current occupancy flips the squad full", func(t *testing.T) {
		f := newFixture(5)
		svc := newRegTestService(f.repo)

		register(t, svc, f, "A100001", testNow)
		register(t, svc, f, "A100002", testNow.Add(time.Minute))

		result, err := svc.SetCapacity(ctx, registrationevents.SquadCapacityChangeRequestedPayloadV1{
			SquadID:     f.squadID,
			MaxShooters: 2,
			RequestedBy: "match-director",
		})
		require.NoError(t, err)
		require.True(t, result.IsSuccess())
		assert.Empty(t, result.Success.Promoted)
		assert.Equal(t, registrationdomain.SquadFull, f.repo.Squads[f.squadID].Status)
	})

	t.Run("unknown squad fails with NOT_FOUND", func(t *testing.T) {
		f := newFixture(5)
		svc := newRegTestService(f.repo)

		result, err := svc.SetCapacity(ctx, registrationevents.SquadCapacityChangeRequestedPayloadV1{
			SquadID:     sharedtypes.SquadID(uuid.New()),
			MaxShooters: 8,
			RequestedBy: "match-director",
		})
		require.NoError(t, err)
		require.True(t, result.IsFailure())
		assert.Equal(t, ReasonNotFound, result.Failure.Reason)
	})
}

func TestRegistrationService_CloseAndOpenSquad(t *testing.T) {
	ctx := context.Background()

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

	t.Run("closing blocks new registrations, existing ones stay", func(t *testing.T) {
		f := newFixture(10)
		svc := newRegTestService(f.repo)

		id := register(t, svc, f, "A100001", testNow)

		result, err := svc.CloseSquad(ctx, registrationevents.SquadCloseRequestedPayloadV1{
			SquadID:     f.squadID,
			RequestedBy: "match-director",
		})
		require.NoError(t, err)
		require.True(t, result.IsSuccess())
		assert.Equal(t, registrationdomain.SquadClosed, result.Success.Status)
		assert.Equal(t, registrationdomain.StatusRegistered, f.repo.Registrations[id].Status)

		reject, err := svc.Register(ctx, f.request("A100002"))
		require.NoError(t, err)
		require.True(t, reject.IsFailure())
		assert.Equal(t, ReasonSquadClosed, reject.Failure.Reason)
	})

	t.Run("reopening with spare capacity promotes the waitlist", func(t *testing.T) {
		f := newFixture(1)
		svc := newRegTestService(f.repo)

		holder := register(t, svc, f, "A100001", testNow)
		waitlisted := register(t, svc, f, "A100002", testNow.Add(time.Minute))

		// Cancelling while closed frees the slot but promotes nobody past the
		// closed gate; reopening does.
		_, err := svc.CloseSquad(ctx, registrationevents.SquadCloseRequestedPayloadV1{
			SquadID:     f.squadID,
			RequestedBy: "match-director",
		})
		require.NoError(t, err)

		f.repo.Registrations[holder].Status = registrationdomain.StatusCancelled
		f.repo.Squads[f.squadID].CurrentShooters = 0

		result, err := svc.OpenSquad(ctx, registrationevents.SquadOpenRequestedPayloadV1{
			SquadID:     f.squadID,
			RequestedBy: "match-director",
		})
		require.NoError(t, err)
		require.True(t, result.IsSuccess())

		require.Len(t, result.Success.Promoted, 1)
		assert.Equal(t, waitlisted, result.Success.Promoted[0].RegistrationID)
		assert.Equal(t, registrationdomain.StatusRegistered, f.repo.Registrations[waitlisted].Status)
		assert.Equal(t, registrationdomain.SquadFull, f.repo.Squads[f.squadID].Status)
	})
}
