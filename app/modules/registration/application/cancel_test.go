package registrationservice

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	registrationdomain "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/domain"
	registrationevents "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/events"
	"github.com/cascade-defensive-pistol/match-engine/app/shared/sharedtypes"
)

func TestRegistrationService_Cancel(t *testing.T) {
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

	t.Run("frees the slot and promotes FIFO", func(t *testing.T) {
		f := newFixture(1)
		svc := newRegTestService(f.repo)

		holder := register(t, svc, f, "A100001", testNow)
		waitA := register(t, svc, f, "A100002", testNow.Add(time.Minute))
		waitB := register(t, svc, f, "A100003", testNow.Add(2*time.Minute))

		result, err := svc.Cancel(ctx, registrationevents.CancellationRequestedPayloadV1{
			RegistrationID: holder,
			UserID:         "user-A100001",
		})
		require.NoError(t, err)
		require.True(t, result.IsSuccess())

		// Earliest waitlisted shooter is promoted, not the later one.
		require.Len(t, result.Success.Promoted, 1)
		assert.Equal(t, waitA, result.Success.Promoted[0].RegistrationID)

		assert.Equal(t, registrationdomain.StatusRegistered, f.repo.Registrations[waitA].Status)
		assert.Equal(t, registrationdomain.StatusWaitlist, f.repo.Registrations[waitB].Status)
		assert.Equal(t, registrationdomain.StatusCancelled, f.repo.Registrations[holder].Status)

		squad := f.repo.Squads[f.squadID]
		assert.Equal(t, 1, squad.CurrentShooters)
		assert.Equal(t, registrationdomain.SquadFull, squad.Status)
	})

	t.Run("cancelling a waitlist place leaves capacity untouched", func(t *testing.T) {
		f := newFixture(1)
		svc := newRegTestService(f.repo)

		register(t, svc, f, "A100001", testNow)
		waitlisted := register(t, svc, f, "A100002", testNow.Add(time.Minute))

		result, err := svc.Cancel(ctx, registrationevents.CancellationRequestedPayloadV1{
			RegistrationID: waitlisted,
			UserID:         "user-A100002",
		})
		require.NoError(t, err)
		require.True(t, result.IsSuccess())
		assert.Empty(t, result.Success.Promoted)
		assert.Equal(t, 1, f.repo.Squads[f.squadID].CurrentShooters)
	})

	t.Run("rejects a requester who is not the registrant", func(t *testing.T) {
		f := newFixture(10)
		svc := newRegTestService(f.repo)

		id := register(t, svc, f, "A100001", testNow)

		result, err := svc.Cancel(ctx, registrationevents.CancellationRequestedPayloadV1{
			RegistrationID: id,
			UserID:         "someone-else",
		})
		require.NoError(t, err)
		require.True(t, result.IsFailure())
		assert.Equal(t, ReasonNotOwner, result.Failure.Reason)
		assert.Equal(t, registrationdomain.StatusRegistered, f.repo.Registrations[id].Status)
	})

	t.Run("rejects cancellation once the match is underway", func(t *testing.T) {
		f := newFixture(10)
		svc := newRegTestService(f.repo)

		id := register(t, svc, f, "A100001", testNow)
		f.repo.Tournaments[f.tournamentID].Status = registrationdomain.TournamentActive

		result, err := svc.Cancel(ctx, registrationevents.CancellationRequestedPayloadV1{
			RegistrationID: id,
			UserID:         "user-A100001",
		})
		require.NoError(t, err)
		require.True(t, result.IsFailure())
		assert.Equal(t, ReasonTournamentLocked, result.Failure.Reason)
	})

	t.Run("rejects double cancellation", func(t *testing.T) {
		f := newFixture(10)
		svc := newRegTestService(f.repo)

		id := register(t, svc, f, "A100001", testNow)

		_, err := svc.Cancel(ctx, registrationevents.CancellationRequestedPayloadV1{
			RegistrationID: id,
			UserID:         "user-A100001",
		})
		require.NoError(t, err)

		result, err := svc.Cancel(ctx, registrationevents.CancellationRequestedPayloadV1{
			RegistrationID: id,
			UserID:         "user-A100001",
		})
		require.NoError(t, err)
		require.True(t, result.IsFailure())
		assert.Equal(t, ReasonNotRegistered, result.Failure.Reason)
	})
}
