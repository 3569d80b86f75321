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
	registrationdb "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/infrastructure/repositories"
	"github.com/cascade-defensive-pistol/match-engine/app/shared/sharedtypes"
)

func TestRegistrationService_Transfer(t *testing.T) {
	ctx := context.Background()

	setup := func(targetMax int) (*fixture, sharedtypes.SquadID) {
		f := newFixture(2)
		targetID := sharedtypes.SquadID(uuid.New())
		f.repo.Squads[targetID] = &registrationdb.Squad{
			ID:           targetID,
			TournamentID: f.tournamentID,
			Name:         "Squad 2",
			TimeSlot:     "PM",
			MaxShooters:  targetMax,
			Status:       registrationdomain.SquadOpen,
		}
		return f, targetID
	}

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

	t.Run("moves the shooter and adjusts both squads", func(t *testing.T) {
		f, targetID := setup(2)
		svc := newRegTestService(f.repo)

		id := register(t, svc, f, "A100001", testNow)

		result, err := svc.Transfer(ctx, registrationevents.TransferRequestedPayloadV1{
			RegistrationID: id,
			NewSquadID:     targetID,
			UserID:         "user-A100001",
		})
		require.NoError(t, err)
		require.True(t, result.IsSuccess())
		assert.Equal(t, f.squadID, result.Success.FromSquadID)
		assert.Equal(t, targetID, result.Success.ToSquadID)

		assert.Equal(t, 0, f.repo.Squads[f.squadID].CurrentShooters)
		assert.Equal(t, 1, f.repo.Squads[targetID].CurrentShooters)
		assert.Equal(t, targetID, f.repo.Registrations[id].SquadID)
	})

	t.Run("freed slot promotes the source waitlist", func(t *testing.T) {
		f, targetID := setup(2)
		svc := newRegTestService(f.repo)

		// Fill the 2-slot source squad, then waitlist a third shooter.
		mover := register(t, svc, f, "A100001", testNow)
		register(t, svc, f, "A100002", testNow.Add(time.Minute))
		waitlisted := register(t, svc, f, "A100003", testNow.Add(2*time.Minute))

		result, err := svc.Transfer(ctx, registrationevents.TransferRequestedPayloadV1{
			RegistrationID: mover,
			NewSquadID:     targetID,
			UserID:         "user-A100001",
		})
		require.NoError(t, err)
		require.True(t, result.IsSuccess())

		require.Len(t, result.Success.Promoted, 1)
		assert.Equal(t, waitlisted, result.Success.Promoted[0].RegistrationID)
		assert.Equal(t, registrationdomain.StatusRegistered, f.repo.Registrations[waitlisted].Status)

		// Source stays full: one left, one promoted in.
		assert.Equal(t, 2, f.repo.Squads[f.squadID].CurrentShooters)
		assert.Equal(t, registrationdomain.SquadFull, f.repo.Squads[f.squadID].Status)
	})

	t.Run("rejects a full target squad", func(t *testing.T) {
		f, targetID := setup(1)
		svc := newRegTestService(f.repo)

		id := register(t, svc, f, "A100001", testNow)
		f.repo.Squads[targetID].CurrentShooters = 1
		f.repo.Squads[targetID].Status = registrationdomain.SquadFull

		result, err := svc.Transfer(ctx, registrationevents.TransferRequestedPayloadV1{
			RegistrationID: id,
			NewSquadID:     targetID,
			UserID:         "user-A100001",
		})
		require.NoError(t, err)
		require.True(t, result.IsFailure())
		assert.Equal(t, ReasonTargetFull, result.Failure.Reason)

		// Nothing moved.
		assert.Equal(t, f.squadID, f.repo.Registrations[id].SquadID)
		assert.Equal(t, 1, f.repo.Squads[f.squadID].CurrentShooters)
	})

	t.Run("rejects a closed target squad", func(t *testing.T) {
		f, targetID := setup(2)
		svc := newRegTestService(f.repo)

		id := register(t, svc, f, "A100001", testNow)
		f.repo.Squads[targetID].Status = registrationdomain.SquadClosed
		f.repo.Squads[targetID].ManuallyClosed = true

		result, err := svc.Transfer(ctx, registrationevents.TransferRequestedPayloadV1{
			RegistrationID: id,
			NewSquadID:     targetID,
			UserID:         "user-A100001",
		})
		require.NoError(t, err)
		require.True(t, result.IsFailure())
		assert.Equal(t, ReasonTargetClosed, result.Failure.Reason)
	})

	t.Run("rejects waitlisted registrations", func(t *testing.T) {
		f, targetID := setup(2)
		svc := newRegTestService(f.repo)

		register(t, svc, f, "A100001", testNow)
		register(t, svc, f, "A100002", testNow.Add(time.Minute))
		waitlisted := register(t, svc, f, "A100003", testNow.Add(2*time.Minute))

		result, err := svc.Transfer(ctx, registrationevents.TransferRequestedPayloadV1{
			RegistrationID: waitlisted,
			NewSquadID:     targetID,
			UserID:         "user-A100003",
		})
		require.NoError(t, err)
		require.True(t, result.IsFailure())
		assert.Equal(t, ReasonNotRegistered, result.Failure.Reason)
	})

	t.Run("rejects transfer to the same squad", func(t *testing.T) {
		f, _ := setup(2)
		svc := newRegTestService(f.repo)

		id := register(t, svc, f, "A100001", testNow)

		result, err := svc.Transfer(ctx, registrationevents.TransferRequestedPayloadV1{
			RegistrationID: id,
			NewSquadID:     f.squadID,
			UserID:         "user-A100001",
		})
		require.NoError(t, err)
		require.True(t, result.IsFailure())
		assert.Equal(t, ReasonAlreadyRegistered, result.Failure.Reason)
	})

	t.Run("rejects once the match is underway", func(t *testing.T) {
		f, targetID := setup(2)
		svc := newRegTestService(f.repo)

		id := register(t, svc, f, "A100001", testNow)
		f.repo.Tournaments[f.tournamentID].Status = registrationdomain.TournamentActive

		result, err := svc.Transfer(ctx, registrationevents.TransferRequestedPayloadV1{
			RegistrationID: id,
			NewSquadID:     targetID,
			UserID:         "user-A100001",
		})
		require.NoError(t, err)
		require.True(t, result.IsFailure())
		assert.Equal(t, ReasonTournamentLocked, result.Failure.Reason)
	})
}
