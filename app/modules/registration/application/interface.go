package registrationservice

import (
	"context"

	registrationevents "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/events"
	registrationdb "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/infrastructure/repositories"
	"github.com/cascade-defensive-pistol/match-engine/app/shared/sharedtypes"
	"github.com/cascade-defensive-pistol/match-engine/internal/results"
)

// RegisterSuccess is a granted slot or waitlist place; exactly one field is set.
type RegisterSuccess struct {
	Registered *registrationevents.ShooterRegisteredPayloadV1
	Waitlisted *registrationevents.ShooterWaitlistedPayloadV1
}

// RegisterResult is the outcome of a registration request.
type RegisterResult = results.OperationResult[RegisterSuccess, registrationevents.RegistrationFailedPayloadV1]

// CancelResult is the outcome of a cancellation request.
type CancelResult = results.OperationResult[registrationevents.RegistrationCancelledPayloadV1, registrationevents.CancellationFailedPayloadV1]

// TransferResult is the outcome of a squad transfer request.
type TransferResult = results.OperationResult[registrationevents.ShooterTransferredPayloadV1, registrationevents.TransferFailedPayloadV1]

// CheckInResult is the outcome of a check-in request.
type CheckInResult = results.OperationResult[registrationevents.ShooterCheckedInPayloadV1, registrationevents.CheckInFailedPayloadV1]

// SetCapacityResult is the outcome of a squad resize request.
type SetCapacityResult = results.OperationResult[registrationevents.SquadCapacityChangedPayloadV1, registrationevents.SquadCapacityChangeFailedPayloadV1]

// SquadStatusResult is the outcome of a manual squad open/close request.
type SquadStatusResult = results.OperationResult[registrationevents.SquadStatusChangedPayloadV1, registrationevents.SquadCapacityChangeFailedPayloadV1]

// Service defines the interface for the RegistrationService.
type Service interface {
	// Register grants a squad slot, or a waitlist place when the squad is
	// full. The capacity check-and-increment is atomic per squad.
	Register(ctx context.Context, payload registrationevents.RegistrationRequestedPayloadV1) (RegisterResult, error)

	// Cancel releases a registration; a freed registered slot triggers
	// waitlist promotion inside the same transaction.
	Cancel(ctx context.Context, payload registrationevents.CancellationRequestedPayloadV1) (CancelResult, error)

	// Transfer atomically moves a registered shooter to another squad,
	// locking both squads in deterministic order.
	Transfer(ctx context.Context, payload registrationevents.TransferRequestedPayloadV1) (TransferResult, error)

	// CheckIn marks a registered shooter as present, optionally correcting
	// division or classification against verified equipment.
	CheckIn(ctx context.Context, payload registrationevents.CheckInRequestedPayloadV1) (CheckInResult, error)

	// SetCapacity resizes a squad; growth promotes from the waitlist.
	SetCapacity(ctx context.Context, payload registrationevents.SquadCapacityChangeRequestedPayloadV1) (SetCapacityResult, error)

	// CloseSquad manually closes a squad to new registrations.
	CloseSquad(ctx context.Context, payload registrationevents.SquadCloseRequestedPayloadV1) (SquadStatusResult, error)

	// OpenSquad reopens a manually closed squad; reopening with spare
	// capacity promotes from the waitlist.
	OpenSquad(ctx context.Context, payload registrationevents.SquadOpenRequestedPayloadV1) (SquadStatusResult, error)

	// GetRegistration returns one registration by id.
	GetRegistration(ctx context.Context, id sharedtypes.RegistrationID) (*registrationdb.Registration, error)

	// ListSquads returns the tournament's squads with live occupancy.
	ListSquads(ctx context.Context, tournamentID sharedtypes.TournamentID) ([]registrationdb.Squad, error)

	// ListRegistrations returns every registration in the tournament.
	ListRegistrations(ctx context.Context, tournamentID sharedtypes.TournamentID) ([]registrationdb.Registration, error)
}
