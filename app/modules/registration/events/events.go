package registrationevents

import (
	"time"

	registrationdomain "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/domain"
	"github.com/cascade-defensive-pistol/match-engine/app/shared/sharedtypes"
)

// RegistrationStreamName is the JetStream stream carrying all registration subjects.
const RegistrationStreamName = "registration"

const (
	RegistrationRequestedV1 = "registration.shooter.requested.v1"
	ShooterRegisteredV1     = "registration.shooter.registered.v1"
	ShooterWaitlistedV1     = "registration.shooter.waitlisted.v1"
	RegistrationFailedV1    = "registration.shooter.failed.v1"

	CancellationRequestedV1 = "registration.cancellation.requested.v1"
	RegistrationCancelledV1 = "registration.cancellation.completed.v1"
	CancellationFailedV1    = "registration.cancellation.failed.v1"

	TransferRequestedV1  = "registration.transfer.requested.v1"
	ShooterTransferredV1 = "registration.transfer.completed.v1"
	TransferFailedV1     = "registration.transfer.failed.v1"

	CheckInRequestedV1 = "registration.checkin.requested.v1"
	ShooterCheckedInV1 = "registration.checkin.completed.v1"
	CheckInFailedV1    = "registration.checkin.failed.v1"

	SquadCapacityChangeRequestedV1 = "registration.squad.capacity.requested.v1"
	SquadCapacityChangedV1         = "registration.squad.capacity.changed.v1"
	SquadCapacityChangeFailedV1    = "registration.squad.capacity.failed.v1"

	SquadCloseRequestedV1 = "registration.squad.close.requested.v1"
	SquadOpenRequestedV1  = "registration.squad.open.requested.v1"
	SquadStatusChangedV1  = "registration.squad.status.changed.v1"

	ShooterPromotedV1 = "registration.waitlist.promoted.v1"
)

// RegistrationRequestedPayloadV1 asks for a slot (or a waitlist place) on a squad.
type RegistrationRequestedPayloadV1 struct {
	TournamentID     sharedtypes.TournamentID   `json:"tournament_id"`
	ShooterID        sharedtypes.ShooterID      `json:"shooter_id"`
	UserID           sharedtypes.UserID         `json:"user_id"`
	SquadID          sharedtypes.SquadID        `json:"squad_id"`
	Division         sharedtypes.Division       `json:"division"`
	Classification   sharedtypes.Classification `json:"classification"`
	CustomCategories []string                   `json:"custom_categories,omitempty"`
	RequestedAt      time.Time                  `json:"requested_at"`
}

// ShooterRegisteredPayloadV1 announces a granted squad slot.
type ShooterRegisteredPayloadV1 struct {
	RegistrationID sharedtypes.RegistrationID            `json:"registration_id"`
	TournamentID   sharedtypes.TournamentID              `json:"tournament_id"`
	ShooterID      sharedtypes.ShooterID                 `json:"shooter_id"`
	SquadID        sharedtypes.SquadID                   `json:"squad_id"`
	Status         registrationdomain.RegistrationStatus `json:"status"`
}

// ShooterWaitlistedPayloadV1 announces a waitlist place on a full squad.
type ShooterWaitlistedPayloadV1 struct {
	RegistrationID sharedtypes.RegistrationID `json:"registration_id"`
	TournamentID   sharedtypes.TournamentID   `json:"tournament_id"`
	ShooterID      sharedtypes.ShooterID      `json:"shooter_id"`
	SquadID        sharedtypes.SquadID        `json:"squad_id"`
	Position       int                        `json:"position"`
}

// RegistrationFailedPayloadV1 reports a rejected registration.
type RegistrationFailedPayloadV1 struct {
	TournamentID sharedtypes.TournamentID `json:"tournament_id"`
	ShooterID    sharedtypes.ShooterID    `json:"shooter_id"`
	SquadID      sharedtypes.SquadID      `json:"squad_id"`
	Reason       string                   `json:"reason"`
}

// CancellationRequestedPayloadV1 asks to cancel a registration.
type CancellationRequestedPayloadV1 struct {
	RegistrationID sharedtypes.RegistrationID `json:"registration_id"`
	UserID         sharedtypes.UserID         `json:"user_id"`
}

// RegistrationCancelledPayloadV1 announces a cancelled registration, carrying
// any waitlist promotions the freed slot triggered.
type RegistrationCancelledPayloadV1 struct {
	RegistrationID sharedtypes.RegistrationID `json:"registration_id"`
	TournamentID   sharedtypes.TournamentID   `json:"tournament_id"`
	SquadID        sharedtypes.SquadID        `json:"squad_id"`
	Promoted       []ShooterPromotedPayloadV1 `json:"promoted,omitempty"`
}

// CancellationFailedPayloadV1 reports a rejected cancellation.
type CancellationFailedPayloadV1 struct {
	RegistrationID sharedtypes.RegistrationID `json:"registration_id"`
	Reason         string                     `json:"reason"`
}

// TransferRequestedPayloadV1 asks to move a registration to another squad.
type TransferRequestedPayloadV1 struct {
	RegistrationID sharedtypes.RegistrationID `json:"registration_id"`
	NewSquadID     sharedtypes.SquadID        `json:"new_squad_id"`
	UserID         sharedtypes.UserID         `json:"user_id"`
}

// ShooterTransferredPayloadV1 announces a completed squad transfer.
type ShooterTransferredPayloadV1 struct {
	RegistrationID sharedtypes.RegistrationID `json:"registration_id"`
	TournamentID   sharedtypes.TournamentID   `json:"tournament_id"`
	FromSquadID    sharedtypes.SquadID        `json:"from_squad_id"`
	ToSquadID      sharedtypes.SquadID        `json:"to_squad_id"`
	Promoted       []ShooterPromotedPayloadV1 `json:"promoted,omitempty"`
}

// TransferFailedPayloadV1 reports a rejected transfer.
type TransferFailedPayloadV1 struct {
	RegistrationID sharedtypes.RegistrationID `json:"registration_id"`
	NewSquadID     sharedtypes.SquadID        `json:"new_squad_id"`
	Reason         string                     `json:"reason"`
}

// CheckInRequestedPayloadV1 checks a shooter in at the door, optionally
// correcting division or classification against verified equipment.
type CheckInRequestedPayloadV1 struct {
	RegistrationID       sharedtypes.RegistrationID  `json:"registration_id"`
	VerifyDivision       *sharedtypes.Division       `json:"verify_division,omitempty"`
	VerifyClassification *sharedtypes.Classification `json:"verify_classification,omitempty"`
	CheckedInAt          time.Time                   `json:"checked_in_at"`
}

// ShooterCheckedInPayloadV1 announces a completed check-in.
type ShooterCheckedInPayloadV1 struct {
	RegistrationID sharedtypes.RegistrationID `json:"registration_id"`
	TournamentID   sharedtypes.TournamentID   `json:"tournament_id"`
	ShooterID      sharedtypes.ShooterID      `json:"shooter_id"`
	Division       sharedtypes.Division       `json:"division"`
	Classification sharedtypes.Classification `json:"classification"`
}

// CheckInFailedPayloadV1 reports a rejected check-in.
type CheckInFailedPayloadV1 struct {
	RegistrationID sharedtypes.RegistrationID `json:"registration_id"`
	Reason         string                     `json:"reason"`
}

// SquadCapacityChangeRequestedPayloadV1 resizes a squad.
type SquadCapacityChangeRequestedPayloadV1 struct {
	SquadID     sharedtypes.SquadID `json:"squad_id"`
	MaxShooters int                 `json:"max_shooters"`
	RequestedBy sharedtypes.UserID  `json:"requested_by"`
}

// SquadCapacityChangedPayloadV1 announces a resize, carrying any waitlist
// promotions the added capacity triggered.
type SquadCapacityChangedPayloadV1 struct {
	SquadID     sharedtypes.SquadID        `json:"squad_id"`
	MaxShooters int                        `json:"max_shooters"`
	Promoted    []ShooterPromotedPayloadV1 `json:"promoted,omitempty"`
}

// SquadCapacityChangeFailedPayloadV1 reports a rejected resize.
type SquadCapacityChangeFailedPayloadV1 struct {
	SquadID sharedtypes.SquadID `json:"squad_id"`
	Reason  string              `json:"reason"`
}

// SquadCloseRequestedPayloadV1 manually closes a squad to new registrations.
type SquadCloseRequestedPayloadV1 struct {
	SquadID     sharedtypes.SquadID `json:"squad_id"`
	RequestedBy sharedtypes.UserID  `json:"requested_by"`
}

// SquadOpenRequestedPayloadV1 reopens a manually closed squad.
type SquadOpenRequestedPayloadV1 struct {
	SquadID     sharedtypes.SquadID `json:"squad_id"`
	RequestedBy sharedtypes.UserID  `json:"requested_by"`
}

// SquadStatusChangedPayloadV1 announces a squad open/close/full transition.
type SquadStatusChangedPayloadV1 struct {
	SquadID  sharedtypes.SquadID            `json:"squad_id"`
	Status   registrationdomain.SquadStatus `json:"status"`
	Promoted []ShooterPromotedPayloadV1     `json:"promoted,omitempty"`
}

// ShooterPromotedPayloadV1 announces a waitlisted shooter taking a freed slot.
type ShooterPromotedPayloadV1 struct {
	RegistrationID sharedtypes.RegistrationID `json:"registration_id"`
	TournamentID   sharedtypes.TournamentID   `json:"tournament_id"`
	ShooterID      sharedtypes.ShooterID      `json:"shooter_id"`
	SquadID        sharedtypes.SquadID        `json:"squad_id"`
}
