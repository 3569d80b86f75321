package registrationdb

import (
	"time"

	"github.com/uptrace/bun"

	registrationdomain "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/domain"
	"github.com/cascade-defensive-pistol/match-engine/app/shared/sharedtypes"
)

// Tournament is the registration-facing view of a match: lifecycle status,
// registration window, and what divisions and award categories it accepts.
type Tournament struct {
	bun.BaseModel `bun:"table:tournaments,alias:t"`

	ID                   sharedtypes.TournamentID            `bun:"id,pk,type:uuid"`
	Name                 string                              `bun:"name,notnull"`
	Status               registrationdomain.TournamentStatus `bun:"status,notnull"`
	RegistrationOpensAt  time.Time                           `bun:"registration_opens_at,notnull"`
	RegistrationClosesAt time.Time                           `bun:"registration_closes_at,notnull"`
	Divisions            []sharedtypes.Division              `bun:"divisions,type:jsonb"`
	CustomCategories     []string                            `bun:"custom_categories,type:jsonb"`
	CreatedAt            time.Time                           `bun:"created_at,notnull,default:current_timestamp"`
}

// Squad is the hot-contended row: CurrentShooters and Status change only
// inside SELECT FOR UPDATE transactions in the application layer.
type Squad struct {
	bun.BaseModel `bun:"table:squads,alias:sq"`

	ID              sharedtypes.SquadID            `bun:"id,pk,type:uuid"`
	TournamentID    sharedtypes.TournamentID       `bun:"tournament_id,notnull,type:uuid"`
	Name            string                         `bun:"name,notnull"`
	TimeSlot        string                         `bun:"time_slot"`
	MaxShooters     int                            `bun:"max_shooters,notnull"`
	CurrentShooters int                            `bun:"current_shooters,notnull,default:0"`
	Status          registrationdomain.SquadStatus `bun:"status,notnull"`
	ManuallyClosed  bool                           `bun:"manually_closed,notnull,default:false"`
	AssignedOfficer sharedtypes.UserID             `bun:"assigned_officer"`
}

// HasSpareCapacity reports whether another shooter fits.
func (s *Squad) HasSpareCapacity() bool {
	return s.CurrentShooters < s.MaxShooters
}

// Registration is one shooter's claim on a squad slot.
type Registration struct {
	bun.BaseModel `bun:"table:registrations,alias:r"`

	ID               sharedtypes.RegistrationID            `bun:"id,pk,type:uuid"`
	TournamentID     sharedtypes.TournamentID              `bun:"tournament_id,notnull,type:uuid"`
	ShooterID        sharedtypes.ShooterID                 `bun:"shooter_id,notnull"`
	UserID           sharedtypes.UserID                    `bun:"user_id,notnull"`
	SquadID          sharedtypes.SquadID                   `bun:"squad_id,notnull,type:uuid"`
	Division         sharedtypes.Division                  `bun:"division,notnull"`
	Classification   sharedtypes.Classification            `bun:"classification,notnull"`
	CustomCategories []string                              `bun:"custom_categories,type:jsonb"`
	Status           registrationdomain.RegistrationStatus `bun:"status,notnull"`
	PaymentStatus    registrationdomain.PaymentStatus      `bun:"payment_status,notnull"`
	RegisteredAt     time.Time                             `bun:"registered_at,notnull"`
	CheckedInAt      *time.Time                            `bun:"checked_in_at"`
}
