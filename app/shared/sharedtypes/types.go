package sharedtypes

import "github.com/google/uuid"

// TournamentID identifies a tournament.
type TournamentID uuid.UUID

func (id TournamentID) String() string { return uuid.UUID(id).String() }

// StageID identifies a single course of fire within a tournament.
type StageID uuid.UUID

func (id StageID) String() string { return uuid.UUID(id).String() }

// SquadID identifies a time-slotted squad within a tournament.
type SquadID uuid.UUID

func (id SquadID) String() string { return uuid.UUID(id).String() }

// RegistrationID identifies a shooter's registration in a tournament.
type RegistrationID uuid.UUID

func (id RegistrationID) String() string { return uuid.UUID(id).String() }

// ScoreID identifies a stage score row.
type ScoreID uuid.UUID

func (id ScoreID) String() string { return uuid.UUID(id).String() }

// QueueItemID identifies an offline sync queue item.
type QueueItemID uuid.UUID

func (id QueueItemID) String() string { return uuid.UUID(id).String() }

// NewQueueItemID mints a random queue item id.
func NewQueueItemID() QueueItemID { return QueueItemID(uuid.New()) }

// MatchResultID identifies one shooter's aggregated tournament result row.
type MatchResultID uuid.UUID

func (id MatchResultID) String() string { return uuid.UUID(id).String() }

// NewMatchResultID mints a random result row id.
func NewMatchResultID() MatchResultID { return MatchResultID(uuid.New()) }

// ShooterID is an IDPA membership number.
type ShooterID string

// UserID identifies the account performing an action (shooter, SO, or admin).
type UserID string

// Division is an IDPA equipment division.
type Division string

const (
	DivisionSSP Division = "SSP" // Stock Service Pistol
	DivisionESP Division = "ESP" // Enhanced Service Pistol
	DivisionCDP Division = "CDP" // Custom Defensive Pistol
	DivisionCCP Division = "CCP" // Compact Carry Pistol
	DivisionREV Division = "REV" // Revolver
	DivisionBUG Division = "BUG" // Back-Up Gun
	DivisionPCC Division = "PCC" // Pistol Caliber Carbine
	DivisionCO  Division = "CO"  // Carry Optics
)

// Classification is an IDPA skill classification.
type Classification string

const (
	ClassificationDM Classification = "DM" // Distinguished Master
	ClassificationMA Classification = "MA" // Master
	ClassificationEX Classification = "EX" // Expert
	ClassificationSS Classification = "SS" // Sharpshooter
	ClassificationMM Classification = "MM" // Marksman
	ClassificationNV Classification = "NV" // Novice
	ClassificationUN Classification = "UN" // Unclassified
)

var knownDivisions = map[Division]bool{
	DivisionSSP: true,
	DivisionESP: true,
	DivisionCDP: true,
	DivisionCCP: true,
	DivisionREV: true,
	DivisionBUG: true,
	DivisionPCC: true,
	DivisionCO:  true,
}

var knownClassifications = map[Classification]bool{
	ClassificationDM: true,
	ClassificationMA: true,
	ClassificationEX: true,
	ClassificationSS: true,
	ClassificationMM: true,
	ClassificationNV: true,
	ClassificationUN: true,
}

// IsValid reports whether d is a recognized IDPA division.
func (d Division) IsValid() bool { return knownDivisions[d] }

// IsValid reports whether c is a recognized IDPA classification.
func (c Classification) IsValid() bool { return knownClassifications[c] }
