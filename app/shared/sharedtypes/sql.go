package sharedtypes

import (
	"database/sql/driver"

	"github.com/google/uuid"
)

// The uuid-backed ID types are defined types, not aliases, so they need their
// own Scanner/Valuer and text codec methods for bun and JSON payloads.

func scanUUID(src any) (uuid.UUID, error) {
	var u uuid.UUID
	err := u.Scan(src)
	return u, err
}

func (id TournamentID) Value() (driver.Value, error) { return uuid.UUID(id).Value() }
func (id *TournamentID) Scan(src any) error {
	u, err := scanUUID(src)
	*id = TournamentID(u)
	return err
}
func (id TournamentID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id *TournamentID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	*id = TournamentID(u)
	return err
}

func (id StageID) Value() (driver.Value, error) { return uuid.UUID(id).Value() }
func (id *StageID) Scan(src any) error {
	u, err := scanUUID(src)
	*id = StageID(u)
	return err
}
func (id StageID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id *StageID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	*id = StageID(u)
	return err
}

func (id SquadID) Value() (driver.Value, error) { return uuid.UUID(id).Value() }
func (id *SquadID) Scan(src any) error {
	u, err := scanUUID(src)
	*id = SquadID(u)
	return err
}
func (id SquadID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id *SquadID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	*id = SquadID(u)
	return err
}

func (id RegistrationID) Value() (driver.Value, error) { return uuid.UUID(id).Value() }
func (id *RegistrationID) Scan(src any) error {
	u, err := scanUUID(src)
	*id = RegistrationID(u)
	return err
}
func (id RegistrationID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id *RegistrationID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	*id = RegistrationID(u)
	return err
}

func (id ScoreID) Value() (driver.Value, error) { return uuid.UUID(id).Value() }
func (id *ScoreID) Scan(src any) error {
	u, err := scanUUID(src)
	*id = ScoreID(u)
	return err
}
func (id ScoreID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id *ScoreID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	*id = ScoreID(u)
	return err
}

func (id MatchResultID) Value() (driver.Value, error) { return uuid.UUID(id).Value() }
func (id *MatchResultID) Scan(src any) error {
	u, err := scanUUID(src)
	*id = MatchResultID(u)
	return err
}
func (id MatchResultID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id *MatchResultID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	*id = MatchResultID(u)
	return err
}

func (id QueueItemID) Value() (driver.Value, error) { return uuid.UUID(id).Value() }
func (id *QueueItemID) Scan(src any) error {
	u, err := scanUUID(src)
	*id = QueueItemID(u)
	return err
}
func (id QueueItemID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id *QueueItemID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	*id = QueueItemID(u)
	return err
}
