package testutils

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	registrationdomain "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/domain"
	registrationevents "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/events"
	registrationdb "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/infrastructure/repositories"
	"github.com/cascade-defensive-pistol/match-engine/app/shared/sharedtypes"
)

// DataGenerator builds realistic fixtures. Seeded, so a failing test
// reproduces with the same data.
type DataGenerator struct {
	faker *gofakeit.Faker
}

// NewDataGenerator returns a generator seeded for reproducibility.
func NewDataGenerator(seed uint64) *DataGenerator {
	return &DataGenerator{faker: gofakeit.New(seed)}
}

// OpenTournament builds a published tournament whose registration window is
// open right now and which accepts every division.
func (g *DataGenerator) OpenTournament() *registrationdb.Tournament {
	now := time.Now().UTC()
	return &registrationdb.Tournament{
		ID:                   sharedtypes.TournamentID(uuid.New()),
		Name:                 g.faker.City() + " Defensive Pistol Match",
		Status:               registrationdomain.TournamentPublished,
		RegistrationOpensAt:  now.Add(-24 * time.Hour),
		RegistrationClosesAt: now.Add(24 * time.Hour),
		Divisions: []sharedtypes.Division{
			sharedtypes.DivisionSSP,
			sharedtypes.DivisionESP,
			sharedtypes.DivisionCDP,
			sharedtypes.DivisionCO,
		},
		CustomCategories: []string{"Senior", "Lady", "Law Enforcement"},
		CreatedAt:        now,
	}
}

// Squad builds an open squad on the tournament with the given capacity.
func (g *DataGenerator) Squad(tournamentID sharedtypes.TournamentID, maxShooters int) *registrationdb.Squad {
	return &registrationdb.Squad{
		ID:           sharedtypes.SquadID(uuid.New()),
		TournamentID: tournamentID,
		Name:         fmt.Sprintf("Squad %d", g.faker.Number(1, 20)),
		TimeSlot:     fmt.Sprintf("%02d:00", g.faker.Number(8, 15)),
		MaxShooters:  maxShooters,
		Status:       registrationdomain.SquadOpen,
	}
}

// ShooterID mints a plausible IDPA membership number.
func (g *DataGenerator) ShooterID() sharedtypes.ShooterID {
	return sharedtypes.ShooterID(fmt.Sprintf("A%06d", g.faker.Number(1, 999999)))
}

// RegistrationRequest builds a valid registration payload for the squad.
func (g *DataGenerator) RegistrationRequest(
	tournament *registrationdb.Tournament,
	squad *registrationdb.Squad,
) registrationevents.RegistrationRequestedPayloadV1 {
	shooterID := g.ShooterID()
	return registrationevents.RegistrationRequestedPayloadV1{
		TournamentID:   tournament.ID,
		ShooterID:      shooterID,
		UserID:         sharedtypes.UserID("user-" + string(shooterID)),
		SquadID:        squad.ID,
		Division:       sharedtypes.DivisionSSP,
		Classification: sharedtypes.ClassificationSS,
		RequestedAt:    time.Now().UTC(),
	}
}

// Seed inserts the fixtures into the database.
func Seed(ctx context.Context, db *bun.DB, fixtures ...any) error {
	for _, fixture := range fixtures {
		if _, err := db.NewInsert().Model(fixture).Exec(ctx); err != nil {
			return fmt.Errorf("failed to seed %T: %w", fixture, err)
		}
	}
	return nil
}
