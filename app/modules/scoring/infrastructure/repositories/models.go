package scoringdb

import (
	"time"

	"github.com/uptrace/bun"

	scoringdomain "github.com/cascade-defensive-pistol/match-engine/app/modules/scoring/domain"
	"github.com/cascade-defensive-pistol/match-engine/app/shared/sharedtypes"
)

// StageScore is one shooter's result on one stage. The derived columns
// (raw_time, points_down, penalty_time, final_time) are always recomputed
// from strings+penalties by the calculator before a write; they exist as
// columns for indexed leaderboard reads.
type StageScore struct {
	bun.BaseModel `bun:"table:stage_scores,alias:ss"`

	ID             sharedtypes.ScoreID          `bun:"id,pk,type:uuid"`
	TournamentID   sharedtypes.TournamentID     `bun:"tournament_id,notnull,type:uuid"`
	StageID        sharedtypes.StageID          `bun:"stage_id,notnull,type:uuid"`
	ShooterID      sharedtypes.ShooterID        `bun:"shooter_id,notnull"`
	SquadID        sharedtypes.SquadID          `bun:"squad_id,type:uuid"`
	Division       sharedtypes.Division         `bun:"division,notnull"`
	Classification sharedtypes.Classification   `bun:"classification,notnull"`
	ScoredBy       sharedtypes.UserID           `bun:"scored_by,notnull"`
	Strings        []scoringdomain.StringResult `bun:"strings,type:jsonb"`
	Penalties      scoringdomain.PenaltySet     `bun:"penalties,type:jsonb"`
	RawTime        float64                      `bun:"raw_time,notnull"`
	PointsDown     int                          `bun:"points_down,notnull"`
	PenaltyTime    float64                      `bun:"penalty_time,notnull"`
	FinalTime      float64                      `bun:"final_time,notnull"`
	DNF            bool                         `bun:"dnf,notnull,default:false"`
	DQ             bool                         `bun:"dq,notnull,default:false"`
	ScoredAt       time.Time                    `bun:"scored_at,notnull"`
	UpdatedAt      time.Time                    `bun:"updated_at,notnull"`
}

// Version extracts the conflict-relevant content of the score.
func (s *StageScore) Version() scoringdomain.ScoreVersion {
	return scoringdomain.ScoreVersion{
		Strings:    s.Strings,
		Penalties:  s.Penalties,
		DNF:        s.DNF,
		DQ:         s.DQ,
		ModifiedAt: s.UpdatedAt,
		ModifiedBy: string(s.ScoredBy),
	}
}

// Stage is one course of fire. RoundsPerString bounds the scored hit count
// the calculator will accept for each string.
type Stage struct {
	bun.BaseModel `bun:"table:stages,alias:st"`

	ID              sharedtypes.StageID      `bun:"id,pk,type:uuid"`
	TournamentID    sharedtypes.TournamentID `bun:"tournament_id,notnull,type:uuid"`
	Number          int                      `bun:"number,notnull"`
	Name            string                   `bun:"name,notnull"`
	StringCount     int                      `bun:"string_count,notnull"`
	RoundsPerString int                      `bun:"rounds_per_string,notnull"`
}
