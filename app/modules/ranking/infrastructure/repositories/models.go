package rankingdb

import (
	"time"

	"github.com/uptrace/bun"

	rankingdomain "github.com/cascade-defensive-pistol/match-engine/app/modules/ranking/domain"
	"github.com/cascade-defensive-pistol/match-engine/app/shared/sharedtypes"
)

// MatchResult is one shooter's whole-tournament aggregate with rank numbers.
// Rows are derived data: every recompute deletes and rewrites the tournament's
// rows wholesale, so readers only ever see one committed generation.
type MatchResult struct {
	bun.BaseModel `bun:"table:match_results,alias:mr"`

	ID                 sharedtypes.MatchResultID  `bun:"id,pk,type:uuid"`
	TournamentID       sharedtypes.TournamentID   `bun:"tournament_id,notnull,type:uuid"`
	ShooterID          sharedtypes.ShooterID      `bun:"shooter_id,notnull"`
	Division           sharedtypes.Division       `bun:"division,notnull"`
	Classification     sharedtypes.Classification `bun:"classification,notnull"`
	CustomCategories   []string                   `bun:"custom_categories,type:jsonb"`
	TotalTime          float64                    `bun:"total_time,notnull"`
	TotalPointsDown    int                        `bun:"total_points_down,notnull"`
	TotalPenaltyTime   float64                    `bun:"total_penalty_time,notnull"`
	FinalScore         float64                    `bun:"final_score,notnull"`
	CompletedStages    int                        `bun:"completed_stages,notnull"`
	TotalStages        int                        `bun:"total_stages,notnull"`
	DNF                bool                       `bun:"dnf,notnull,default:false"`
	DQ                 bool                       `bun:"dq,notnull,default:false"`
	OverallRank        int                        `bun:"overall_rank,notnull"`
	DivisionRank       int                        `bun:"division_rank,notnull"`
	ClassificationRank int                        `bun:"classification_rank,notnull"`
	CategoryRanks      map[string]int             `bun:"category_ranks,type:jsonb"`
	ComputedAt         time.Time                  `bun:"computed_at,notnull"`
}

// FromRanked maps a ranked domain result onto a persistable row.
func FromRanked(tournamentID sharedtypes.TournamentID, ranked rankingdomain.RankedResult, computedAt time.Time) MatchResult {
	return MatchResult{
		ID:                 sharedtypes.NewMatchResultID(),
		TournamentID:       tournamentID,
		ShooterID:          ranked.ShooterID,
		Division:           ranked.Division,
		Classification:     ranked.Classification,
		CustomCategories:   ranked.CustomCategories,
		TotalTime:          ranked.TotalTime,
		TotalPointsDown:    ranked.TotalPointsDown,
		TotalPenaltyTime:   ranked.TotalPenaltyTime,
		FinalScore:         ranked.FinalScore,
		CompletedStages:    ranked.CompletedStages,
		TotalStages:        ranked.TotalStages,
		DNF:                ranked.DNF,
		DQ:                 ranked.DQ,
		OverallRank:        ranked.Rankings.Overall,
		DivisionRank:       ranked.Rankings.Division,
		ClassificationRank: ranked.Rankings.Classification,
		CategoryRanks:      ranked.Rankings.CustomCategory,
		ComputedAt:         computedAt,
	}
}
