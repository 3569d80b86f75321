package rankingevents

import (
	"time"

	"github.com/cascade-defensive-pistol/match-engine/app/shared/sharedtypes"
)

// RankingStreamName is the JetStream stream carrying all ranking subjects.
const RankingStreamName = "ranking"

const (
	RankingRecomputeRequestedV1 = "ranking.recompute.requested.v1"
	TournamentRankingUpdatedV1  = "ranking.tournament.updated.v1"
	RankingRecomputeFailedV1    = "ranking.recompute.failed.v1"
)

// RankingRecomputeRequestedPayloadV1 asks for a whole-tournament recompute.
// Trigger names the event that invalidated the standings, for tracing.
type RankingRecomputeRequestedPayloadV1 struct {
	TournamentID sharedtypes.TournamentID `json:"tournament_id"`
	Trigger      string                   `json:"trigger,omitempty"`
}

// TournamentRankingUpdatedPayloadV1 announces freshly committed standings.
type TournamentRankingUpdatedPayloadV1 struct {
	TournamentID sharedtypes.TournamentID `json:"tournament_id"`
	ShooterCount int                      `json:"shooter_count"`
	ComputedAt   time.Time                `json:"computed_at"`
}

// RankingRecomputeFailedPayloadV1 reports a recompute that could not commit.
type RankingRecomputeFailedPayloadV1 struct {
	TournamentID sharedtypes.TournamentID `json:"tournament_id"`
	Reason       string                   `json:"reason"`
}
