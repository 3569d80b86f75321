package rankingqueue

import (
	"github.com/cascade-defensive-pistol/match-engine/app/shared/sharedtypes"
)

// RecomputeJob asks for one whole-tournament standings rebuild. Args carry
// only the tournament so River's uniqueness check coalesces the burst of
// score submissions a squad produces into a single queued recompute.
type RecomputeJob struct {
	TournamentID sharedtypes.TournamentID `json:"tournament_id"`
}

// Kind returns the job type identifier for River.
func (RecomputeJob) Kind() string { return "ranking_recompute" }

// JobInfo describes a queued job for debugging and monitoring.
type JobInfo struct {
	ID           int64  `json:"id"`
	Kind         string `json:"kind"`
	TournamentID string `json:"tournament_id"`
	State        string `json:"state"`
	ScheduledAt  string `json:"scheduled_at"`
	CreatedAt    string `json:"created_at"`
	Attempt      int    `json:"attempt"`
	MaxAttempts  int    `json:"max_attempts"`
}
