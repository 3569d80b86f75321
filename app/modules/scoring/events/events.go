package scoringevents

import (
	"time"

	scoringdomain "github.com/cascade-defensive-pistol/match-engine/app/modules/scoring/domain"
	"github.com/cascade-defensive-pistol/match-engine/app/shared/sharedtypes"
)

// ScoringStreamName is the JetStream stream carrying all scoring subjects.
const ScoringStreamName = "scoring"

const (
	ScoreSubmissionRequestedV1 = "scoring.score.submission.requested.v1"
	ScoreSubmittedV1           = "scoring.score.submitted.v1"
	ScoreSubmissionFailedV1    = "scoring.score.submission.failed.v1"

	ScoreUpdateRequestedV1 = "scoring.score.update.requested.v1"
	ScoreUpdatedV1         = "scoring.score.updated.v1"
	ScoreUpdateFailedV1    = "scoring.score.update.failed.v1"

	ScoreConflictDetectedV1            = "scoring.score.conflict.detected.v1"
	ScoreConflictResolvedV1            = "scoring.score.conflict.resolved.v1"
	ScoreConflictManualRequiredV1      = "scoring.score.conflict.manual.required.v1"
	ScoreConflictResolutionRequestedV1 = "scoring.score.conflict.resolution.requested.v1"
	ScoreConflictResolutionFailedV1    = "scoring.score.conflict.resolution.failed.v1"
)

// ScoreSubmissionRequestedPayloadV1 carries a new score for one shooter on
// one stage. Strings and penalties are the raw scorekeeper input; derived
// times are computed server-side.
type ScoreSubmissionRequestedPayloadV1 struct {
	TournamentID   sharedtypes.TournamentID     `json:"tournament_id"`
	StageID        sharedtypes.StageID          `json:"stage_id"`
	ShooterID      sharedtypes.ShooterID        `json:"shooter_id"`
	SquadID        sharedtypes.SquadID          `json:"squad_id"`
	Division       sharedtypes.Division         `json:"division"`
	Classification sharedtypes.Classification   `json:"classification"`
	ScoredBy       sharedtypes.UserID           `json:"scored_by"`
	Strings        []scoringdomain.StringResult `json:"strings"`
	Penalties      scoringdomain.PenaltySet     `json:"penalties"`
	DNF            bool                         `json:"dnf"`
	DQ             bool                         `json:"dq"`
	ScoredAt       time.Time                    `json:"scored_at"`
}

// ScoreSubmittedPayloadV1 announces an accepted score with its derived times.
type ScoreSubmittedPayloadV1 struct {
	ScoreID      sharedtypes.ScoreID          `json:"score_id"`
	TournamentID sharedtypes.TournamentID     `json:"tournament_id"`
	StageID      sharedtypes.StageID          `json:"stage_id"`
	ShooterID    sharedtypes.ShooterID        `json:"shooter_id"`
	Breakdown    scoringdomain.ScoreBreakdown `json:"breakdown"`
	DNF          bool                         `json:"dnf"`
	DQ           bool                         `json:"dq"`
}

// ScoreSubmissionFailedPayloadV1 reports a rejected submission.
type ScoreSubmissionFailedPayloadV1 struct {
	TournamentID sharedtypes.TournamentID `json:"tournament_id"`
	StageID      sharedtypes.StageID      `json:"stage_id"`
	ShooterID    sharedtypes.ShooterID    `json:"shooter_id"`
	Reason       string                   `json:"reason"`
}

// ScoreUpdateRequestedPayloadV1 carries a correction to an existing score.
// BaseModifiedAt is the UpdatedAt the editor last saw; a mismatch triggers
// conflict resolution instead of a blind overwrite.
type ScoreUpdateRequestedPayloadV1 struct {
	ScoreID        sharedtypes.ScoreID          `json:"score_id"`
	ScoredBy       sharedtypes.UserID           `json:"scored_by"`
	Strings        []scoringdomain.StringResult `json:"strings"`
	Penalties      scoringdomain.PenaltySet     `json:"penalties"`
	DNF            bool                         `json:"dnf"`
	DQ             bool                         `json:"dq"`
	BaseModifiedAt time.Time                    `json:"base_modified_at"`
	ModifiedAt     time.Time                    `json:"modified_at"`
}

// ScoreUpdatedPayloadV1 announces an applied correction.
type ScoreUpdatedPayloadV1 struct {
	ScoreID      sharedtypes.ScoreID          `json:"score_id"`
	TournamentID sharedtypes.TournamentID     `json:"tournament_id"`
	StageID      sharedtypes.StageID          `json:"stage_id"`
	ShooterID    sharedtypes.ShooterID        `json:"shooter_id"`
	Breakdown    scoringdomain.ScoreBreakdown `json:"breakdown"`
	DNF          bool                         `json:"dnf"`
	DQ           bool                         `json:"dq"`
}

// ScoreUpdateFailedPayloadV1 reports a rejected correction.
type ScoreUpdateFailedPayloadV1 struct {
	ScoreID sharedtypes.ScoreID `json:"score_id"`
	Reason  string              `json:"reason"`
}

// ScoreConflictResolvedPayloadV1 records an automatic resolution between two
// divergent versions of the same score.
type ScoreConflictResolvedPayloadV1 struct {
	ScoreID    sharedtypes.ScoreID `json:"score_id"`
	Rule       string              `json:"rule"`
	Resolution string              `json:"resolution"`
}

// ScoreConflictManualRequiredPayloadV1 surfaces a conflict no automatic rule
// could settle. Both versions travel with the event so a match director can
// pick without another round trip.
type ScoreConflictManualRequiredPayloadV1 struct {
	ScoreID sharedtypes.ScoreID        `json:"score_id"`
	Local   scoringdomain.ScoreVersion `json:"local"`
	Server  scoringdomain.ScoreVersion `json:"server"`
}

// ScoreConflictResolutionRequestedPayloadV1 carries a match director's pick
// for a conflict that required manual resolution.
type ScoreConflictResolutionRequestedPayloadV1 struct {
	ScoreID    sharedtypes.ScoreID        `json:"score_id"`
	Chosen     scoringdomain.ScoreVersion `json:"chosen"`
	ResolvedBy sharedtypes.UserID         `json:"resolved_by"`
}

// ScoreConflictResolutionFailedPayloadV1 reports a rejected manual resolution.
type ScoreConflictResolutionFailedPayloadV1 struct {
	ScoreID sharedtypes.ScoreID `json:"score_id"`
	Reason  string              `json:"reason"`
}
