package scoringservice

import (
	"context"

	scoringevents "github.com/cascade-defensive-pistol/match-engine/app/modules/scoring/events"
	scoringdb "github.com/cascade-defensive-pistol/match-engine/app/modules/scoring/infrastructure/repositories"
	"github.com/cascade-defensive-pistol/match-engine/app/shared/sharedtypes"
	"github.com/cascade-defensive-pistol/match-engine/internal/results"
)

// SubmitScoreResult is the outcome of a score submission.
type SubmitScoreResult = results.OperationResult[scoringevents.ScoreSubmittedPayloadV1, scoringevents.ScoreSubmissionFailedPayloadV1]

// UpdateScoreSuccess is an applied correction; Conflict is set when the write
// went through auto-resolution rather than a clean fast-forward.
type UpdateScoreSuccess struct {
	Updated  scoringevents.ScoreUpdatedPayloadV1
	Conflict *scoringevents.ScoreConflictResolvedPayloadV1
}

// UpdateScoreFailure is a rejected correction; exactly one field is set.
type UpdateScoreFailure struct {
	Failed *scoringevents.ScoreUpdateFailedPayloadV1
	Manual *scoringevents.ScoreConflictManualRequiredPayloadV1
}

// UpdateScoreResult is the outcome of a score correction.
type UpdateScoreResult = results.OperationResult[UpdateScoreSuccess, UpdateScoreFailure]

// ResolveConflictResult is the outcome of a manual conflict resolution.
type ResolveConflictResult = results.OperationResult[scoringevents.ScoreUpdatedPayloadV1, scoringevents.ScoreConflictResolutionFailedPayloadV1]

// Service defines the interface for the ScoringService.
type Service interface {
	// SubmitScore validates, derives, and stores a new stage score. Replaying
	// an identical submission is a no-op success; a divergent replay goes
	// through conflict resolution.
	SubmitScore(ctx context.Context, payload scoringevents.ScoreSubmissionRequestedPayloadV1) (SubmitScoreResult, error)

	// UpdateScore applies a correction to an existing score, resolving
	// conflicts against intervening edits.
	UpdateScore(ctx context.Context, payload scoringevents.ScoreUpdateRequestedPayloadV1) (UpdateScoreResult, error)

	// ResolveConflict applies a match director's pick for a conflict the
	// automatic rules escalated.
	ResolveConflict(ctx context.Context, payload scoringevents.ScoreConflictResolutionRequestedPayloadV1) (ResolveConflictResult, error)

	// GetScoresForTournament returns every stage score in the tournament.
	GetScoresForTournament(ctx context.Context, tournamentID sharedtypes.TournamentID) ([]scoringdb.StageScore, error)
}
