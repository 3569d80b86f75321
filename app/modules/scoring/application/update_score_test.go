package scoringservice

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	scoringdomain "github.com/cascade-defensive-pistol/match-engine/app/modules/scoring/domain"
	scoringevents "github.com/cascade-defensive-pistol/match-engine/app/modules/scoring/events"
	scoringdb "github.com/cascade-defensive-pistol/match-engine/app/modules/scoring/infrastructure/repositories"
	"github.com/cascade-defensive-pistol/match-engine/app/shared/sharedtypes"
)

func storedScore(tournamentID sharedtypes.TournamentID, stageID sharedtypes.StageID, base time.Time) *scoringdb.StageScore {
	return &scoringdb.StageScore{
		ID:             sharedtypes.ScoreID(uuid.New()),
		TournamentID:   tournamentID,
		StageID:        stageID,
		ShooterID:      sharedtypes.ShooterID("A123456"),
		Division:       "SSP",
		Classification: "MM",
		Strings: []scoringdomain.StringResult{
			{Time: 10.0, Hits: scoringdomain.HitCounts{Down0: 8, Down1: 2}},
		},
		RawTime:    10.0,
		PointsDown: 2,
		FinalTime:  12.0,
		ScoredBy:   "so-1",
		ScoredAt:   base,
		UpdatedAt:  base,
	}
}

func TestScoringService_UpdateScore(t *testing.T) {
	ctx := context.Background()
	tournamentID := sharedtypes.TournamentID(uuid.New())
	stageID := sharedtypes.StageID(uuid.New())
	base := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)

	newRepo := func(stored *scoringdb.StageScore) *FakeScoringRepository {
		repo := NewFakeScoringRepository()
		repo.GetByIDFunc = func(_ context.Context, _ bun.IDB, _ sharedtypes.ScoreID) (*scoringdb.StageScore, error) {
			return stored, nil
		}
		repo.GetStageFunc = func(_ context.Context, _ bun.IDB, _ sharedtypes.StageID) (*scoringdb.Stage, error) {
			return testStage(tournamentID, stageID), nil
		}
		return repo
	}

	t.Run("fast-forwards an uncontested correction", func(t *testing.T) {
		stored := storedScore(tournamentID, stageID, base)
		repo := newRepo(stored)
		svc := newTestService(repo)

		result, err := svc.UpdateScore(ctx, scoringevents.ScoreUpdateRequestedPayloadV1{
			ScoreID:  stored.ID,
			ScoredBy: "so-2",
			Strings: []scoringdomain.StringResult{
				{Time: 9.5, Hits: scoringdomain.HitCounts{Down0: 9, Down1: 1}},
			},
			BaseModifiedAt: base,
			ModifiedAt:     base.Add(time.Minute),
		})
		require.NoError(t, err)
		require.True(t, result.IsSuccess())
		assert.Nil(t, result.Success.Conflict)
		assert.Equal(t, 10.5, result.Success.Updated.Breakdown.FinalTime)

		require.NotNil(t, repo.LastUpserted)
		assert.Equal(t, sharedtypes.UserID("so-2"), repo.LastUpserted.ScoredBy)
		assert.Equal(t, base.Add(time.Minute), repo.LastUpserted.UpdatedAt)
	})

	t.Run("unknown score fails", func(t *testing.T) {
		repo := NewFakeScoringRepository()
		svc := newTestService(repo)

		result, err := svc.UpdateScore(ctx, scoringevents.ScoreUpdateRequestedPayloadV1{
			ScoreID: sharedtypes.ScoreID(uuid.New()),
			Strings: []scoringdomain.StringResult{{Time: 9.5}},
		})
		require.NoError(t, err)
		require.True(t, result.IsFailure())
		require.NotNil(t, result.Failure.Failed)
		assert.Equal(t, "SCORE_NOT_FOUND", result.Failure.Failed.Reason)
	})

	t.Run("rejects negative string data on a DNF correction", func(t *testing.T) {
		stored := storedScore(tournamentID, stageID, base)
		repo := newRepo(stored)
		svc := newTestService(repo)

		result, err := svc.UpdateScore(ctx, scoringevents.ScoreUpdateRequestedPayloadV1{
			ScoreID:        stored.ID,
			ScoredBy:       "so-2",
			Strings:        []scoringdomain.StringResult{{Time: -4.0}},
			DNF:            true,
			BaseModifiedAt: base,
			ModifiedAt:     base.Add(time.Minute),
		})
		require.NoError(t, err)
		require.True(t, result.IsFailure())
		require.NotNil(t, result.Failure.Failed)
		assert.Contains(t, result.Failure.Failed.Reason, "must not be negative")
		assert.NotContains(t, repo.Trace(), "Upsert")
	})

	t.Run("dnf correction beats an intervening edit", func(t *testing.T) {
		stored := storedScore(tournamentID, stageID, base.Add(time.Minute))
		repo := newRepo(stored)
		svc := newTestService(repo)

		result, err := svc.UpdateScore(ctx, scoringevents.ScoreUpdateRequestedPayloadV1{
			ScoreID:        stored.ID,
			ScoredBy:       "so-2",
			Strings:        stored.Strings,
			DNF:            true,
			BaseModifiedAt: base,
			ModifiedAt:     base.Add(2 * time.Minute),
		})
		require.NoError(t, err)
		require.True(t, result.IsSuccess())
		require.NotNil(t, result.Success.Conflict)
		assert.Equal(t, scoringdomain.RuleLocalTerminal, result.Success.Conflict.Rule)
		assert.True(t, result.Success.Updated.DNF)
		require.NotNil(t, repo.LastUpserted)
		assert.True(t, repo.LastUpserted.DNF)
	})

	t.Run("later times win when only times diverge", func(t *testing.T) {
		stored := storedScore(tournamentID, stageID, base.Add(time.Hour))
		repo := newRepo(stored)
		svc := newTestService(repo)

		// Same hits, earlier edit: the stored row keeps its times.
		result, err := svc.UpdateScore(ctx, scoringevents.ScoreUpdateRequestedPayloadV1{
			ScoreID:  stored.ID,
			ScoredBy: "so-2",
			Strings: []scoringdomain.StringResult{
				{Time: 9.0, Hits: scoringdomain.HitCounts{Down0: 8, Down1: 2}},
			},
			BaseModifiedAt: base,
			ModifiedAt:     base.Add(time.Minute),
		})
		require.NoError(t, err)
		require.True(t, result.IsSuccess())
		require.NotNil(t, result.Success.Conflict)
		assert.Equal(t, scoringdomain.RuleLaterTimes, result.Success.Conflict.Rule)
		assert.Equal(t, 12.0, result.Success.Updated.Breakdown.FinalTime)
		assert.NotContains(t, repo.Trace(), "Upsert")
	})

	t.Run("penalty divergence merges both sets", func(t *testing.T) {
		stored := storedScore(tournamentID, stageID, base.Add(time.Minute))
		stored.Penalties = scoringdomain.PenaltySet{Procedural: 1}
		repo := newRepo(stored)
		svc := newTestService(repo)

		result, err := svc.UpdateScore(ctx, scoringevents.ScoreUpdateRequestedPayloadV1{
			ScoreID:        stored.ID,
			ScoredBy:       "so-2",
			Strings:        stored.Strings,
			Penalties:      scoringdomain.PenaltySet{Flagrant: 1},
			BaseModifiedAt: base,
			ModifiedAt:     base.Add(2 * time.Minute),
		})
		require.NoError(t, err)
		require.True(t, result.IsSuccess())
		require.NotNil(t, result.Success.Conflict)
		assert.Equal(t, scoringdomain.RulePenaltyMerge, result.Success.Conflict.Rule)

		require.NotNil(t, repo.LastUpserted)
		assert.Equal(t, 1, repo.LastUpserted.Penalties.Procedural)
		assert.Equal(t, 1, repo.LastUpserted.Penalties.Flagrant)
	})

	t.Run("divergent hits escalate to manual", func(t *testing.T) {
		stored := storedScore(tournamentID, stageID, base.Add(time.Minute))
		repo := newRepo(stored)
		svc := newTestService(repo)

		result, err := svc.UpdateScore(ctx, scoringevents.ScoreUpdateRequestedPayloadV1{
			ScoreID:  stored.ID,
			ScoredBy: "so-2",
			Strings: []scoringdomain.StringResult{
				{Time: 9.0, Hits: scoringdomain.HitCounts{Down0: 7, Down1: 3}},
			},
			BaseModifiedAt: base,
			ModifiedAt:     base.Add(2 * time.Minute),
		})
		require.NoError(t, err)
		require.True(t, result.IsFailure())
		require.NotNil(t, result.Failure.Manual)
		assert.Equal(t, stored.ID, result.Failure.Manual.ScoreID)
		assert.NotContains(t, repo.Trace(), "Upsert")
	})
}

func TestScoringService_ResolveConflict(t *testing.T) {
	ctx := context.Background()
	tournamentID := sharedtypes.TournamentID(uuid.New())
	stageID := sharedtypes.StageID(uuid.New())
	base := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)

	t.Run("applies the chosen version", func(t *testing.T) {
		stored := storedScore(tournamentID, stageID, base)
		repo := NewFakeScoringRepository()
		repo.GetByIDFunc = func(_ context.Context, _ bun.IDB, _ sharedtypes.ScoreID) (*scoringdb.StageScore, error) {
			return stored, nil
		}
		repo.GetStageFunc = func(_ context.Context, _ bun.IDB, _ sharedtypes.StageID) (*scoringdb.Stage, error) {
			return testStage(tournamentID, stageID), nil
		}
		svc := newTestService(repo)

		result, err := svc.ResolveConflict(ctx, scoringevents.ScoreConflictResolutionRequestedPayloadV1{
			ScoreID: stored.ID,
			Chosen: scoringdomain.ScoreVersion{
				Strings: []scoringdomain.StringResult{
					{Time: 9.0, Hits: scoringdomain.HitCounts{Down0: 7, Down1: 3}},
				},
				ModifiedAt: base.Add(time.Hour),
			},
			ResolvedBy: "md-1",
		})
		require.NoError(t, err)
		require.True(t, result.IsSuccess())
		assert.Equal(t, 12.0, result.Success.Breakdown.FinalTime)

		require.NotNil(t, repo.LastUpserted)
		assert.Equal(t, sharedtypes.UserID("md-1"), repo.LastUpserted.ScoredBy)
	})

	t.Run("unknown score fails", func(t *testing.T) {
		repo := NewFakeScoringRepository()
		svc := newTestService(repo)

		result, err := svc.ResolveConflict(ctx, scoringevents.ScoreConflictResolutionRequestedPayloadV1{
			ScoreID: sharedtypes.ScoreID(uuid.New()),
		})
		require.NoError(t, err)
		require.True(t, result.IsFailure())
		assert.Equal(t, "SCORE_NOT_FOUND", result.Failure.Reason)
	})
}
