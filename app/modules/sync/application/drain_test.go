package syncservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	scoringservice "github.com/cascade-defensive-pistol/match-engine/app/modules/scoring/application"
	scoringevents "github.com/cascade-defensive-pistol/match-engine/app/modules/scoring/events"
	syncdomain "github.com/cascade-defensive-pistol/match-engine/app/modules/sync/domain"
	"github.com/cascade-defensive-pistol/match-engine/app/shared/sharedtypes"
	"github.com/cascade-defensive-pistol/match-engine/internal/results"
)

func TestSyncService_Drain(t *testing.T) {
	ctx := context.Background()
	tournamentID := sharedtypes.TournamentID(uuid.New())
	stageID := sharedtypes.StageID(uuid.New())

	// enqueueAt stamps each item with its own CreatedAt so replay order is
	// observable.
	enqueueAt := func(t *testing.T, svc *SyncService, repo *FakeQueueRepository, at time.Time, shooter sharedtypes.ShooterID) {
		t.Helper()
		svc.now = func() time.Time { return at }
		enqueuedItem(t, svc, repo, "user-1", syncdomain.ActionSubmitScore, submitScoreJSON(t, tournamentID, stageID, shooter))
	}

	t.Run("replays pending items oldest first", func(t *testing.T) {
		repo := NewFakeQueueRepository()
		scoring := &FakeScoringService{}
		svc := newSyncTestService(repo, scoring, &FakeRegistrationService{})

		enqueueAt(t, svc, repo, syncTestNow, "A100001")
		enqueueAt(t, svc, repo, syncTestNow.Add(time.Second), "A100002")
		enqueueAt(t, svc, repo, syncTestNow.Add(2*time.Second), "A100003")
		svc.now = func() time.Time { return syncTestNow.Add(time.Minute) }

		result, err := svc.Drain(ctx, "user-1")
		require.NoError(t, err)
		require.True(t, result.IsSuccess())
		assert.Equal(t, 3, result.Success.Processed)
		assert.Equal(t, 3, result.Success.Completed)
		assert.Equal(t, 0, result.Success.Failed)
		assert.Equal(t, 0, result.Success.Remaining)

		require.Len(t, scoring.SubmitCalls, 3)
		assert.Equal(t, sharedtypes.ShooterID("A100001"), scoring.SubmitCalls[0].ShooterID)
		assert.Equal(t, sharedtypes.ShooterID("A100002"), scoring.SubmitCalls[1].ShooterID)
		assert.Equal(t, sharedtypes.ShooterID("A100003"), scoring.SubmitCalls[2].ShooterID)
	})

	t.Run("pauses on a retryable item instead of reordering past it", func(t *testing.T) {
		repo := NewFakeQueueRepository()
		scoring := &FakeScoringService{
			SubmitFunc: func(scoringevents.ScoreSubmissionRequestedPayloadV1) (scoringservice.SubmitScoreResult, error) {
				return scoringservice.SubmitScoreResult{}, errors.New("connection refused")
			},
		}
		svc := newSyncTestService(repo, scoring, &FakeRegistrationService{})

		enqueueAt(t, svc, repo, syncTestNow, "A100001")
		enqueueAt(t, svc, repo, syncTestNow.Add(time.Second), "A100002")

		result, err := svc.Drain(ctx, "user-1")
		require.NoError(t, err)
		require.True(t, result.IsSuccess())
		assert.Equal(t, 1, result.Success.Processed)
		assert.Equal(t, 0, result.Success.Completed)
		assert.Equal(t, 0, result.Success.Failed)
		assert.Equal(t, 2, result.Success.Remaining, "the stuck item and the one behind it both stay pending")

		require.Len(t, scoring.SubmitCalls, 1)
		assert.Equal(t, sharedtypes.ShooterID("A100001"), scoring.SubmitCalls[0].ShooterID)
	})

	t.Run("a terminally rejected item does not block the queue", func(t *testing.T) {
		repo := NewFakeQueueRepository()
		scoring := &FakeScoringService{}
		scoring.SubmitFunc = func(p scoringevents.ScoreSubmissionRequestedPayloadV1) (scoringservice.SubmitScoreResult, error) {
			if p.ShooterID == "A100001" {
				return results.Failure[scoringevents.ScoreSubmittedPayloadV1](
					scoringevents.ScoreSubmissionFailedPayloadV1{Reason: "STAGE_NOT_FOUND"}), nil
			}
			return results.Success[scoringevents.ScoreSubmittedPayloadV1, scoringevents.ScoreSubmissionFailedPayloadV1](
				scoringevents.ScoreSubmittedPayloadV1{ShooterID: p.ShooterID}), nil
		}
		svc := newSyncTestService(repo, scoring, &FakeRegistrationService{})

		enqueueAt(t, svc, repo, syncTestNow, "A100001")
		enqueueAt(t, svc, repo, syncTestNow.Add(time.Second), "A100002")
		svc.now = func() time.Time { return syncTestNow.Add(time.Minute) }

		result, err := svc.Drain(ctx, "user-1")
		require.NoError(t, err)
		require.True(t, result.IsSuccess())
		assert.Equal(t, 2, result.Success.Processed)
		assert.Equal(t, 1, result.Success.Completed)
		assert.Equal(t, 1, result.Success.Failed)
		assert.Equal(t, 0, result.Success.Remaining)
	})

	t.Run("an empty queue drains to an empty summary", func(t *testing.T) {
		repo := NewFakeQueueRepository()
		svc := newSyncTestService(repo, &FakeScoringService{}, &FakeRegistrationService{})

		result, err := svc.Drain(ctx, "user-1")
		require.NoError(t, err)
		require.True(t, result.IsSuccess())
		assert.Equal(t, 0, result.Success.Processed)
		assert.Equal(t, 0, result.Success.Remaining)
	})
}

func TestSyncService_SyncStatus(t *testing.T) {
	ctx := context.Background()
	tournamentID := sharedtypes.TournamentID(uuid.New())
	stageID := sharedtypes.StageID(uuid.New())

	repo := NewFakeQueueRepository()
	svc := newSyncTestService(repo, &FakeScoringService{}, &FakeRegistrationService{})

	a := enqueuedItem(t, svc, repo, "user-1", syncdomain.ActionSubmitScore, submitScoreJSON(t, tournamentID, stageID, "A100001"))
	enqueuedItem(t, svc, repo, "user-1", syncdomain.ActionSubmitScore, submitScoreJSON(t, tournamentID, stageID, "A100002"))
	enqueuedItem(t, svc, repo, "user-2", syncdomain.ActionSubmitScore, submitScoreJSON(t, tournamentID, stageID, "A100003"))

	_, err := svc.ProcessItem(ctx, a.ID)
	require.NoError(t, err)

	counts, err := svc.SyncStatus(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Pending)
	assert.Equal(t, 1, counts.Completed)
	assert.Equal(t, 0, counts.Failed)
	assert.Equal(t, 0, counts.Processing)
}

func TestSyncService_PurgeExpired(t *testing.T) {
	ctx := context.Background()
	tournamentID := sharedtypes.TournamentID(uuid.New())
	stageID := sharedtypes.StageID(uuid.New())

	repo := NewFakeQueueRepository()
	svc := newSyncTestService(repo, &FakeScoringService{}, &FakeRegistrationService{})

	old := enqueuedItem(t, svc, repo, "user-1", syncdomain.ActionSubmitScore, submitScoreJSON(t, tournamentID, stageID, "A100001"))
	fresh := enqueuedItem(t, svc, repo, "user-1", syncdomain.ActionSubmitScore, submitScoreJSON(t, tournamentID, stageID, "A100002"))
	pending := enqueuedItem(t, svc, repo, "user-1", syncdomain.ActionSubmitScore, submitScoreJSON(t, tournamentID, stageID, "A100003"))

	completedAt := syncTestNow.Add(-25 * time.Hour)
	require.NoError(t, repo.MarkCompleted(ctx, nil, old.ID, completedAt, ""))
	require.NoError(t, repo.MarkCompleted(ctx, nil, fresh.ID, syncTestNow.Add(-time.Hour), ""))

	deleted, err := svc.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	_, err = repo.GetByID(ctx, nil, old.ID)
	assert.Error(t, err)
	_, err = repo.GetByID(ctx, nil, fresh.ID)
	assert.NoError(t, err)
	_, err = repo.GetByID(ctx, nil, pending.ID)
	assert.NoError(t, err)
}
