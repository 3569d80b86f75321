package syncservice

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/time/rate"

	registrationevents "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/events"
	scoringdomain "github.com/cascade-defensive-pistol/match-engine/app/modules/scoring/domain"
	scoringevents "github.com/cascade-defensive-pistol/match-engine/app/modules/scoring/events"
	syncdomain "github.com/cascade-defensive-pistol/match-engine/app/modules/sync/domain"
	syncevents "github.com/cascade-defensive-pistol/match-engine/app/modules/sync/events"
	syncdb "github.com/cascade-defensive-pistol/match-engine/app/modules/sync/infrastructure/repositories"
	"github.com/cascade-defensive-pistol/match-engine/app/shared/sharedtypes"
	"github.com/cascade-defensive-pistol/match-engine/internal/observability/metrics"
)

var syncTestNow = time.Date(2026, 4, 18, 18, 0, 0, 0, time.UTC)

func newSyncTestService(repo *FakeQueueRepository, scoring *FakeScoringService, registration *FakeRegistrationService) *SyncService {
	svc := NewSyncService(
		repo,
		scoring,
		registration,
		nil,
		slog.New(slog.DiscardHandler),
		metrics.NoOpSyncMetrics{},
		noop.NewTracerProvider().Tracer("test"),
		nil,
	)
	svc.now = func() time.Time { return syncTestNow }
	svc.limiter = rate.NewLimiter(rate.Inf, 1)
	return svc
}

func submitScoreJSON(t *testing.T, tournamentID sharedtypes.TournamentID, stageID sharedtypes.StageID, shooterID sharedtypes.ShooterID) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(scoringevents.ScoreSubmissionRequestedPayloadV1{
		TournamentID: tournamentID,
		StageID:      stageID,
		ShooterID:    shooterID,
		ScoredBy:     "so-1",
		Strings:      []scoringdomain.StringResult{{Time: 10.0}},
		ScoredAt:     syncTestNow,
	})
	require.NoError(t, err)
	return raw
}

func createRegistrationJSON(t *testing.T, tournamentID sharedtypes.TournamentID, squadID sharedtypes.SquadID, shooterID sharedtypes.ShooterID) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(registrationevents.RegistrationRequestedPayloadV1{
		TournamentID:   tournamentID,
		ShooterID:      shooterID,
		UserID:         "user-1",
		SquadID:        squadID,
		Division:       sharedtypes.DivisionSSP,
		Classification: sharedtypes.ClassificationMM,
		RequestedAt:    syncTestNow,
	})
	require.NoError(t, err)
	return raw
}

func TestSyncService_Enqueue(t *testing.T) {
	ctx := context.Background()
	tournamentID := sharedtypes.TournamentID(uuid.New())
	stageID := sharedtypes.StageID(uuid.New())

	t.Run("stores a valid action pending", func(t *testing.T) {
		repo := NewFakeQueueRepository()
		svc := newSyncTestService(repo, &FakeScoringService{}, &FakeRegistrationService{})

		result, err := svc.Enqueue(ctx, syncevents.SyncEnqueueRequestedPayloadV1{
			UserID:  "user-1",
			Action:  syncdomain.ActionSubmitScore,
			Payload: submitScoreJSON(t, tournamentID, stageID, "A100001"),
		})
		require.NoError(t, err)
		require.True(t, result.IsSuccess())
		assert.Equal(t, syncdomain.ActionSubmitScore, result.Success.Action)
		assert.Equal(t, syncTestNow, result.Success.CreatedAt)

		item, err := repo.GetByID(ctx, nil, result.Success.ItemID)
		require.NoError(t, err)
		assert.Equal(t, syncdomain.StatusPending, item.Status)
		assert.Equal(t, 0, item.Retries)
	})

	t.Run("rejects unknown actions without storing anything", func(t *testing.T) {
		repo := NewFakeQueueRepository()
		svc := newSyncTestService(repo, &FakeScoringService{}, &FakeRegistrationService{})

		result, err := svc.Enqueue(ctx, syncevents.SyncEnqueueRequestedPayloadV1{
			UserID:  "user-1",
			Action:  "deleteTournament",
			Payload: json.RawMessage(`{}`),
		})
		require.NoError(t, err)
		require.True(t, result.IsFailure())
		assert.Equal(t, ReasonUnknownAction, result.Failure.Reason)
		assert.Empty(t, repo.Items)
	})

	t.Run("rejects malformed payloads without storing anything", func(t *testing.T) {
		repo := NewFakeQueueRepository()
		svc := newSyncTestService(repo, &FakeScoringService{}, &FakeRegistrationService{})

		result, err := svc.Enqueue(ctx, syncevents.SyncEnqueueRequestedPayloadV1{
			UserID:  "user-1",
			Action:  syncdomain.ActionSubmitScore,
			Payload: json.RawMessage(`{"stage_id": 42`),
		})
		require.NoError(t, err)
		require.True(t, result.IsFailure())
		assert.Equal(t, ReasonInvalidPayload, result.Failure.Reason)
		assert.Empty(t, repo.Items)
	})

	t.Run("rejects payloads missing their key identifiers", func(t *testing.T) {
		repo := NewFakeQueueRepository()
		svc := newSyncTestService(repo, &FakeScoringService{}, &FakeRegistrationService{})

		result, err := svc.Enqueue(ctx, syncevents.SyncEnqueueRequestedPayloadV1{
			UserID:  "user-1",
			Action:  syncdomain.ActionSubmitScore,
			Payload: submitScoreJSON(t, tournamentID, stageID, ""),
		})
		require.NoError(t, err)
		require.True(t, result.IsFailure())
		assert.Equal(t, ReasonInvalidPayload, result.Failure.Reason)
		assert.Empty(t, repo.Items)
	})

	t.Run("rejects an empty user", func(t *testing.T) {
		repo := NewFakeQueueRepository()
		svc := newSyncTestService(repo, &FakeScoringService{}, &FakeRegistrationService{})

		result, err := svc.Enqueue(ctx, syncevents.SyncEnqueueRequestedPayloadV1{
			Action:  syncdomain.ActionSubmitScore,
			Payload: submitScoreJSON(t, tournamentID, stageID, "A100001"),
		})
		require.NoError(t, err)
		require.True(t, result.IsFailure())
		assert.Equal(t, ReasonMissingUser, result.Failure.Reason)
		assert.Empty(t, repo.Items)
	})
}

func enqueuedItem(t *testing.T, svc *SyncService, repo *FakeQueueRepository, userID sharedtypes.UserID, action syncdomain.Action, payload json.RawMessage) *syncdb.QueueItem {
	t.Helper()
	result, err := svc.Enqueue(context.Background(), syncevents.SyncEnqueueRequestedPayloadV1{
		UserID:  userID,
		Action:  action,
		Payload: payload,
	})
	require.NoError(t, err)
	require.True(t, result.IsSuccess())
	item, err := repo.GetByID(context.Background(), nil, result.Success.ItemID)
	require.NoError(t, err)
	return item
}
