package syncservice

import (
	"context"
	"sort"
	"time"

	"github.com/uptrace/bun"

	registrationservice "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/application"
	registrationevents "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/events"
	registrationdb "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/infrastructure/repositories"
	scoringservice "github.com/cascade-defensive-pistol/match-engine/app/modules/scoring/application"
	scoringevents "github.com/cascade-defensive-pistol/match-engine/app/modules/scoring/events"
	scoringdb "github.com/cascade-defensive-pistol/match-engine/app/modules/scoring/infrastructure/repositories"
	syncdomain "github.com/cascade-defensive-pistol/match-engine/app/modules/sync/domain"
	syncdb "github.com/cascade-defensive-pistol/match-engine/app/modules/sync/infrastructure/repositories"
	"github.com/cascade-defensive-pistol/match-engine/app/shared/sharedtypes"
	"github.com/cascade-defensive-pistol/match-engine/internal/results"
)

// FakeQueueRepository is an in-memory Repository for service tests.
type FakeQueueRepository struct {
	Items map[sharedtypes.QueueItemID]*syncdb.QueueItem
}

func NewFakeQueueRepository() *FakeQueueRepository {
	return &FakeQueueRepository{Items: map[sharedtypes.QueueItemID]*syncdb.QueueItem{}}
}

func (f *FakeQueueRepository) Create(_ context.Context, _ bun.IDB, item *syncdb.QueueItem) error {
	copied := *item
	f.Items[item.ID] = &copied
	return nil
}

func (f *FakeQueueRepository) GetByID(_ context.Context, _ bun.IDB, id sharedtypes.QueueItemID) (*syncdb.QueueItem, error) {
	item, ok := f.Items[id]
	if !ok {
		return nil, syncdb.ErrItemNotFound
	}
	copied := *item
	return &copied, nil
}

func (f *FakeQueueRepository) pendingInOrder(userID sharedtypes.UserID) []*syncdb.QueueItem {
	var pending []*syncdb.QueueItem
	for _, item := range f.Items {
		if item.UserID == userID && item.Status == syncdomain.StatusPending {
			pending = append(pending, item)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		if !pending[i].CreatedAt.Equal(pending[j].CreatedAt) {
			return pending[i].CreatedAt.Before(pending[j].CreatedAt)
		}
		return pending[i].ID.String() < pending[j].ID.String()
	})
	return pending
}

func (f *FakeQueueRepository) ListPending(_ context.Context, _ bun.IDB, userID sharedtypes.UserID) ([]syncdb.QueueItem, error) {
	var out []syncdb.QueueItem
	for _, item := range f.pendingInOrder(userID) {
		out = append(out, *item)
	}
	return out, nil
}

func (f *FakeQueueRepository) NextPending(_ context.Context, _ bun.IDB, userID sharedtypes.UserID) (*syncdb.QueueItem, error) {
	pending := f.pendingInOrder(userID)
	if len(pending) == 0 {
		return nil, syncdb.ErrItemNotFound
	}
	copied := *pending[0]
	return &copied, nil
}

func (f *FakeQueueRepository) ClaimProcessing(_ context.Context, _ bun.IDB, id sharedtypes.QueueItemID) (bool, error) {
	item, ok := f.Items[id]
	if !ok || item.Status != syncdomain.StatusPending {
		return false, nil
	}
	item.Status = syncdomain.StatusProcessing
	return true, nil
}

func (f *FakeQueueRepository) MarkCompleted(_ context.Context, _ bun.IDB, id sharedtypes.QueueItemID, completedAt time.Time, note string) error {
	item, ok := f.Items[id]
	if !ok {
		return syncdb.ErrItemNotFound
	}
	item.Status = syncdomain.StatusCompleted
	item.CompletedAt = &completedAt
	item.LastError = note
	return nil
}

func (f *FakeQueueRepository) MarkFailed(_ context.Context, _ bun.IDB, id sharedtypes.QueueItemID, retries int, lastError string) error {
	item, ok := f.Items[id]
	if !ok {
		return syncdb.ErrItemNotFound
	}
	item.Status = syncdomain.StatusFailed
	item.Retries = retries
	item.LastError = lastError
	return nil
}

func (f *FakeQueueRepository) ReturnToPending(_ context.Context, _ bun.IDB, id sharedtypes.QueueItemID, retries int, lastError string) error {
	item, ok := f.Items[id]
	if !ok {
		return syncdb.ErrItemNotFound
	}
	item.Status = syncdomain.StatusPending
	item.Retries = retries
	item.LastError = lastError
	return nil
}

func (f *FakeQueueRepository) CountsByStatus(_ context.Context, _ bun.IDB, userID sharedtypes.UserID) (syncdb.StatusCounts, error) {
	var counts syncdb.StatusCounts
	for _, item := range f.Items {
		if item.UserID != userID {
			continue
		}
		switch item.Status {
		case syncdomain.StatusPending:
			counts.Pending++
		case syncdomain.StatusProcessing:
			counts.Processing++
		case syncdomain.StatusCompleted:
			counts.Completed++
		case syncdomain.StatusFailed:
			counts.Failed++
		}
	}
	return counts, nil
}

func (f *FakeQueueRepository) DeleteCompletedBefore(_ context.Context, _ bun.IDB, cutoff time.Time) (int, error) {
	deleted := 0
	for id, item := range f.Items {
		if item.Status == syncdomain.StatusCompleted && item.CompletedAt != nil && item.CompletedAt.Before(cutoff) {
			delete(f.Items, id)
			deleted++
		}
	}
	return deleted, nil
}

var _ syncdb.Repository = (*FakeQueueRepository)(nil)

// FakeScoringService records submissions and serves scripted outcomes.
type FakeScoringService struct {
	SubmitCalls []scoringevents.ScoreSubmissionRequestedPayloadV1
	UpdateCalls []scoringevents.ScoreUpdateRequestedPayloadV1

	SubmitFunc func(payload scoringevents.ScoreSubmissionRequestedPayloadV1) (scoringservice.SubmitScoreResult, error)
	UpdateFunc func(payload scoringevents.ScoreUpdateRequestedPayloadV1) (scoringservice.UpdateScoreResult, error)
}

func (f *FakeScoringService) SubmitScore(_ context.Context, payload scoringevents.ScoreSubmissionRequestedPayloadV1) (scoringservice.SubmitScoreResult, error) {
	f.SubmitCalls = append(f.SubmitCalls, payload)
	if f.SubmitFunc != nil {
		return f.SubmitFunc(payload)
	}
	return results.Success[scoringevents.ScoreSubmittedPayloadV1, scoringevents.ScoreSubmissionFailedPayloadV1](
		scoringevents.ScoreSubmittedPayloadV1{
			ScoreID:      sharedtypes.ScoreID{},
			TournamentID: payload.TournamentID,
			StageID:      payload.StageID,
			ShooterID:    payload.ShooterID,
		}), nil
}

func (f *FakeScoringService) UpdateScore(_ context.Context, payload scoringevents.ScoreUpdateRequestedPayloadV1) (scoringservice.UpdateScoreResult, error) {
	f.UpdateCalls = append(f.UpdateCalls, payload)
	if f.UpdateFunc != nil {
		return f.UpdateFunc(payload)
	}
	return results.Success[scoringservice.UpdateScoreSuccess, scoringservice.UpdateScoreFailure](
		scoringservice.UpdateScoreSuccess{
			Updated: scoringevents.ScoreUpdatedPayloadV1{ScoreID: payload.ScoreID},
		}), nil
}

func (f *FakeScoringService) ResolveConflict(context.Context, scoringevents.ScoreConflictResolutionRequestedPayloadV1) (scoringservice.ResolveConflictResult, error) {
	return scoringservice.ResolveConflictResult{}, nil
}

func (f *FakeScoringService) GetScoresForTournament(context.Context, sharedtypes.TournamentID) ([]scoringdb.StageScore, error) {
	return nil, nil
}

var _ scoringservice.Service = (*FakeScoringService)(nil)

// FakeRegistrationService records registrations and serves scripted outcomes.
type FakeRegistrationService struct {
	RegisterCalls []registrationevents.RegistrationRequestedPayloadV1

	RegisterFunc func(payload registrationevents.RegistrationRequestedPayloadV1) (registrationservice.RegisterResult, error)
}

func (f *FakeRegistrationService) Register(_ context.Context, payload registrationevents.RegistrationRequestedPayloadV1) (registrationservice.RegisterResult, error) {
	f.RegisterCalls = append(f.RegisterCalls, payload)
	if f.RegisterFunc != nil {
		return f.RegisterFunc(payload)
	}
	return results.Success[registrationservice.RegisterSuccess, registrationevents.RegistrationFailedPayloadV1](
		registrationservice.RegisterSuccess{
			Registered: &registrationevents.ShooterRegisteredPayloadV1{
				TournamentID: payload.TournamentID,
				ShooterID:    payload.ShooterID,
				SquadID:      payload.SquadID,
			},
		}), nil
}

func (f *FakeRegistrationService) Cancel(context.Context, registrationevents.CancellationRequestedPayloadV1) (registrationservice.CancelResult, error) {
	return registrationservice.CancelResult{}, nil
}

func (f *FakeRegistrationService) Transfer(context.Context, registrationevents.TransferRequestedPayloadV1) (registrationservice.TransferResult, error) {
	return registrationservice.TransferResult{}, nil
}

func (f *FakeRegistrationService) CheckIn(context.Context, registrationevents.CheckInRequestedPayloadV1) (registrationservice.CheckInResult, error) {
	return registrationservice.CheckInResult{}, nil
}

func (f *FakeRegistrationService) SetCapacity(context.Context, registrationevents.SquadCapacityChangeRequestedPayloadV1) (registrationservice.SetCapacityResult, error) {
	return registrationservice.SetCapacityResult{}, nil
}

func (f *FakeRegistrationService) CloseSquad(context.Context, registrationevents.SquadCloseRequestedPayloadV1) (registrationservice.SquadStatusResult, error) {
	return registrationservice.SquadStatusResult{}, nil
}

func (f *FakeRegistrationService) OpenSquad(context.Context, registrationevents.SquadOpenRequestedPayloadV1) (registrationservice.SquadStatusResult, error) {
	return registrationservice.SquadStatusResult{}, nil
}

func (f *FakeRegistrationService) GetRegistration(context.Context, sharedtypes.RegistrationID) (*registrationdb.Registration, error) {
	return nil, registrationdb.ErrRegistrationNotFound
}

func (f *FakeRegistrationService) ListSquads(context.Context, sharedtypes.TournamentID) ([]registrationdb.Squad, error) {
	return nil, nil
}

func (f *FakeRegistrationService) ListRegistrations(context.Context, sharedtypes.TournamentID) ([]registrationdb.Registration, error) {
	return nil, nil
}

var _ registrationservice.Service = (*FakeRegistrationService)(nil)
