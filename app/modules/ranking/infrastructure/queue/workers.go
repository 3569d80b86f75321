package rankingqueue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/riverqueue/river"

	rankingservice "github.com/cascade-defensive-pistol/match-engine/app/modules/ranking/application"
	rankingevents "github.com/cascade-defensive-pistol/match-engine/app/modules/ranking/events"
	"github.com/cascade-defensive-pistol/match-engine/internal/eventbus"
	"github.com/cascade-defensive-pistol/match-engine/internal/observability/attr"
	"github.com/cascade-defensive-pistol/match-engine/internal/utils"
)

// RecomputeWorker executes queued standings rebuilds.
type RecomputeWorker struct {
	river.WorkerDefaults[RecomputeJob]
	logger   *slog.Logger
	service  rankingservice.Service
	eventBus eventbus.EventBus
	helpers  utils.Helpers
}

// NewRecomputeWorker creates a worker bound to the ranking service.
func NewRecomputeWorker(logger *slog.Logger, service rankingservice.Service, eventBus eventbus.EventBus, helpers utils.Helpers) *RecomputeWorker {
	return &RecomputeWorker{
		logger:   logger,
		service:  service,
		eventBus: eventBus,
		helpers:  helpers,
	}
}

// Work runs one recompute and announces the committed standings.
func (w *RecomputeWorker) Work(ctx context.Context, job *river.Job[RecomputeJob]) error {
	tournamentID := job.Args.TournamentID

	w.logger.InfoContext(ctx, "Executing ranking recompute job",
		attr.String("tournament_id", tournamentID.String()),
		attr.Int64("job_id", job.ID),
	)

	result, err := w.service.RecomputeRankings(ctx, rankingevents.RankingRecomputeRequestedPayloadV1{
		TournamentID: tournamentID,
	})
	if err != nil {
		return fmt.Errorf("failed to recompute rankings for tournament %s: %w", tournamentID, err)
	}
	if result.IsFailure() {
		// Business failures are terminal for the job: retrying replays the
		// same inputs and the next score write re-enqueues anyway.
		w.logger.WarnContext(ctx, "Recompute returned failure result",
			attr.String("tournament_id", tournamentID.String()),
			attr.String("reason", result.Failure.Reason),
		)
		return nil
	}

	if w.eventBus == nil {
		return nil
	}
	msg, err := w.helpers.CreateNewMessage(result.Success, rankingevents.TournamentRankingUpdatedV1)
	if err != nil {
		return fmt.Errorf("failed to create ranking updated message: %w", err)
	}
	if err := w.eventBus.Publish(ctx, rankingevents.TournamentRankingUpdatedV1, msg); err != nil {
		return fmt.Errorf("failed to publish ranking updated event: %w", err)
	}
	return nil
}
