package registrationservice

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	registrationdomain "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/domain"
	registrationevents "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/events"
	registrationdb "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/infrastructure/repositories"
	"github.com/cascade-defensive-pistol/match-engine/internal/eventbus"
	"github.com/cascade-defensive-pistol/match-engine/internal/observability/attr"
	"github.com/cascade-defensive-pistol/match-engine/internal/observability/metrics"
	"github.com/cascade-defensive-pistol/match-engine/internal/results"
)

// RegistrationService implements the Service interface. Every capacity
// mutation locks the squad row first; the squad counters are never touched
// outside these operations.
type RegistrationService struct {
	repo     registrationdb.Repository
	EventBus eventbus.EventBus
	logger   *slog.Logger
	metrics  metrics.RegistrationMetrics
	tracer   trace.Tracer
	db       *bun.DB
	now      func() time.Time
}

// NewRegistrationService creates a new RegistrationService.
func NewRegistrationService(
	repo registrationdb.Repository,
	eventBus eventbus.EventBus,
	logger *slog.Logger,
	metrics metrics.RegistrationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *RegistrationService {
	return &RegistrationService{
		repo:     repo,
		EventBus: eventBus,
		logger:   logger,
		metrics:  metrics,
		tracer:   tracer,
		db:       db,
		now:      time.Now,
	}
}

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *RegistrationService,
	ctx context.Context,
	operationName string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {

	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName)

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, time.Since(startTime))
	}()

	s.logger.InfoContext(ctx, operationName+" triggered",
		attr.String("operation", operationName),
		attr.ExtractCorrelationID(ctx),
	)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.Error(err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName)
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.Error(wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName)
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.Any("failure_payload", *result.Failure),
		)
	}

	if result.IsSuccess() {
		s.logger.InfoContext(ctx, operationName+" completed successfully",
			attr.String("operation", operationName),
			attr.ExtractCorrelationID(ctx),
		)
		s.metrics.RecordOperationSuccess(ctx, operationName)
	}

	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[S any, F any](
	s *RegistrationService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {
	if s.db == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, F]
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})

	return result, err
}

// promoteWaitlisted flips waitlisted registrations to registered while the
// squad has spare capacity, in FIFO order. Caller must hold the squad row
// lock; the loop runs until capacity is exhausted or the waitlist empties,
// so a capacity increase of N promotes up to N shooters.
func (s *RegistrationService) promoteWaitlisted(ctx context.Context, db bun.IDB, squad *registrationdb.Squad) ([]registrationevents.ShooterPromotedPayloadV1, error) {
	var promoted []registrationevents.ShooterPromotedPayloadV1

	for squad.HasSpareCapacity() {
		waitlist, err := s.repo.FindWaitlisted(ctx, db, squad.ID)
		if err != nil {
			return nil, err
		}
		if len(waitlist) == 0 {
			break
		}

		next := waitlist[0]
		next.Status = registrationdomain.StatusRegistered
		if err := s.repo.UpdateRegistration(ctx, db, &next); err != nil {
			return nil, err
		}

		squad.CurrentShooters++
		promoted = append(promoted, registrationevents.ShooterPromotedPayloadV1{
			RegistrationID: next.ID,
			TournamentID:   next.TournamentID,
			ShooterID:      next.ShooterID,
			SquadID:        squad.ID,
		})
		s.metrics.RecordWaitlistPromotion(ctx, squad.ID.String())
	}

	squad.Status = registrationdomain.DeriveSquadStatus(squad.CurrentShooters, squad.MaxShooters, squad.ManuallyClosed)
	return promoted, nil
}
