package rankingservice

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	rankingdb "github.com/cascade-defensive-pistol/match-engine/app/modules/ranking/infrastructure/repositories"
	registrationdb "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/infrastructure/repositories"
	scoringdb "github.com/cascade-defensive-pistol/match-engine/app/modules/scoring/infrastructure/repositories"
	"github.com/cascade-defensive-pistol/match-engine/internal/eventbus"
	"github.com/cascade-defensive-pistol/match-engine/internal/observability/attr"
	"github.com/cascade-defensive-pistol/match-engine/internal/observability/metrics"
	"github.com/cascade-defensive-pistol/match-engine/internal/results"
)

// RankingService implements the Service interface. It reads committed stage
// scores and registrations, ranks them, and overwrites the derived
// match_results rows wholesale.
type RankingService struct {
	resultRepo rankingdb.Repository
	scores     scoringdb.Repository
	regs       registrationdb.Repository
	EventBus   eventbus.EventBus
	logger     *slog.Logger
	metrics    metrics.RankingMetrics
	tracer     trace.Tracer
	db         *bun.DB
	now        func() time.Time
}

// NewRankingService creates a new RankingService.
func NewRankingService(
	resultRepo rankingdb.Repository,
	scores scoringdb.Repository,
	regs registrationdb.Repository,
	eventBus eventbus.EventBus,
	logger *slog.Logger,
	metrics metrics.RankingMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *RankingService {
	return &RankingService{
		resultRepo: resultRepo,
		scores:     scores,
		regs:       regs,
		EventBus:   eventBus,
		logger:     logger,
		metrics:    metrics,
		tracer:     tracer,
		db:         db,
		now:        time.Now,
	}
}

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *RankingService,
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
	s *RankingService,
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
