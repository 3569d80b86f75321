package syncservice

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	registrationservice "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/application"
	scoringservice "github.com/cascade-defensive-pistol/match-engine/app/modules/scoring/application"
	syncdomain "github.com/cascade-defensive-pistol/match-engine/app/modules/sync/domain"
	syncdb "github.com/cascade-defensive-pistol/match-engine/app/modules/sync/infrastructure/repositories"
	"github.com/cascade-defensive-pistol/match-engine/internal/eventbus"
	"github.com/cascade-defensive-pistol/match-engine/internal/observability/attr"
	"github.com/cascade-defensive-pistol/match-engine/internal/observability/metrics"
	"github.com/cascade-defensive-pistol/match-engine/internal/results"
)

// DrainRateLimit bounds how fast a drain replays items against the server.
// One item roughly every 200ms, with a small burst for short queues.
var DrainRateLimit = rate.Limit(5)

// DrainBurst is the limiter burst size for a drain pass.
const DrainBurst = 2

// SyncService implements the Service interface. It replays queued offline
// mutations through the scoring and registration services, so a replayed
// item goes through exactly the validation and conflict handling a live
// request would.
type SyncService struct {
	repo         syncdb.Repository
	scoring      scoringservice.Service
	registration registrationservice.Service
	EventBus     eventbus.EventBus
	logger       *slog.Logger
	metrics      metrics.SyncMetrics
	tracer       trace.Tracer
	db           *bun.DB
	limiter      *rate.Limiter
	maxRetries   int
	retention    time.Duration
	now          func() time.Time
}

// NewSyncService creates a new SyncService.
func NewSyncService(
	repo syncdb.Repository,
	scoring scoringservice.Service,
	registration registrationservice.Service,
	eventBus eventbus.EventBus,
	logger *slog.Logger,
	metrics metrics.SyncMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *SyncService {
	return &SyncService{
		repo:         repo,
		scoring:      scoring,
		registration: registration,
		EventBus:     eventBus,
		logger:       logger,
		metrics:      metrics,
		tracer:       tracer,
		db:           db,
		limiter:      rate.NewLimiter(DrainRateLimit, DrainBurst),
		maxRetries:   syncdomain.MaxRetries,
		retention:    syncdomain.CompletedRetention,
		now:          time.Now,
	}
}

// SetPolicy overrides the retry ceiling, retention window, and drain rate.
// Zero values keep the current setting.
func (s *SyncService) SetPolicy(maxRetries int, retention time.Duration, drainRate float64) {
	if maxRetries > 0 {
		s.maxRetries = maxRetries
	}
	if retention > 0 {
		s.retention = retention
	}
	if drainRate > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(drainRate), DrainBurst)
	}
}

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *SyncService,
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
	s *SyncService,
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
