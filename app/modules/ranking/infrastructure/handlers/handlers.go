package rankinghandlers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/trace"

	rankingqueue "github.com/cascade-defensive-pistol/match-engine/app/modules/ranking/infrastructure/queue"
	"github.com/cascade-defensive-pistol/match-engine/internal/observability/attr"
	"github.com/cascade-defensive-pistol/match-engine/internal/observability/metrics"
	"github.com/cascade-defensive-pistol/match-engine/internal/utils"
)

// RankingHandlers turns committed score and registration changes into queued
// recompute jobs. Handlers never recompute inline: the queue serializes and
// coalesces the work per tournament.
type RankingHandlers struct {
	queue          rankingqueue.QueueService
	logger         *slog.Logger
	tracer         trace.Tracer
	metrics        metrics.RankingMetrics
	helpers        utils.Helpers
	handlerWrapper func(handlerName string, unmarshalTo interface{}, handlerFunc func(ctx context.Context, msg *message.Message, payload interface{}) ([]*message.Message, error)) message.HandlerFunc
}

// NewRankingHandlers creates a new RankingHandlers.
func NewRankingHandlers(
	queue rankingqueue.QueueService,
	logger *slog.Logger,
	tracer trace.Tracer,
	helpers utils.Helpers,
	metrics metrics.RankingMetrics,
) Handlers {
	return &RankingHandlers{
		queue:   queue,
		logger:  logger,
		tracer:  tracer,
		helpers: helpers,
		metrics: metrics,
		handlerWrapper: func(handlerName string, unmarshalTo interface{}, handlerFunc func(ctx context.Context, msg *message.Message, payload interface{}) ([]*message.Message, error)) message.HandlerFunc {
			return handlerWrapper(handlerName, unmarshalTo, handlerFunc, logger, metrics, tracer, helpers)
		},
	}
}

// handlerWrapper handles common tracing, logging, and metrics for handlers.
func handlerWrapper(
	handlerName string,
	unmarshalTo interface{},
	handlerFunc func(ctx context.Context, msg *message.Message, payload interface{}) ([]*message.Message, error),
	logger *slog.Logger,
	metrics metrics.RankingMetrics,
	tracer trace.Tracer,
	helpers utils.Helpers,
) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		ctx, span := tracer.Start(msg.Context(), handlerName)
		defer span.End()

		metrics.RecordOperationAttempt(ctx, handlerName)

		startTime := time.Now()
		defer func() {
			metrics.RecordOperationDuration(ctx, handlerName, time.Since(startTime))
		}()

		logger.InfoContext(ctx, handlerName+" triggered",
			attr.CorrelationIDFromMsg(msg),
			attr.String("message_id", msg.UUID),
		)

		if unmarshalTo != nil {
			if err := helpers.UnmarshalPayload(msg, unmarshalTo); err != nil {
				logger.ErrorContext(ctx, "Failed to unmarshal payload",
					attr.CorrelationIDFromMsg(msg),
					attr.Error(err),
				)
				metrics.RecordOperationFailure(ctx, handlerName)
				return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
			}
		}

		result, err := handlerFunc(ctx, msg, unmarshalTo)
		if err != nil {
			logger.ErrorContext(ctx, "Error in "+handlerName,
				attr.CorrelationIDFromMsg(msg),
				attr.Error(err),
			)
			metrics.RecordOperationFailure(ctx, handlerName)
			return nil, err
		}

		logger.InfoContext(ctx, handlerName+" completed successfully", attr.CorrelationIDFromMsg(msg))
		metrics.RecordOperationSuccess(ctx, handlerName)
		return result, nil
	}
}
