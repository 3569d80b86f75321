package rankingrouter

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	rankingevents "github.com/cascade-defensive-pistol/match-engine/app/modules/ranking/events"
	rankinghandlers "github.com/cascade-defensive-pistol/match-engine/app/modules/ranking/infrastructure/handlers"
	rankingqueue "github.com/cascade-defensive-pistol/match-engine/app/modules/ranking/infrastructure/queue"
	registrationevents "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/events"
	scoringevents "github.com/cascade-defensive-pistol/match-engine/app/modules/scoring/events"
	"github.com/cascade-defensive-pistol/match-engine/config"
	"github.com/cascade-defensive-pistol/match-engine/internal/eventbus"
	"github.com/cascade-defensive-pistol/match-engine/internal/observability/attr"
	obsmetrics "github.com/cascade-defensive-pistol/match-engine/internal/observability/metrics"
	"github.com/cascade-defensive-pistol/match-engine/internal/utils"
)

const (
	TestEnvironmentFlag  = "APP_ENV"
	TestEnvironmentValue = "test"
)

// RankingRouter routes score and registration change events into recompute jobs.
type RankingRouter struct {
	logger             *slog.Logger
	Router             *message.Router
	subscriber         eventbus.EventBus
	publisher          eventbus.EventBus
	config             *config.Config
	helper             utils.Helpers
	tracer             trace.Tracer
	middlewareHelper   utils.MiddlewareHelpers
	metricsBuilder     *metrics.PrometheusMetricsBuilder
	prometheusRegistry *prometheus.Registry
	metricsEnabled     bool
}

// NewRankingRouter creates a new RankingRouter.
func NewRankingRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber eventbus.EventBus,
	publisher eventbus.EventBus,
	config *config.Config,
	helper utils.Helpers,
	tracer trace.Tracer,
	prometheusRegistry *prometheus.Registry,
) *RankingRouter {
	inTestEnv := os.Getenv(TestEnvironmentFlag) == TestEnvironmentValue

	var metricsBuilder *metrics.PrometheusMetricsBuilder
	if prometheusRegistry != nil && !inTestEnv {
		builder := metrics.NewPrometheusMetricsBuilder(prometheusRegistry, "", "")
		metricsBuilder = &builder
	}
	return &RankingRouter{
		logger:             logger,
		Router:             router,
		subscriber:         subscriber,
		publisher:          publisher,
		config:             config,
		helper:             helper,
		tracer:             tracer,
		middlewareHelper:   utils.NewMiddlewareHelper(),
		metricsBuilder:     metricsBuilder,
		prometheusRegistry: prometheusRegistry,
		metricsEnabled:     prometheusRegistry != nil && !inTestEnv,
	}
}

// Configure registers handlers and adds middleware to the router.
func (r *RankingRouter) Configure(routerCtx context.Context, queue rankingqueue.QueueService, rankingMetrics obsmetrics.RankingMetrics) error {
	if r.metricsEnabled && r.metricsBuilder != nil {
		r.metricsBuilder.AddPrometheusRouterMetrics(r.Router)
	}

	handlers := rankinghandlers.NewRankingHandlers(queue, r.logger, r.tracer, r.helper, rankingMetrics)

	r.Router.AddMiddleware(
		middleware.CorrelationID,
		r.middlewareHelper.CommonMetadataMiddleware("ranking"),
		middleware.Recoverer,
		middleware.Retry{MaxRetries: 3}.Middleware,
	)

	if err := r.RegisterHandlers(routerCtx, handlers); err != nil {
		return fmt.Errorf("failed to register handlers: %w", err)
	}
	return nil
}

// RegisterHandlers registers event handlers for the subjects that invalidate standings.
func (r *RankingRouter) RegisterHandlers(ctx context.Context, handlers rankinghandlers.Handlers) error {
	eventsToHandlers := map[string]message.HandlerFunc{
		scoringevents.ScoreSubmittedV1:            handlers.HandleScoreSubmitted,
		scoringevents.ScoreUpdatedV1:              handlers.HandleScoreUpdated,
		registrationevents.ShooterCheckedInV1:     handlers.HandleShooterCheckedIn,
		rankingevents.RankingRecomputeRequestedV1: handlers.HandleRecomputeRequested,
	}

	for topic, handlerFunc := range eventsToHandlers {
		handlerName := fmt.Sprintf("ranking.%s", topic)
		r.Router.AddHandler(
			handlerName,
			topic,
			r.subscriber.Subscriber(),
			"",
			nil,
			func(msg *message.Message) ([]*message.Message, error) {
				messages, err := handlerFunc(msg)
				if err != nil {
					r.logger.ErrorContext(ctx, "Error processing message", attr.String("message_id", msg.UUID), attr.Any("error", err))
					return nil, err
				}
				for _, m := range messages {
					publishTopic := m.Metadata.Get(utils.TopicMetadataKey)
					if publishTopic == "" {
						r.logger.Error("router failed to resolve publish topic - MESSAGE DROPPED",
							attr.String("handler", handlerName),
							attr.String("msg_uuid", m.UUID),
							attr.String("correlation_id", m.Metadata.Get("correlation_id")),
						)
						continue
					}

					if err := r.publisher.Publish(ctx, publishTopic, m); err != nil {
						return nil, fmt.Errorf("failed to publish to %s: %w", publishTopic, err)
					}
				}
				return nil, nil
			},
		)
	}
	return nil
}

func (r *RankingRouter) Close() error {
	return r.Router.Close()
}
