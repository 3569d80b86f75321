package registrationrouter

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

	registrationservice "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/application"
	registrationevents "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/events"
	registrationhandlers "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/infrastructure/handlers"
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

// RegistrationRouter routes registration events to their handlers.
type RegistrationRouter struct {
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

// NewRegistrationRouter creates a new RegistrationRouter.
func NewRegistrationRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber eventbus.EventBus,
	publisher eventbus.EventBus,
	config *config.Config,
	helper utils.Helpers,
	tracer trace.Tracer,
	prometheusRegistry *prometheus.Registry,
) *RegistrationRouter {
	inTestEnv := os.Getenv(TestEnvironmentFlag) == TestEnvironmentValue

	var metricsBuilder *metrics.PrometheusMetricsBuilder
	if prometheusRegistry != nil && !inTestEnv {
		builder := metrics.NewPrometheusMetricsBuilder(prometheusRegistry, "", "")
		metricsBuilder = &builder
	}
	return &RegistrationRouter{
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
func (r *RegistrationRouter) Configure(routerCtx context.Context, service registrationservice.Service, registrationMetrics obsmetrics.RegistrationMetrics) error {
	if r.metricsEnabled && r.metricsBuilder != nil {
		r.metricsBuilder.AddPrometheusRouterMetrics(r.Router)
	}

	handlers := registrationhandlers.NewRegistrationHandlers(service, r.logger, r.tracer, r.helper, registrationMetrics)

	r.Router.AddMiddleware(
		middleware.CorrelationID,
		r.middlewareHelper.CommonMetadataMiddleware("registration"),
		middleware.Recoverer,
		middleware.Retry{MaxRetries: 3}.Middleware,
	)

	if err := r.RegisterHandlers(routerCtx, handlers); err != nil {
		return fmt.Errorf("failed to register handlers: %w", err)
	}
	return nil
}

// RegisterHandlers registers event handlers for the registration subjects.
func (r *RegistrationRouter) RegisterHandlers(ctx context.Context, handlers registrationhandlers.Handlers) error {
	eventsToHandlers := map[string]message.HandlerFunc{
		registrationevents.RegistrationRequestedV1:        handlers.HandleRegistrationRequest,
		registrationevents.CancellationRequestedV1:        handlers.HandleCancellationRequest,
		registrationevents.TransferRequestedV1:            handlers.HandleTransferRequest,
		registrationevents.CheckInRequestedV1:             handlers.HandleCheckInRequest,
		registrationevents.SquadCapacityChangeRequestedV1: handlers.HandleSquadCapacityChangeRequest,
		registrationevents.SquadCloseRequestedV1:          handlers.HandleSquadCloseRequest,
		registrationevents.SquadOpenRequestedV1:           handlers.HandleSquadOpenRequest,
	}

	for topic, handlerFunc := range eventsToHandlers {
		handlerName := fmt.Sprintf("registration.%s", topic)
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

func (r *RegistrationRouter) Close() error {
	return r.Router.Close()
}
