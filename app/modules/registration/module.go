package registration

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"

	registrationservice "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/application"
	registrationdb "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/infrastructure/repositories"
	registrationrouter "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/infrastructure/router"
	"github.com/cascade-defensive-pistol/match-engine/config"
	"github.com/cascade-defensive-pistol/match-engine/internal/eventbus"
	"github.com/cascade-defensive-pistol/match-engine/internal/observability/metrics"
	"github.com/cascade-defensive-pistol/match-engine/internal/utils"
)

// Module wires the registration service, repository, and router together.
type Module struct {
	EventBus            eventbus.EventBus
	RegistrationService registrationservice.Service
	RegistrationRouter  *registrationrouter.RegistrationRouter
	logger              *slog.Logger
	config              *config.Config
	cancelFunc          context.CancelFunc
}

// NewRegistrationModule creates a new instance of the registration module.
func NewRegistrationModule(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	tracer trace.Tracer,
	registrationMetrics metrics.RegistrationMetrics,
	repo registrationdb.Repository,
	eventBus eventbus.EventBus,
	router *message.Router,
	helpers utils.Helpers,
	db *bun.DB,
	registry *prometheus.Registry,
) (*Module, error) {
	service := registrationservice.NewRegistrationService(repo, eventBus, logger, registrationMetrics, tracer, db)

	registrationRouter := registrationrouter.NewRegistrationRouter(logger, router, eventBus, eventBus, cfg, helpers, tracer, registry)
	if err := registrationRouter.Configure(ctx, service, registrationMetrics); err != nil {
		return nil, fmt.Errorf("failed to configure registration router: %w", err)
	}

	return &Module{
		EventBus:            eventBus,
		RegistrationService: service,
		RegistrationRouter:  registrationRouter,
		logger:              logger,
		config:              cfg,
	}, nil
}

// Run keeps the module alive until the context is canceled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting registration module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	m.logger.Info("Registration module goroutine stopped")
}

func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}
