package scoring

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"

	scoringservice "github.com/cascade-defensive-pistol/match-engine/app/modules/scoring/application"
	scoringdb "github.com/cascade-defensive-pistol/match-engine/app/modules/scoring/infrastructure/repositories"
	scoringrouter "github.com/cascade-defensive-pistol/match-engine/app/modules/scoring/infrastructure/router"
	"github.com/cascade-defensive-pistol/match-engine/config"
	"github.com/cascade-defensive-pistol/match-engine/internal/eventbus"
	"github.com/cascade-defensive-pistol/match-engine/internal/observability/metrics"
	"github.com/cascade-defensive-pistol/match-engine/internal/utils"
)

// Module wires the scoring service, repository, and router together.
type Module struct {
	EventBus       eventbus.EventBus
	ScoringService scoringservice.Service
	ScoringRouter  *scoringrouter.ScoringRouter
	logger         *slog.Logger
	config         *config.Config
	cancelFunc     context.CancelFunc
}

// NewScoringModule creates a new instance of the scoring module.
func NewScoringModule(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	tracer trace.Tracer,
	scoringMetrics metrics.ScoringMetrics,
	repo scoringdb.Repository,
	eventBus eventbus.EventBus,
	router *message.Router,
	helpers utils.Helpers,
	db *bun.DB,
	registry *prometheus.Registry,
) (*Module, error) {
	service := scoringservice.NewScoringService(repo, eventBus, logger, scoringMetrics, tracer, db)

	scoringRouter := scoringrouter.NewScoringRouter(logger, router, eventBus, eventBus, cfg, helpers, tracer, registry)
	if err := scoringRouter.Configure(ctx, service, scoringMetrics); err != nil {
		return nil, fmt.Errorf("failed to configure scoring router: %w", err)
	}

	return &Module{
		EventBus:       eventBus,
		ScoringService: service,
		ScoringRouter:  scoringRouter,
		logger:         logger,
		config:         cfg,
	}, nil
}

// Run keeps the module alive until the context is canceled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting scoring module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	m.logger.Info("Scoring module goroutine stopped")
}

func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}
