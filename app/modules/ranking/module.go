package ranking

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"

	rankingservice "github.com/cascade-defensive-pistol/match-engine/app/modules/ranking/application"
	rankingqueue "github.com/cascade-defensive-pistol/match-engine/app/modules/ranking/infrastructure/queue"
	rankingdb "github.com/cascade-defensive-pistol/match-engine/app/modules/ranking/infrastructure/repositories"
	rankingrouter "github.com/cascade-defensive-pistol/match-engine/app/modules/ranking/infrastructure/router"
	registrationdb "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/infrastructure/repositories"
	scoringdb "github.com/cascade-defensive-pistol/match-engine/app/modules/scoring/infrastructure/repositories"
	"github.com/cascade-defensive-pistol/match-engine/config"
	"github.com/cascade-defensive-pistol/match-engine/internal/eventbus"
	"github.com/cascade-defensive-pistol/match-engine/internal/observability/metrics"
	"github.com/cascade-defensive-pistol/match-engine/internal/utils"
)

// Module wires the ranking service, repositories, queue, and router together.
type Module struct {
	EventBus       eventbus.EventBus
	RankingService rankingservice.Service
	QueueService   rankingqueue.QueueService
	RankingRouter  *rankingrouter.RankingRouter
	logger         *slog.Logger
	config         *config.Config
	cancelFunc     context.CancelFunc
}

// NewRankingModule creates a new instance of the ranking module.
func NewRankingModule(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	tracer trace.Tracer,
	rankingMetrics metrics.RankingMetrics,
	resultRepo rankingdb.Repository,
	scoreRepo scoringdb.Repository,
	registrationRepo registrationdb.Repository,
	eventBus eventbus.EventBus,
	router *message.Router,
	helpers utils.Helpers,
	db *bun.DB,
	registry *prometheus.Registry,
) (*Module, error) {
	service := rankingservice.NewRankingService(resultRepo, scoreRepo, registrationRepo, eventBus, logger, rankingMetrics, tracer, db)

	queueService, err := rankingqueue.NewService(ctx, db, logger, cfg.Postgres.DSN, rankingMetrics, service, eventBus, helpers)
	if err != nil {
		return nil, fmt.Errorf("failed to create ranking queue service: %w", err)
	}

	rankingRouter := rankingrouter.NewRankingRouter(logger, router, eventBus, eventBus, cfg, helpers, tracer, registry)
	if err := rankingRouter.Configure(ctx, queueService, rankingMetrics); err != nil {
		return nil, fmt.Errorf("failed to configure ranking router: %w", err)
	}

	return &Module{
		EventBus:       eventBus,
		RankingService: service,
		QueueService:   queueService,
		RankingRouter:  rankingRouter,
		logger:         logger,
		config:         cfg,
	}, nil
}

// Run starts the queue service and keeps the module alive until the context
// is canceled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting ranking module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	if err := m.QueueService.Start(ctx); err != nil {
		m.logger.ErrorContext(ctx, "Failed to start ranking queue service")
		return
	}

	<-ctx.Done()

	if err := m.QueueService.Stop(context.Background()); err != nil {
		m.logger.Error("Failed to stop ranking queue service")
	}
	m.logger.Info("Ranking module goroutine stopped")
}

func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}
