package sync

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
	scoringservice "github.com/cascade-defensive-pistol/match-engine/app/modules/scoring/application"
	syncservice "github.com/cascade-defensive-pistol/match-engine/app/modules/sync/application"
	syncqueue "github.com/cascade-defensive-pistol/match-engine/app/modules/sync/infrastructure/queue"
	syncdb "github.com/cascade-defensive-pistol/match-engine/app/modules/sync/infrastructure/repositories"
	syncrouter "github.com/cascade-defensive-pistol/match-engine/app/modules/sync/infrastructure/router"
	"github.com/cascade-defensive-pistol/match-engine/config"
	"github.com/cascade-defensive-pistol/match-engine/internal/eventbus"
	"github.com/cascade-defensive-pistol/match-engine/internal/observability/metrics"
	"github.com/cascade-defensive-pistol/match-engine/internal/utils"
)

// Module wires the sync service, repository, retention queue, and router
// together.
type Module struct {
	EventBus     eventbus.EventBus
	SyncService  syncservice.Service
	QueueService syncqueue.QueueService
	SyncRouter   *syncrouter.SyncRouter
	logger       *slog.Logger
	config       *config.Config
	cancelFunc   context.CancelFunc
}

// NewSyncModule creates a new instance of the sync module.
func NewSyncModule(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	tracer trace.Tracer,
	syncMetrics metrics.SyncMetrics,
	repo syncdb.Repository,
	scoringSvc scoringservice.Service,
	registrationSvc registrationservice.Service,
	eventBus eventbus.EventBus,
	router *message.Router,
	helpers utils.Helpers,
	db *bun.DB,
	registry *prometheus.Registry,
) (*Module, error) {
	service := syncservice.NewSyncService(repo, scoringSvc, registrationSvc, eventBus, logger, syncMetrics, tracer, db)
	service.SetPolicy(cfg.Sync.MaxRetries, cfg.Sync.Retention, cfg.Sync.DrainRate)

	queueService, err := syncqueue.NewService(ctx, db, logger, cfg.Postgres.DSN, syncMetrics, service)
	if err != nil {
		return nil, fmt.Errorf("failed to create sync queue service: %w", err)
	}

	syncRouter := syncrouter.NewSyncRouter(logger, router, eventBus, eventBus, cfg, helpers, tracer, registry)
	if err := syncRouter.Configure(ctx, service, syncMetrics); err != nil {
		return nil, fmt.Errorf("failed to configure sync router: %w", err)
	}

	return &Module{
		EventBus:     eventBus,
		SyncService:  service,
		QueueService: queueService,
		SyncRouter:   syncRouter,
		logger:       logger,
		config:       cfg,
	}, nil
}

// Run starts the retention queue and keeps the module alive until the
// context is canceled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting sync module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	if err := m.QueueService.Start(ctx); err != nil {
		m.logger.ErrorContext(ctx, "Failed to start sync queue service")
		return
	}

	<-ctx.Done()

	if err := m.QueueService.Stop(context.Background()); err != nil {
		m.logger.Error("Failed to stop sync queue service")
	}
	m.logger.Info("Sync module goroutine stopped")
}

func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}
