// Package app is the composition root: it builds the database service, the
// event bus, the watermill router, and every module, and runs them until the
// context is canceled.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/cascade-defensive-pistol/match-engine/app/api"
	"github.com/cascade-defensive-pistol/match-engine/app/modules/ranking"
	rankingevents "github.com/cascade-defensive-pistol/match-engine/app/modules/ranking/events"
	"github.com/cascade-defensive-pistol/match-engine/app/modules/registration"
	registrationevents "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/events"
	"github.com/cascade-defensive-pistol/match-engine/app/modules/scoring"
	scoringevents "github.com/cascade-defensive-pistol/match-engine/app/modules/scoring/events"
	syncmodule "github.com/cascade-defensive-pistol/match-engine/app/modules/sync"
	syncevents "github.com/cascade-defensive-pistol/match-engine/app/modules/sync/events"
	"github.com/cascade-defensive-pistol/match-engine/config"
	"github.com/cascade-defensive-pistol/match-engine/db/bundb"
	"github.com/cascade-defensive-pistol/match-engine/internal/eventbus"
	"github.com/cascade-defensive-pistol/match-engine/internal/observability/attr"
	"github.com/cascade-defensive-pistol/match-engine/internal/observability/metrics"
	"github.com/cascade-defensive-pistol/match-engine/internal/utils"
)

// App holds the application's long-lived components.
type App struct {
	Config             *config.Config
	DBService          *bundb.DBService
	EventBus           eventbus.EventBus
	WatermillRouter    *message.Router
	Metrics            *metrics.Bundle
	RegistrationModule *registration.Module
	ScoringModule      *scoring.Module
	RankingModule      *ranking.Module
	SyncModule         *syncmodule.Module
	APIServer          *api.Server

	logger        *slog.Logger
	tracer        trace.Tracer
	helpers       utils.Helpers
	metricsServer *http.Server
	cancelFunc    context.CancelFunc
}

// NewApp wires every component together. Nothing starts running until Run.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	dbService, err := bundb.NewBunDBService(ctx, cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database service: %w", err)
	}

	eventBus, err := eventbus.NewEventBus(ctx, cfg.NATS.URL, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize event bus: %w", err)
	}

	streams := map[string][]string{
		registrationevents.RegistrationStreamName: {registrationevents.RegistrationStreamName + ".>"},
		scoringevents.ScoringStreamName:           {scoringevents.ScoringStreamName + ".>"},
		rankingevents.RankingStreamName:           {rankingevents.RankingStreamName + ".>"},
		syncevents.SyncStreamName:                 {syncevents.SyncStreamName + ".>"},
	}
	for stream, subjects := range streams {
		if err := eventBus.EnsureStream(ctx, stream, subjects); err != nil {
			return nil, fmt.Errorf("failed to provision stream %s: %w", stream, err)
		}
	}

	watermillLogger := watermill.NewSlogLogger(logger)
	router, err := message.NewRouter(message.RouterConfig{}, watermillLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create watermill router: %w", err)
	}

	bundle := metrics.NewBundle("match_engine")
	tracer := otel.Tracer("match-engine")
	helpers := utils.NewHelpers()
	db := dbService.GetDB()

	registrationModule, err := registration.NewRegistrationModule(
		ctx, cfg, logger, tracer, bundle.Registration,
		dbService.RegistrationDB, eventBus, router, helpers, db, bundle.Registry,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize registration module: %w", err)
	}

	scoringModule, err := scoring.NewScoringModule(
		ctx, cfg, logger, tracer, bundle.Scoring,
		dbService.ScoringDB, eventBus, router, helpers, db, bundle.Registry,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize scoring module: %w", err)
	}

	rankingModule, err := ranking.NewRankingModule(
		ctx, cfg, logger, tracer, bundle.Ranking,
		dbService.RankingDB, dbService.ScoringDB, dbService.RegistrationDB,
		eventBus, router, helpers, db, bundle.Registry,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ranking module: %w", err)
	}

	syncModule, err := syncmodule.NewSyncModule(
		ctx, cfg, logger, tracer, bundle.Sync,
		dbService.SyncDB,
		scoringModule.ScoringService, registrationModule.RegistrationService,
		eventBus, router, helpers, db, bundle.Registry,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sync module: %w", err)
	}

	apiServer := api.NewServer(cfg, logger, api.Services{
		Registration: registrationModule.RegistrationService,
		Scoring:      scoringModule.ScoringService,
		Ranking:      rankingModule.RankingService,
		Sync:         syncModule.SyncService,
	}, bundle.Registry)

	return &App{
		Config:             cfg,
		DBService:          dbService,
		EventBus:           eventBus,
		WatermillRouter:    router,
		Metrics:            bundle,
		RegistrationModule: registrationModule,
		ScoringModule:      scoringModule,
		RankingModule:      rankingModule,
		SyncModule:         syncModule,
		APIServer:          apiServer,
		logger:             logger,
		tracer:             tracer,
		helpers:            helpers,
	}, nil
}

// Run starts the watermill router, the HTTP listeners, and every module, then
// blocks until the context is canceled.
func (app *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	app.cancelFunc = cancel
	defer cancel()

	go func() {
		if err := app.WatermillRouter.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			app.logger.ErrorContext(ctx, "Watermill router stopped", attr.Error(err))
			cancel()
		}
	}()

	select {
	case <-app.WatermillRouter.Running():
	case <-ctx.Done():
		return ctx.Err()
	}
	app.logger.InfoContext(ctx, "Watermill router running")

	if addr := app.Config.Observability.MetricsAddress; addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(app.Metrics.Registry, promhttp.HandlerOpts{}))
		app.metricsServer = &http.Server{Addr: addr, Handler: mux}
		go func() {
			if err := app.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				app.logger.Error("Metrics listener stopped", attr.Error(err))
			}
		}()
		app.logger.InfoContext(ctx, "Metrics listener started", attr.String("address", addr))
	}

	go func() {
		if err := app.APIServer.Start(ctx); err != nil {
			app.logger.ErrorContext(ctx, "API server stopped", attr.Error(err))
			cancel()
		}
	}()

	var wg sync.WaitGroup
	for _, module := range []interface {
		Run(ctx context.Context, wg *sync.WaitGroup)
	}{
		app.RegistrationModule,
		app.ScoringModule,
		app.RankingModule,
		app.SyncModule,
	} {
		wg.Add(1)
		go module.Run(ctx, &wg)
	}

	<-ctx.Done()
	app.logger.Info("Shutting down")
	wg.Wait()

	return nil
}

// Close releases every long-lived resource. Safe to call after Run returns.
func (app *App) Close() error {
	if app.cancelFunc != nil {
		app.cancelFunc()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var firstErr error
	record := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if app.APIServer != nil {
		record(app.APIServer.Shutdown(shutdownCtx))
	}
	if app.metricsServer != nil {
		record(app.metricsServer.Shutdown(shutdownCtx))
	}

	for _, module := range []interface{ Close() error }{
		app.SyncModule,
		app.RankingModule,
		app.ScoringModule,
		app.RegistrationModule,
	} {
		if module != nil {
			record(module.Close())
		}
	}

	if app.WatermillRouter != nil {
		record(app.WatermillRouter.Close())
	}
	if app.EventBus != nil {
		record(app.EventBus.Close())
	}
	if app.DBService != nil {
		record(app.DBService.GetDB().Close())
	}

	return firstErr
}
