// Package api exposes the engine's operations as a JSON HTTP API. Handlers
// are thin: decode the request, call the owning service, and map the result
// payload to a status code. No rendering happens here.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cascade-defensive-pistol/match-engine/config"
	"github.com/cascade-defensive-pistol/match-engine/internal/observability/attr"

	rankingservice "github.com/cascade-defensive-pistol/match-engine/app/modules/ranking/application"
	registrationservice "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/application"
	scoringservice "github.com/cascade-defensive-pistol/match-engine/app/modules/scoring/application"
	syncservice "github.com/cascade-defensive-pistol/match-engine/app/modules/sync/application"
)

// Services groups the module services the API fronts.
type Services struct {
	Registration registrationservice.Service
	Scoring      scoringservice.Service
	Ranking      rankingservice.Service
	Sync         syncservice.Service
}

// Server is the public HTTP listener.
type Server struct {
	logger *slog.Logger
	svc    Services
	http   *http.Server
}

// NewServer builds the chi router and binds every endpoint.
func NewServer(cfg *config.Config, logger *slog.Logger, svc Services, registry *prometheus.Registry) *Server {
	s := &Server{logger: logger, svc: svc}

	r := chi.NewRouter()
	r.Use(
		chimiddleware.RequestID,
		chimiddleware.RealIP,
		chimiddleware.Recoverer,
	)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	if registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/registrations", func(r chi.Router) {
			r.Post("/", s.handleRegister)
			r.Get("/{registrationID}", s.handleGetRegistration)
			r.Post("/{registrationID}/cancel", s.handleCancel)
			r.Post("/{registrationID}/transfer", s.handleTransfer)
			r.Post("/{registrationID}/checkin", s.handleCheckIn)
		})

		r.Route("/squads/{squadID}", func(r chi.Router) {
			r.Put("/capacity", s.handleSetCapacity)
			r.Post("/close", s.handleCloseSquad)
			r.Post("/open", s.handleOpenSquad)
		})

		r.Route("/tournaments/{tournamentID}", func(r chi.Router) {
			r.Get("/squads", s.handleListSquads)
			r.Get("/registrations", s.handleListRegistrations)
			r.Get("/scores", s.handleListScores)
			r.Get("/leaderboard", s.handleGetLeaderboard)
			r.Get("/results/{shooterID}", s.handleGetShooterResult)
			r.Post("/rankings/recompute", s.handleRecompute)
		})

		r.Route("/scores", func(r chi.Router) {
			r.Post("/", s.handleSubmitScore)
			r.Put("/{scoreID}", s.handleUpdateScore)
			r.Post("/{scoreID}/resolve", s.handleResolveConflict)
		})

		r.Route("/sync", func(r chi.Router) {
			r.Post("/items", s.handleEnqueue)
			r.Get("/items", s.handleListPending)
			r.Post("/items/{itemID}/process", s.handleProcessItem)
			r.Post("/drain", s.handleDrain)
			r.Get("/status", s.handleSyncStatus)
		})
	})

	s.http = &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: r,
	}
	return s
}

// Start serves until the listener is shut down. Returns nil on clean shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.logger.InfoContext(ctx, "API listener started", attr.String("address", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and closes the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
