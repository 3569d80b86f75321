package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	rankingevents "github.com/cascade-defensive-pistol/match-engine/app/modules/ranking/events"
	rankingdb "github.com/cascade-defensive-pistol/match-engine/app/modules/ranking/infrastructure/repositories"
	"github.com/cascade-defensive-pistol/match-engine/app/shared/sharedtypes"
)

func (s *Server) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	id, ok := s.urlUUID(w, r, "tournamentID")
	if !ok {
		return
	}

	var filter rankingdb.LeaderboardFilter
	if v := r.URL.Query().Get("division"); v != "" {
		division := sharedtypes.Division(v)
		if !division.IsValid() {
			s.respondError(w, r, http.StatusBadRequest, "unknown division: "+v, "")
			return
		}
		filter.Division = &division
	}
	if v := r.URL.Query().Get("classification"); v != "" {
		classification := sharedtypes.Classification(v)
		if !classification.IsValid() {
			s.respondError(w, r, http.StatusBadRequest, "unknown classification: "+v, "")
			return
		}
		if filter.Division == nil {
			s.respondError(w, r, http.StatusBadRequest, "classification filter requires a division", "")
			return
		}
		filter.Classification = &classification
	}

	results, err := s.svc.Ranking.GetLeaderboard(r.Context(), sharedtypes.TournamentID(id), filter)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, results)
}

func (s *Server) handleGetShooterResult(w http.ResponseWriter, r *http.Request) {
	id, ok := s.urlUUID(w, r, "tournamentID")
	if !ok {
		return
	}
	shooterID := sharedtypes.ShooterID(chi.URLParam(r, "shooterID"))
	if shooterID == "" {
		s.respondError(w, r, http.StatusBadRequest, "missing shooterID", "")
		return
	}

	result, err := s.svc.Ranking.GetShooterResult(r.Context(), sharedtypes.TournamentID(id), shooterID)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if result == nil {
		s.respondError(w, r, http.StatusNotFound, "no result for shooter", "")
		return
	}
	s.respond(w, r, http.StatusOK, result)
}

func (s *Server) handleRecompute(w http.ResponseWriter, r *http.Request) {
	id, ok := s.urlUUID(w, r, "tournamentID")
	if !ok {
		return
	}

	result, err := s.svc.Ranking.RecomputeRankings(r.Context(), rankingevents.RankingRecomputeRequestedPayloadV1{
		TournamentID: sharedtypes.TournamentID(id),
		Trigger:      "api.manual",
	})
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if result.IsFailure() {
		s.respondFailure(w, r, result.Failure.Reason, result.Failure)
		return
	}
	s.respond(w, r, http.StatusOK, result.Success)
}
