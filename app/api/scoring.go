package api

import (
	"net/http"
	"time"

	scoringevents "github.com/cascade-defensive-pistol/match-engine/app/modules/scoring/events"
	"github.com/cascade-defensive-pistol/match-engine/app/shared/sharedtypes"
)

func (s *Server) handleSubmitScore(w http.ResponseWriter, r *http.Request) {
	var payload scoringevents.ScoreSubmissionRequestedPayloadV1
	if !s.decode(w, r, &payload) {
		return
	}
	if payload.ScoredAt.IsZero() {
		payload.ScoredAt = time.Now().UTC()
	}

	result, err := s.svc.Scoring.SubmitScore(r.Context(), payload)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if result.IsFailure() {
		s.respondFailure(w, r, result.Failure.Reason, result.Failure)
		return
	}
	s.respond(w, r, http.StatusCreated, result.Success)
}

func (s *Server) handleUpdateScore(w http.ResponseWriter, r *http.Request) {
	id, ok := s.urlUUID(w, r, "scoreID")
	if !ok {
		return
	}
	var payload scoringevents.ScoreUpdateRequestedPayloadV1
	if !s.decode(w, r, &payload) {
		return
	}
	payload.ScoreID = sharedtypes.ScoreID(id)
	if payload.ModifiedAt.IsZero() {
		payload.ModifiedAt = time.Now().UTC()
	}

	result, err := s.svc.Scoring.UpdateScore(r.Context(), payload)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if result.IsFailure() {
		// A manual-resolution escalation carries both versions back to the
		// caller so a match director can pick.
		if result.Failure.Manual != nil {
			s.respond(w, r, http.StatusConflict, result.Failure.Manual)
			return
		}
		s.respondFailure(w, r, result.Failure.Failed.Reason, result.Failure.Failed)
		return
	}
	s.respond(w, r, http.StatusOK, result.Success)
}

func (s *Server) handleResolveConflict(w http.ResponseWriter, r *http.Request) {
	id, ok := s.urlUUID(w, r, "scoreID")
	if !ok {
		return
	}
	var payload scoringevents.ScoreConflictResolutionRequestedPayloadV1
	if !s.decode(w, r, &payload) {
		return
	}
	payload.ScoreID = sharedtypes.ScoreID(id)

	result, err := s.svc.Scoring.ResolveConflict(r.Context(), payload)
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

func (s *Server) handleListScores(w http.ResponseWriter, r *http.Request) {
	id, ok := s.urlUUID(w, r, "tournamentID")
	if !ok {
		return
	}
	scores, err := s.svc.Scoring.GetScoresForTournament(r.Context(), sharedtypes.TournamentID(id))
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, scores)
}
