package api

import (
	"net/http"

	syncevents "github.com/cascade-defensive-pistol/match-engine/app/modules/sync/events"
	"github.com/cascade-defensive-pistol/match-engine/app/shared/sharedtypes"
)

func (s *Server) handleEnqueue(w http.ResponseWriter, r *http.Request) {
	var payload syncevents.SyncEnqueueRequestedPayloadV1
	if !s.decode(w, r, &payload) {
		return
	}

	result, err := s.svc.Sync.Enqueue(r.Context(), payload)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if result.IsFailure() {
		s.respondFailure(w, r, result.Failure.Reason, result.Failure)
		return
	}
	s.respond(w, r, http.StatusAccepted, result.Success)
}

// queryUserID pulls the required user_id query parameter.
func (s *Server) queryUserID(w http.ResponseWriter, r *http.Request) (sharedtypes.UserID, bool) {
	userID := sharedtypes.UserID(r.URL.Query().Get("user_id"))
	if userID == "" {
		s.respondError(w, r, http.StatusBadRequest, "missing user_id", "")
		return "", false
	}
	return userID, true
}

func (s *Server) handleListPending(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.queryUserID(w, r)
	if !ok {
		return
	}
	items, err := s.svc.Sync.ListPending(r.Context(), userID)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, items)
}

func (s *Server) handleProcessItem(w http.ResponseWriter, r *http.Request) {
	id, ok := s.urlUUID(w, r, "itemID")
	if !ok {
		return
	}

	result, err := s.svc.Sync.ProcessItem(r.Context(), sharedtypes.QueueItemID(id))
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

func (s *Server) handleDrain(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID sharedtypes.UserID `json:"user_id"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	if body.UserID == "" {
		s.respondError(w, r, http.StatusBadRequest, "missing user_id", "")
		return
	}

	result, err := s.svc.Sync.Drain(r.Context(), body.UserID)
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

func (s *Server) handleSyncStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.queryUserID(w, r)
	if !ok {
		return
	}
	counts, err := s.svc.Sync.SyncStatus(r.Context(), userID)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, counts)
}
