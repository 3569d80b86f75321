package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	registrationservice "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/application"
	syncservice "github.com/cascade-defensive-pistol/match-engine/app/modules/sync/application"
	"github.com/cascade-defensive-pistol/match-engine/internal/observability/attr"
)

// errorBody is the uniform error envelope. Reason is the machine-readable
// rejection code from the owning service's failure payload.
type errorBody struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to encode response", attr.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, msg, reason string) {
	s.respond(w, r, status, errorBody{Error: msg, Reason: reason})
}

// respondFailure maps a service failure reason onto an HTTP status and sends
// the failure payload as the body.
func (s *Server) respondFailure(w http.ResponseWriter, r *http.Request, reason string, payload any) {
	s.respond(w, r, statusForReason(reason), payload)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid JSON body: "+err.Error(), "")
		return false
	}
	return true
}

// urlUUID parses a uuid path parameter; a zero uuid return means the caller
// already got a 400.
func (s *Server) urlUUID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid "+param, "")
		return uuid.Nil, false
	}
	return id, true
}

// statusForReason buckets the services' rejection codes. Malformed input is a
// 400, unknown targets a 404, state-dependent rejections a 409, and anything
// the request itself could never satisfy a 422.
func statusForReason(reason string) int {
	switch reason {
	case registrationservice.ReasonNotFound,
		syncservice.ReasonItemNotFound,
		"SCORE_NOT_FOUND",
		"STAGE_NOT_FOUND":
		return http.StatusNotFound

	case syncservice.ReasonInvalidPayload,
		syncservice.ReasonUnknownAction,
		syncservice.ReasonMissingUser:
		return http.StatusBadRequest

	case registrationservice.ReasonAlreadyRegistered,
		registrationservice.ReasonAlreadyCheckedIn,
		registrationservice.ReasonTargetFull,
		registrationservice.ReasonTargetClosed,
		registrationservice.ReasonSquadClosed,
		registrationservice.ReasonTournamentClosed,
		registrationservice.ReasonTournamentLocked,
		registrationservice.ReasonCapacityBelowCurrent,
		registrationservice.ReasonNotRegistered,
		syncservice.ReasonItemBusy,
		syncservice.ReasonItemFrozen,
		syncservice.ReasonDrainStalled,
		"CONFLICT_MANUAL_REQUIRED":
		return http.StatusConflict

	case registrationservice.ReasonNotOwner:
		return http.StatusForbidden

	default:
		return http.StatusUnprocessableEntity
	}
}
