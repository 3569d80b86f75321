package api

import (
	"net/http"
	"time"

	registrationservice "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/application"
	registrationevents "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/events"
	"github.com/cascade-defensive-pistol/match-engine/app/shared/sharedtypes"
	"github.com/cascade-defensive-pistol/match-engine/internal/observability/attr"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var payload registrationevents.RegistrationRequestedPayloadV1
	if !s.decode(w, r, &payload) {
		return
	}
	if payload.RequestedAt.IsZero() {
		payload.RequestedAt = time.Now().UTC()
	}

	result, err := s.svc.Registration.Register(r.Context(), payload)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if result.IsFailure() {
		s.respondFailure(w, r, result.Failure.Reason, result.Failure)
		return
	}
	switch {
	case result.Success.Waitlisted != nil:
		s.respond(w, r, http.StatusAccepted, result.Success.Waitlisted)
	default:
		s.respond(w, r, http.StatusCreated, result.Success.Registered)
	}
}

func (s *Server) handleGetRegistration(w http.ResponseWriter, r *http.Request) {
	id, ok := s.urlUUID(w, r, "registrationID")
	if !ok {
		return
	}

	registration, err := s.svc.Registration.GetRegistration(r.Context(), sharedtypes.RegistrationID(id))
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if registration == nil {
		s.respondError(w, r, http.StatusNotFound, "registration not found", registrationservice.ReasonNotFound)
		return
	}
	s.respond(w, r, http.StatusOK, registration)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	id, ok := s.urlUUID(w, r, "registrationID")
	if !ok {
		return
	}
	var body struct {
		UserID sharedtypes.UserID `json:"user_id"`
	}
	if !s.decode(w, r, &body) {
		return
	}

	result, err := s.svc.Registration.Cancel(r.Context(), registrationevents.CancellationRequestedPayloadV1{
		RegistrationID: sharedtypes.RegistrationID(id),
		UserID:         body.UserID,
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

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	id, ok := s.urlUUID(w, r, "registrationID")
	if !ok {
		return
	}
	var body struct {
		NewSquadID sharedtypes.SquadID `json:"new_squad_id"`
		UserID     sharedtypes.UserID  `json:"user_id"`
	}
	if !s.decode(w, r, &body) {
		return
	}

	result, err := s.svc.Registration.Transfer(r.Context(), registrationevents.TransferRequestedPayloadV1{
		RegistrationID: sharedtypes.RegistrationID(id),
		NewSquadID:     body.NewSquadID,
		UserID:         body.UserID,
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

func (s *Server) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	id, ok := s.urlUUID(w, r, "registrationID")
	if !ok {
		return
	}
	var body struct {
		VerifyDivision       *sharedtypes.Division       `json:"verify_division,omitempty"`
		VerifyClassification *sharedtypes.Classification `json:"verify_classification,omitempty"`
	}
	if !s.decode(w, r, &body) {
		return
	}

	result, err := s.svc.Registration.CheckIn(r.Context(), registrationevents.CheckInRequestedPayloadV1{
		RegistrationID:       sharedtypes.RegistrationID(id),
		VerifyDivision:       body.VerifyDivision,
		VerifyClassification: body.VerifyClassification,
		CheckedInAt:          time.Now().UTC(),
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

func (s *Server) handleSetCapacity(w http.ResponseWriter, r *http.Request) {
	id, ok := s.urlUUID(w, r, "squadID")
	if !ok {
		return
	}
	var body struct {
		MaxShooters int                `json:"max_shooters"`
		RequestedBy sharedtypes.UserID `json:"requested_by"`
	}
	if !s.decode(w, r, &body) {
		return
	}

	result, err := s.svc.Registration.SetCapacity(r.Context(), registrationevents.SquadCapacityChangeRequestedPayloadV1{
		SquadID:     sharedtypes.SquadID(id),
		MaxShooters: body.MaxShooters,
		RequestedBy: body.RequestedBy,
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

func (s *Server) handleCloseSquad(w http.ResponseWriter, r *http.Request) {
	id, ok := s.urlUUID(w, r, "squadID")
	if !ok {
		return
	}
	var body struct {
		RequestedBy sharedtypes.UserID `json:"requested_by"`
	}
	if !s.decode(w, r, &body) {
		return
	}

	result, err := s.svc.Registration.CloseSquad(r.Context(), registrationevents.SquadCloseRequestedPayloadV1{
		SquadID:     sharedtypes.SquadID(id),
		RequestedBy: body.RequestedBy,
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

func (s *Server) handleOpenSquad(w http.ResponseWriter, r *http.Request) {
	id, ok := s.urlUUID(w, r, "squadID")
	if !ok {
		return
	}
	var body struct {
		RequestedBy sharedtypes.UserID `json:"requested_by"`
	}
	if !s.decode(w, r, &body) {
		return
	}

	result, err := s.svc.Registration.OpenSquad(r.Context(), registrationevents.SquadOpenRequestedPayloadV1{
		SquadID:     sharedtypes.SquadID(id),
		RequestedBy: body.RequestedBy,
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

func (s *Server) handleListSquads(w http.ResponseWriter, r *http.Request) {
	id, ok := s.urlUUID(w, r, "tournamentID")
	if !ok {
		return
	}
	squads, err := s.svc.Registration.ListSquads(r.Context(), sharedtypes.TournamentID(id))
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, squads)
}

func (s *Server) handleListRegistrations(w http.ResponseWriter, r *http.Request) {
	id, ok := s.urlUUID(w, r, "tournamentID")
	if !ok {
		return
	}
	registrations, err := s.svc.Registration.ListRegistrations(r.Context(), sharedtypes.TournamentID(id))
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, registrations)
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.ErrorContext(r.Context(), "Request failed", attr.Error(err))
	s.respondError(w, r, http.StatusInternalServerError, "internal error", "")
}
