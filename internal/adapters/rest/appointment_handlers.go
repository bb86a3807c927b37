package rest

import (
	"net/http"

	"saved-search-service/internal/contextkeys"
	"saved-search-service/internal/core/domain"
	"saved-search-service/internal/core/port"
	"saved-search-service/internal/core/port/usecases_port"
)

// AppointmentHandler обработчики /api/v1/appointments.
type AppointmentHandler struct {
	createUC usecases_port.CreateAppointmentUseCasePort
	listUC   usecases_port.ListAppointmentsUseCasePort
	cancelUC usecases_port.CancelAppointmentUseCasePort
}

func NewAppointmentHandler(
	createUC usecases_port.CreateAppointmentUseCasePort,
	listUC usecases_port.ListAppointmentsUseCasePort,
	cancelUC usecases_port.CancelAppointmentUseCasePort,
) *AppointmentHandler {
	return &AppointmentHandler{createUC: createUC, listUC: listUC, cancelUC: cancelUC}
}

// CreateAppointment обрабатывает POST /api/v1/appointments
func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "CreateAppointment"})
	principal, ok := requirePrincipal(w, r, logger)
	if !ok {
		return
	}

	var req CreateAppointmentRequest
	if err := decodeAndValidate(r, &req); err != nil {
		logger.Warn("Invalid create appointment request", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	appointment, err := h.createUC.Execute(r.Context(), domain.NewAppointmentParams{
		UserID:          principal.UserID,
		Title:           req.Title,
		Description:     req.Description,
		AppointmentTime: req.AppointmentTime,
		ReminderMinutes: req.ReminderMinutes,
	})
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to create appointment")
		return
	}
	RespondWithJSON(w, http.StatusCreated, toAppointmentResponse(*appointment))
}

// ListAppointments обрабатывает GET /api/v1/appointments
func (h *AppointmentHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ListAppointments"})
	principal, ok := requirePrincipal(w, r, logger)
	if !ok {
		return
	}

	appointments, err := h.listUC.Execute(r.Context(), principal.UserID)
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to retrieve appointments")
		return
	}

	response := make([]AppointmentResponse, len(appointments))
	for i, a := range appointments {
		response[i] = toAppointmentResponse(a)
	}
	RespondWithJSON(w, http.StatusOK, response)
}

// CancelAppointment обрабатывает DELETE /api/v1/appointments/{id}
func (h *AppointmentHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "CancelAppointment"})
	principal, ok := requirePrincipal(w, r, logger)
	if !ok {
		return
	}

	id, ok := parseIDParam(r, "id")
	if !ok {
		WriteJSONError(w, http.StatusBadRequest, "Invalid appointment id in URL")
		return
	}

	canceled, err := h.cancelUC.Execute(r.Context(), id, principal.UserID)
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to cancel appointment")
		return
	}
	if !canceled {
		WriteJSONError(w, http.StatusNotFound, domain.ErrAppointmentNotFound.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
