package rest

import (
	"net/http"

	"saved-search-service/internal/adapters/notifier"
	"saved-search-service/internal/contextkeys"
	"saved-search-service/internal/core/port"
	"saved-search-service/internal/core/port/usecases_port"
)

// AdminHandler обзор данных всех пользователей: /api/v1/admin/*.
type AdminHandler struct {
	savedSearchesUC usecases_port.ListAllSavedSearchesUseCasePort
	notificationsUC usecases_port.ListAllNotificationsUseCasePort
	appointmentsUC  usecases_port.ListAllAppointmentsUseCasePort
}

func NewAdminHandler(
	savedSearchesUC usecases_port.ListAllSavedSearchesUseCasePort,
	notificationsUC usecases_port.ListAllNotificationsUseCasePort,
	appointmentsUC usecases_port.ListAllAppointmentsUseCasePort,
) *AdminHandler {
	return &AdminHandler{
		savedSearchesUC: savedSearchesUC,
		notificationsUC: notificationsUC,
		appointmentsUC:  appointmentsUC,
	}
}

// ListSavedSearches обрабатывает GET /api/v1/admin/saved-searches
func (h *AdminHandler) ListSavedSearches(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "AdminListSavedSearches"})
	limit, offset := parsePagination(r)
	searches, err := h.savedSearchesUC.Execute(r.Context(), limit, offset)
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to retrieve saved searches")
		return
	}

	response := make([]SavedSearchResponse, len(searches))
	for i, s := range searches {
		response[i] = toSavedSearchResponse(s)
	}
	RespondWithJSON(w, http.StatusOK, response)
}

// ListNotifications обрабатывает GET /api/v1/admin/notifications
func (h *AdminHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "AdminListNotifications"})
	limit, offset := parsePagination(r)
	notifications, err := h.notificationsUC.Execute(r.Context(), limit, offset)
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to retrieve notifications")
		return
	}

	response := make([]notifier.NotificationDTO, len(notifications))
	for i, n := range notifications {
		response[i] = notifier.ToNotificationDTO(n)
	}
	RespondWithJSON(w, http.StatusOK, response)
}

// ListAppointments обрабатывает GET /api/v1/admin/appointments
func (h *AdminHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "AdminListAppointments"})
	limit, offset := parsePagination(r)
	appointments, err := h.appointmentsUC.Execute(r.Context(), limit, offset)
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
