package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"saved-search-service/internal/core/domain"
	"saved-search-service/internal/core/port"

	"github.com/go-chi/chi/v5"
)

// WriteJSONError отправляет ошибку в формате {"error": "..."}.
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// RespondWithJSON отправляет JSON-ответ.
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Failed to marshal JSON response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// statusForError сопоставляет доменные ошибки HTTP-статусам.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSavedSearchNotFound),
		errors.Is(err, domain.ErrPostNotFound),
		errors.Is(err, domain.ErrNotificationNotFound),
		errors.Is(err, domain.ErrAppointmentNotFound),
		errors.Is(err, domain.ErrLocationNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrLocationAlreadyExists), errors.Is(err, domain.ErrLocationInUse):
		return http.StatusConflict
	case errors.Is(err, domain.ErrTokenInvalid), errors.Is(err, domain.ErrTokenExpired):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// writeUseCaseError пишет ответ по ошибке use case. Внутренние ошибки не раскрываются клиенту.
func writeUseCaseError(w http.ResponseWriter, logger port.LoggerPort, err error, fallbackMessage string) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		logger.Error(fallbackMessage, err, nil)
		WriteJSONError(w, status, fallbackMessage)
		return
	}
	logger.Warn("Request rejected", port.Fields{"status_code": status, "error": err.Error()})
	WriteJSONError(w, status, err.Error())
}

// parseIDParam читает положительный int64 из URL-параметра.
func parseIDParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// parsePagination читает limit/offset. Границы применяет use case.
func parsePagination(r *http.Request) (int, int) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	return limit, offset
}
