package rest

import (
	"fmt"
	"net/http"
	"time"

	"saved-search-service/internal/adapters/notifier"
	"saved-search-service/internal/contextkeys"
	"saved-search-service/internal/core/port"
	"saved-search-service/internal/core/port/usecases_port"
)

const sseKeepAliveInterval = 15 * time.Second

// NotificationHandler обработчики /api/v1/notifications.
type NotificationHandler struct {
	listUC     usecases_port.ListNotificationsUseCasePort
	markReadUC usecases_port.MarkNotificationReadUseCasePort
	deleteUC   usecases_port.DeleteNotificationUseCasePort
	notifier   *notifier.SSENotifier
	keepAlive  time.Duration
}

func NewNotificationHandler(
	listUC usecases_port.ListNotificationsUseCasePort,
	markReadUC usecases_port.MarkNotificationReadUseCasePort,
	deleteUC usecases_port.DeleteNotificationUseCasePort,
	sse *notifier.SSENotifier,
) *NotificationHandler {
	return &NotificationHandler{
		listUC:     listUC,
		markReadUC: markReadUC,
		deleteUC:   deleteUC,
		notifier:   sse,
		keepAlive:  sseKeepAliveInterval,
	}
}

// ListNotifications обрабатывает GET /api/v1/notifications
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ListNotifications"})
	principal, ok := requirePrincipal(w, r, logger)
	if !ok {
		return
	}

	limit, offset := parsePagination(r)
	page, err := h.listUC.Execute(r.Context(), principal.UserID, limit, offset)
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to retrieve notifications")
		return
	}

	response := PaginatedNotificationsResponse{
		Data:        make([]notifier.NotificationDTO, len(page.Items)),
		Total:       page.TotalCount,
		UnreadCount: page.UnreadCount,
		Page:        page.CurrentPage,
		PerPage:     page.ItemsPerPage,
	}
	for i, n := range page.Items {
		response.Data[i] = notifier.ToNotificationDTO(n)
	}
	RespondWithJSON(w, http.StatusOK, response)
}

// MarkNotificationRead обрабатывает PUT /api/v1/notifications/{id}/read
func (h *NotificationHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "MarkNotificationRead"})
	principal, ok := requirePrincipal(w, r, logger)
	if !ok {
		return
	}

	id, ok := parseIDParam(r, "id")
	if !ok {
		WriteJSONError(w, http.StatusBadRequest, "Invalid notification id in URL")
		return
	}

	if err := h.markReadUC.Execute(r.Context(), id, principal.UserID); err != nil {
		writeUseCaseError(w, logger, err, "Failed to mark notification as read")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteNotification обрабатывает DELETE /api/v1/notifications/{id}
func (h *NotificationHandler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "DeleteNotification"})
	principal, ok := requirePrincipal(w, r, logger)
	if !ok {
		return
	}

	id, ok := parseIDParam(r, "id")
	if !ok {
		WriteJSONError(w, http.StatusBadRequest, "Invalid notification id in URL")
		return
	}

	if err := h.deleteUC.Execute(r.Context(), id, principal.UserID); err != nil {
		writeUseCaseError(w, logger, err, "Failed to delete notification")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Subscribe обрабатывает GET /api/v1/notifications/subscribe (Server-Sent Events).
func (h *NotificationHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "SubscribeToNotifications"})
	principal, ok := requirePrincipal(w, r, logger)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteJSONError(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	clientChan := h.notifier.AddClient(principal.UserID)
	defer h.notifier.RemoveClient(principal.UserID, clientChan)

	// подтверждение установки соединения
	fmt.Fprintf(w, "event: connected\ndata: {}\n\n")
	flusher.Flush()

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case data := <-clientChan:
			if _, err := w.Write(data); err != nil {
				logger.Error("Error writing to client, closing SSE connection", err, nil)
				return
			}
			flusher.Flush()
			logger.Debug("Sent SSE event to client", nil)

		case <-ticker.C:
			// строки с двоеточия в SSE считаются комментариями
			if _, err := fmt.Fprintf(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			logger.Info("SSE client disconnected.", nil)
			return
		}
	}
}
