package rest

import (
	"context"
	"net/http"

	"saved-search-service/internal/contextkeys"
	"saved-search-service/internal/core/domain"
	"saved-search-service/internal/core/port"
	"saved-search-service/internal/core/port/usecases_port"
)

// ModerationHandler обработчики /api/v1/admin/posts.
type ModerationHandler struct {
	approveUC usecases_port.ApprovePostUseCasePort
	rejectUC  usecases_port.RejectPostUseCasePort
}

func NewModerationHandler(approveUC usecases_port.ApprovePostUseCasePort, rejectUC usecases_port.RejectPostUseCasePort) *ModerationHandler {
	return &ModerationHandler{approveUC: approveUC, rejectUC: rejectUC}
}

// ApprovePost обрабатывает POST /api/v1/admin/posts/{id}/approve
func (h *ModerationHandler) ApprovePost(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, "ApprovePost", h.approveUC.Execute)
}

// RejectPost обрабатывает POST /api/v1/admin/posts/{id}/reject
func (h *ModerationHandler) RejectPost(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, "RejectPost", h.rejectUC.Execute)
}

type moderateFunc func(ctx context.Context, postID int64) (*domain.Post, error)

func (h *ModerationHandler) moderate(w http.ResponseWriter, r *http.Request, name string, execute moderateFunc) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": name})

	postID, ok := parseIDParam(r, "id")
	if !ok {
		WriteJSONError(w, http.StatusBadRequest, "Invalid post id in URL")
		return
	}

	post, err := execute(r.Context(), postID)
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to moderate post")
		return
	}

	logger.Info("Post moderated", port.Fields{"post_id": post.ID, "status": post.Status})
	RespondWithJSON(w, http.StatusOK, ModerationResponse{
		ID:         post.ID,
		Status:     string(post.Status),
		ExpiryDate: post.ExpiryDate,
	})
}
