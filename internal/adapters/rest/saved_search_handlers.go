package rest

import (
	"net/http"

	"saved-search-service/internal/contextkeys"
	"saved-search-service/internal/core/domain"
	"saved-search-service/internal/core/port"
	"saved-search-service/internal/core/port/usecases_port"
)

// SavedSearchHandler обработчики /api/v1/saved-searches.
type SavedSearchHandler struct {
	createUC  usecases_port.CreateSavedSearchUseCasePort
	listUC    usecases_port.ListSavedSearchesUseCasePort
	deleteUC  usecases_port.DeleteSavedSearchUseCasePort
	matchesUC usecases_port.FindMatchingPostsUseCasePort
}

func NewSavedSearchHandler(
	createUC usecases_port.CreateSavedSearchUseCasePort,
	listUC usecases_port.ListSavedSearchesUseCasePort,
	deleteUC usecases_port.DeleteSavedSearchUseCasePort,
	matchesUC usecases_port.FindMatchingPostsUseCasePort,
) *SavedSearchHandler {
	return &SavedSearchHandler{
		createUC:  createUC,
		listUC:    listUC,
		deleteUC:  deleteUC,
		matchesUC: matchesUC,
	}
}

// requirePrincipal достает пользователя, которого положил Authenticate.
func requirePrincipal(w http.ResponseWriter, r *http.Request, logger port.LoggerPort) (*domain.Principal, bool) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		logger.Error("Invalid or missing user in context", nil, nil)
		WriteJSONError(w, http.StatusUnauthorized, "Invalid user in context")
		return nil, false
	}
	return principal, true
}

// CreateSavedSearch обрабатывает POST /api/v1/saved-searches
func (h *SavedSearchHandler) CreateSavedSearch(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "CreateSavedSearch"})
	principal, ok := requirePrincipal(w, r, logger)
	if !ok {
		return
	}

	var req CreateSavedSearchRequest
	if err := decodeAndValidate(r, &req); err != nil {
		logger.Warn("Invalid create saved search request", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	search, err := h.createUC.Execute(r.Context(), domain.NewSavedSearchParams{
		UserID:          principal.UserID,
		CenterLatitude:  *req.CenterLatitude,
		CenterLongitude: *req.CenterLongitude,
		RadiusKm:        *req.RadiusKm,
		TransactionType: domain.TransactionType(req.TransactionType),
		MinPrice:        req.MinPrice,
		MaxPrice:        req.MaxPrice,
		NotifyEnabled:   req.NotifyEnabled,
	})
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to create saved search")
		return
	}

	logger.Info("Saved search created", port.Fields{"saved_search_id": search.ID})
	RespondWithJSON(w, http.StatusCreated, toSavedSearchResponse(*search))
}

// ListSavedSearches обрабатывает GET /api/v1/saved-searches
func (h *SavedSearchHandler) ListSavedSearches(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ListSavedSearches"})
	principal, ok := requirePrincipal(w, r, logger)
	if !ok {
		return
	}

	searches, err := h.listUC.Execute(r.Context(), principal.UserID)
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

// DeleteSavedSearch обрабатывает DELETE /api/v1/saved-searches/{id}
func (h *SavedSearchHandler) DeleteSavedSearch(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "DeleteSavedSearch"})
	principal, ok := requirePrincipal(w, r, logger)
	if !ok {
		return
	}

	id, ok := parseIDParam(r, "id")
	if !ok {
		WriteJSONError(w, http.StatusBadRequest, "Invalid saved search id in URL")
		return
	}

	deleted, err := h.deleteUC.Execute(r.Context(), id, principal.UserID)
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to delete saved search")
		return
	}
	if !deleted {
		WriteJSONError(w, http.StatusNotFound, domain.ErrSavedSearchNotFound.Error())
		return
	}

	logger.Info("Saved search deleted", port.Fields{"saved_search_id": id})
	w.WriteHeader(http.StatusNoContent)
}

// FindMatchingPosts обрабатывает GET /api/v1/saved-searches/{id}/matches
func (h *SavedSearchHandler) FindMatchingPosts(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "FindMatchingPosts"})
	principal, ok := requirePrincipal(w, r, logger)
	if !ok {
		return
	}

	id, ok := parseIDParam(r, "id")
	if !ok {
		WriteJSONError(w, http.StatusBadRequest, "Invalid saved search id in URL")
		return
	}

	matches, err := h.matchesUC.Execute(r.Context(), id, principal.UserID)
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to find matching posts")
		return
	}

	response := make([]MatchedPostResponse, len(matches))
	for i, m := range matches {
		response[i] = toMatchedPostResponse(m)
	}
	logger.Info("Matching posts found", port.Fields{"saved_search_id": id, "matches": len(matches)})
	RespondWithJSON(w, http.StatusOK, response)
}
