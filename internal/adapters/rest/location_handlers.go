package rest

import (
	"context"
	"net/http"

	"saved-search-service/internal/contextkeys"
	"saved-search-service/internal/core/domain"
	"saved-search-service/internal/core/port"
	"saved-search-service/internal/core/port/usecases_port"
)

// LocationHandler справочник /api/v1/locations. Чтение публичное, запись только для Admin.
type LocationHandler struct {
	catalog usecases_port.LocationCatalogUseCasePort
}

func NewLocationHandler(catalog usecases_port.LocationCatalogUseCasePort) *LocationHandler {
	return &LocationHandler{catalog: catalog}
}

func toCityResponses(cities []domain.City) []CityResponse {
	out := make([]CityResponse, len(cities))
	for i, c := range cities {
		out[i] = CityResponse{ID: c.ID, Name: c.Name}
	}
	return out
}

func toDistrictResponses(districts []domain.District) []DistrictResponse {
	out := make([]DistrictResponse, len(districts))
	for i, d := range districts {
		out[i] = DistrictResponse{ID: d.ID, CityID: d.CityID, Name: d.Name}
	}
	return out
}

func toWardResponses(wards []domain.Ward) []WardResponse {
	out := make([]WardResponse, len(wards))
	for i, wd := range wards {
		out[i] = WardResponse{ID: wd.ID, DistrictID: wd.DistrictID, Name: wd.Name}
	}
	return out
}

// ListCities обрабатывает GET /api/v1/locations/cities
func (h *LocationHandler) ListCities(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ListCities"})
	cities, err := h.catalog.ListCities(r.Context())
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to retrieve cities")
		return
	}
	RespondWithJSON(w, http.StatusOK, toCityResponses(cities))
}

// GetCity обрабатывает GET /api/v1/locations/cities/{id}
func (h *LocationHandler) GetCity(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetCity"})
	id, ok := parseIDParam(r, "id")
	if !ok {
		WriteJSONError(w, http.StatusBadRequest, "Invalid city id in URL")
		return
	}
	city, err := h.catalog.GetCity(r.Context(), id)
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to retrieve city")
		return
	}
	RespondWithJSON(w, http.StatusOK, CityResponse{ID: city.ID, Name: city.Name})
}

// ListDistricts обрабатывает GET /api/v1/locations/cities/{id}/districts
func (h *LocationHandler) ListDistricts(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ListDistricts"})
	cityID, ok := parseIDParam(r, "id")
	if !ok {
		WriteJSONError(w, http.StatusBadRequest, "Invalid city id in URL")
		return
	}
	districts, err := h.catalog.ListDistricts(r.Context(), cityID)
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to retrieve districts")
		return
	}
	RespondWithJSON(w, http.StatusOK, toDistrictResponses(districts))
}

// GetDistrict обрабатывает GET /api/v1/locations/districts/{id}
func (h *LocationHandler) GetDistrict(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetDistrict"})
	id, ok := parseIDParam(r, "id")
	if !ok {
		WriteJSONError(w, http.StatusBadRequest, "Invalid district id in URL")
		return
	}
	d, err := h.catalog.GetDistrict(r.Context(), id)
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to retrieve district")
		return
	}
	RespondWithJSON(w, http.StatusOK, DistrictResponse{ID: d.ID, CityID: d.CityID, Name: d.Name})
}

// ListWards обрабатывает GET /api/v1/locations/districts/{id}/wards
func (h *LocationHandler) ListWards(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ListWards"})
	districtID, ok := parseIDParam(r, "id")
	if !ok {
		WriteJSONError(w, http.StatusBadRequest, "Invalid district id in URL")
		return
	}
	wards, err := h.catalog.ListWards(r.Context(), districtID)
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to retrieve wards")
		return
	}
	RespondWithJSON(w, http.StatusOK, toWardResponses(wards))
}

// GetWard обрабатывает GET /api/v1/locations/wards/{id}
func (h *LocationHandler) GetWard(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetWard"})
	id, ok := parseIDParam(r, "id")
	if !ok {
		WriteJSONError(w, http.StatusBadRequest, "Invalid ward id in URL")
		return
	}
	wd, err := h.catalog.GetWard(r.Context(), id)
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to retrieve ward")
		return
	}
	RespondWithJSON(w, http.StatusOK, WardResponse{ID: wd.ID, DistrictID: wd.DistrictID, Name: wd.Name})
}

// CreateCity обрабатывает POST /api/v1/locations/cities
func (h *LocationHandler) CreateCity(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "CreateCity"})
	var req CreateCityRequest
	if err := decodeAndValidate(r, &req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	city, err := h.catalog.CreateCity(r.Context(), req.Name)
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to create city")
		return
	}
	RespondWithJSON(w, http.StatusCreated, CityResponse{ID: city.ID, Name: city.Name})
}

// CreateDistrict обрабатывает POST /api/v1/locations/districts
func (h *LocationHandler) CreateDistrict(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "CreateDistrict"})
	var req CreateDistrictRequest
	if err := decodeAndValidate(r, &req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	d, err := h.catalog.CreateDistrict(r.Context(), req.CityID, req.Name)
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to create district")
		return
	}
	RespondWithJSON(w, http.StatusCreated, DistrictResponse{ID: d.ID, CityID: d.CityID, Name: d.Name})
}

// CreateWard обрабатывает POST /api/v1/locations/wards
func (h *LocationHandler) CreateWard(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "CreateWard"})
	var req CreateWardRequest
	if err := decodeAndValidate(r, &req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	wd, err := h.catalog.CreateWard(r.Context(), req.DistrictID, req.Name)
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to create ward")
		return
	}
	RespondWithJSON(w, http.StatusCreated, WardResponse{ID: wd.ID, DistrictID: wd.DistrictID, Name: wd.Name})
}

// UpdateCity обрабатывает PUT /api/v1/locations/cities/{id}
func (h *LocationHandler) UpdateCity(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "UpdateCity"})
	id, ok := parseIDParam(r, "id")
	if !ok {
		WriteJSONError(w, http.StatusBadRequest, "Invalid city id in URL")
		return
	}
	var req CreateCityRequest
	if err := decodeAndValidate(r, &req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	city, err := h.catalog.UpdateCity(r.Context(), id, req.Name)
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to update city")
		return
	}
	RespondWithJSON(w, http.StatusOK, CityResponse{ID: city.ID, Name: city.Name})
}

// UpdateDistrict обрабатывает PUT /api/v1/locations/districts/{id}
func (h *LocationHandler) UpdateDistrict(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "UpdateDistrict"})
	id, ok := parseIDParam(r, "id")
	if !ok {
		WriteJSONError(w, http.StatusBadRequest, "Invalid district id in URL")
		return
	}
	var req CreateDistrictRequest
	if err := decodeAndValidate(r, &req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	d, err := h.catalog.UpdateDistrict(r.Context(), id, req.CityID, req.Name)
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to update district")
		return
	}
	RespondWithJSON(w, http.StatusOK, DistrictResponse{ID: d.ID, CityID: d.CityID, Name: d.Name})
}

// UpdateWard обрабатывает PUT /api/v1/locations/wards/{id}
func (h *LocationHandler) UpdateWard(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "UpdateWard"})
	id, ok := parseIDParam(r, "id")
	if !ok {
		WriteJSONError(w, http.StatusBadRequest, "Invalid ward id in URL")
		return
	}
	var req CreateWardRequest
	if err := decodeAndValidate(r, &req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	wd, err := h.catalog.UpdateWard(r.Context(), id, req.DistrictID, req.Name)
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to update ward")
		return
	}
	RespondWithJSON(w, http.StatusOK, WardResponse{ID: wd.ID, DistrictID: wd.DistrictID, Name: wd.Name})
}

// DeleteCity обрабатывает DELETE /api/v1/locations/cities/{id}
func (h *LocationHandler) DeleteCity(w http.ResponseWriter, r *http.Request) {
	h.deleteLocation(w, r, "city", h.catalog.DeleteCity)
}

// DeleteDistrict обрабатывает DELETE /api/v1/locations/districts/{id}
func (h *LocationHandler) DeleteDistrict(w http.ResponseWriter, r *http.Request) {
	h.deleteLocation(w, r, "district", h.catalog.DeleteDistrict)
}

// DeleteWard обрабатывает DELETE /api/v1/locations/wards/{id}
func (h *LocationHandler) DeleteWard(w http.ResponseWriter, r *http.Request) {
	h.deleteLocation(w, r, "ward", h.catalog.DeleteWard)
}

func (h *LocationHandler) deleteLocation(w http.ResponseWriter, r *http.Request, kind string, del func(context.Context, int64) error) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "DeleteLocation", "kind": kind})
	id, ok := parseIDParam(r, "id")
	if !ok {
		WriteJSONError(w, http.StatusBadRequest, "Invalid "+kind+" id in URL")
		return
	}
	if err := del(r.Context(), id); err != nil {
		writeUseCaseError(w, logger, err, "Failed to delete "+kind)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
