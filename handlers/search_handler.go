package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"lostfound-server/middleware"
	"lostfound-server/models"
	"lostfound-server/utils/errors"
)

const defaultRadiusKm = 5

type SearchHandler struct {
	store ItemStore
}

type SearchResponse struct {
	Success     bool          `json:"success"`
	Count       int           `json:"count"`
	Data        []models.Item `json:"data"`
	SearchQuery string        `json:"searchQuery"`
}

type NearbyResponse struct {
	Success bool          `json:"success"`
	Data    []models.Item `json:"data"`
}

func NewSearchHandler(store ItemStore) *SearchHandler {
	return &SearchHandler{store: store}
}

// SearchItems matches the query against item titles and descriptions.
func (h *SearchHandler) SearchItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if strings.TrimSpace(q) == "" {
		middleware.WriteError(w, errors.ErrEmptyQuery)
		return
	}

	items, err := h.store.TextSearch(r.Context(), q)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	if items == nil {
		items = []models.Item{}
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		Success:     true,
		Count:       len(items),
		Data:        items,
		SearchQuery: q,
	})
}

// NearbyItems returns items within radius km of the given coordinates.
func (h *SearchHandler) NearbyItems(w http.ResponseWriter, r *http.Request) {
	latStr := r.URL.Query().Get("lat")
	lngStr := r.URL.Query().Get("lng")
	if latStr == "" || lngStr == "" {
		middleware.WriteError(w, errors.ErrMissingCoordinates)
		return
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	radius := float64(defaultRadiusKm)
	if radiusStr := r.URL.Query().Get("radius"); radiusStr != "" {
		radius, err = strconv.ParseFloat(radiusStr, 64)
		if err != nil {
			middleware.WriteError(w, errors.ErrInvalidInput)
			return
		}
	}

	items, err := h.store.RadiusSearch(r.Context(), lng, lat, radius)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	if items == nil {
		items = []models.Item{}
	}

	writeJSON(w, http.StatusOK, NearbyResponse{Success: true, Data: items})
}
