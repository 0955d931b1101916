package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"lostfound-server/middleware"
	"lostfound-server/models"
	"lostfound-server/services"
	"lostfound-server/utils/errors"
)

const maxUploadBytes = 32 << 20

// ItemStore is the repository surface the handlers consume.
type ItemStore interface {
	Create(ctx context.Context, input services.CreateItemInput) (models.Item, error)
	ListAll(ctx context.Context) ([]models.Item, error)
	GetByID(ctx context.Context, id string) (models.Item, error)
	DeleteByID(ctx context.Context, id string) error
	TextSearch(ctx context.Context, query string) ([]models.Item, error)
	RadiusSearch(ctx context.Context, lng, lat, radiusKm float64) ([]models.Item, error)
}

type ItemHandler struct {
	store   ItemStore
	uploads *services.UploadService
}

type ItemListResponse struct {
	Count int           `json:"count"`
	Data  []models.Item `json:"data"`
}

func NewItemHandler(store ItemStore, uploads *services.UploadService) *ItemHandler {
	return &ItemHandler{store: store, uploads: uploads}
}

func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListAll(r.Context())
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	if items == nil {
		items = []models.Item{}
	}

	writeJSON(w, http.StatusOK, ItemListResponse{Count: len(items), Data: items})
}

func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	input := services.CreateItemInput{
		Name:        r.FormValue("name"),
		Email:       r.FormValue("email"),
		Phoneno:     r.FormValue("phoneno"),
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Tags:        r.Form["tags"],
	}

	// Required fields are checked before the file is stored so a bad
	// request doesn't leave an orphaned upload behind.
	for _, field := range []string{input.Name, input.Email, input.Phoneno, input.Title, input.Description} {
		if strings.TrimSpace(field) == "" {
			middleware.WriteError(w, errors.ErrMissingFields)
			return
		}
	}

	if lngStr, latStr := r.FormValue("lng"), r.FormValue("lat"); lngStr != "" && latStr != "" {
		lng, err := strconv.ParseFloat(lngStr, 64)
		if err != nil {
			middleware.WriteError(w, errors.ErrInvalidInput)
			return
		}
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			middleware.WriteError(w, errors.ErrInvalidInput)
			return
		}
		location := models.NewGeoPoint(lng, lat)
		input.Location = &location
	}

	// The photo is optional. An item created without one simply has no
	// image reference.
	file, header, err := r.FormFile("file")
	if err == nil {
		defer file.Close()
		filename, err := h.uploads.Save(file, header)
		if err != nil {
			middleware.WriteError(w, err)
			return
		}
		input.Image = filename
	} else if err != http.ErrMissingFile {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	item, err := h.store.Create(r.Context(), input)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	item, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.store.DeleteByID(r.Context(), id); err != nil {
		middleware.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Item deleted"})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
