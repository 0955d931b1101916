package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"lostfound-server/models"
)

func TestSearchItems(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		store := new(mockItemStore)
		items := []models.Item{{ID: primitive.NewObjectID(), Title: "Blue Shirt"}}
		store.On("TextSearch", mock.Anything, "shirt").Return(items, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/search?q=shirt", nil)
		rec := httptest.NewRecorder()
		NewSearchHandler(store).SearchItems(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp SearchResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.True(t, resp.Success)
		assert.Equal(t, 1, resp.Count)
		assert.Equal(t, "shirt", resp.SearchQuery)
		store.AssertExpectations(t)
	})

	t.Run("empty query short-circuits", func(t *testing.T) {
		store := new(mockItemStore)

		req := httptest.NewRequest(http.MethodGet, "/search?q=+++", nil)
		rec := httptest.NewRecorder()
		NewSearchHandler(store).SearchItems(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		store.AssertNotCalled(t, "TextSearch", mock.Anything, mock.Anything)
	})

	t.Run("no matches returns empty array", func(t *testing.T) {
		store := new(mockItemStore)
		store.On("TextSearch", mock.Anything, "unicorn").Return(nil, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/search?q=unicorn", nil)
		rec := httptest.NewRecorder()
		NewSearchHandler(store).SearchItems(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"data":[]`)
	})

	t.Run("store error", func(t *testing.T) {
		store := new(mockItemStore)
		store.On("TextSearch", mock.Anything, "shirt").Return(nil, assert.AnError).Once()

		req := httptest.NewRequest(http.MethodGet, "/search?q=shirt", nil)
		rec := httptest.NewRecorder()
		NewSearchHandler(store).SearchItems(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestNearbyItems(t *testing.T) {
	t.Run("success with default radius", func(t *testing.T) {
		store := new(mockItemStore)
		items := []models.Item{{ID: primitive.NewObjectID()}}
		store.On("RadiusSearch", mock.Anything, 103.85, 1.29, 5.0).Return(items, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/items/near?lat=1.29&lng=103.85", nil)
		rec := httptest.NewRecorder()
		NewSearchHandler(store).NearbyItems(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp NearbyResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.True(t, resp.Success)
		assert.Len(t, resp.Data, 1)
		store.AssertExpectations(t)
	})

	t.Run("explicit radius", func(t *testing.T) {
		store := new(mockItemStore)
		store.On("RadiusSearch", mock.Anything, 0.0, 0.0, 1.0).Return(nil, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/items/near?lat=0&lng=0&radius=1", nil)
		rec := httptest.NewRecorder()
		NewSearchHandler(store).NearbyItems(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		store.AssertExpectations(t)
	})

	t.Run("missing coordinates", func(t *testing.T) {
		store := new(mockItemStore)

		req := httptest.NewRequest(http.MethodGet, "/items/near?lat=1.29", nil)
		rec := httptest.NewRecorder()
		NewSearchHandler(store).NearbyItems(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Missing coordinates")
		store.AssertNotCalled(t, "RadiusSearch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("non-numeric coordinates", func(t *testing.T) {
		store := new(mockItemStore)

		req := httptest.NewRequest(http.MethodGet, "/items/near?lat=north&lng=103.85", nil)
		rec := httptest.NewRecorder()
		NewSearchHandler(store).NearbyItems(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("non-numeric radius", func(t *testing.T) {
		store := new(mockItemStore)

		req := httptest.NewRequest(http.MethodGet, "/items/near?lat=1.29&lng=103.85&radius=wide", nil)
		rec := httptest.NewRecorder()
		NewSearchHandler(store).NearbyItems(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		store.AssertNotCalled(t, "RadiusSearch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
