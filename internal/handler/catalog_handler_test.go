package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hijrafr/expat-services-api/internal/model"
)

func get(router http.Handler, url string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", url, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestCatalogHandler(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	router := setupPortalRouter(t)

	t.Run("countries list the seeded destinations", func(t *testing.T) {
		w := get(router, "/api/v1/countries")
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Countries []model.Country `json:"countries"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Countries, 3)

		ids := make(map[string]bool)
		for _, c := range resp.Countries {
			ids[c.ID] = true
		}
		assert.True(t, ids["uae"] && ids["qatar"] && ids["morocco"])
	})

	t.Run("single country carries its catalog", func(t *testing.T) {
		w := get(router, "/api/v1/countries/uae")
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Country  model.Country         `json:"country"`
			Services []model.ServiceOption `json:"services"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "AED", resp.Country.Currency)
		assert.Len(t, resp.Services, 12)
	})

	t.Run("bad: unknown country detail is 404", func(t *testing.T) {
		w := get(router, "/api/v1/countries/atlantis")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("full UAE catalog", func(t *testing.T) {
		w := get(router, "/api/v1/countries/uae/services")
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Services []model.ServiceOption `json:"services"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Services, 12)
	})

	t.Run("category filter", func(t *testing.T) {
		w := get(router, "/api/v1/countries/uae/services?category=visa")
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Services []model.ServiceOption `json:"services"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotEmpty(t, resp.Services)
		for _, s := range resp.Services {
			assert.Equal(t, "visa", s.Category)
		}
	})

	t.Run("bad: unknown country is 404, not empty list", func(t *testing.T) {
		w := get(router, "/api/v1/countries/atlantis/services")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("destinations", func(t *testing.T) {
		w := get(router, "/api/v1/destinations")
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Destinations []model.Destination `json:"destinations"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Destinations, 4)
	})

	t.Run("jobs filtered by country with pagination", func(t *testing.T) {
		w := get(router, "/api/v1/jobs?country_id=uae&page=1&page_size=1")
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Jobs       []model.Job `json:"jobs"`
			Pagination struct {
				TotalItems int `json:"total_items"`
				TotalPages int `json:"total_pages"`
			} `json:"pagination"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Jobs, 1)
		assert.Equal(t, 2, resp.Pagination.TotalItems)
		assert.Equal(t, 2, resp.Pagination.TotalPages)
	})
}
