package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hijrafr/expat-services-api/internal/dto"
	"github.com/hijrafr/expat-services-api/internal/model"
)

func postJSON(router http.Handler, url, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", url, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestOrderHandler_Quote(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	router := setupPortalRouter(t)

	t.Run("happy: prices two services with the processing fee", func(t *testing.T) {
		w := postJSON(router, "/api/v1/quotes",
			`{"country_id":"uae","service_codes":["residence-visa-new","emirates-id-new"]}`)
		assert.Equal(t, http.StatusOK, w.Code)

		var summary dto.OrderSummary
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
		// 1200 + 350 = 1550, 2% = 31
		assert.Equal(t, 1550.0, summary.Subtotal)
		assert.Equal(t, 31.0, summary.Fees)
		assert.Equal(t, 1581.0, summary.Total)
		assert.Equal(t, "AED", summary.Currency)
		assert.True(t, summary.CheckoutAllowed)
	})

	t.Run("happy: minimum fee on a small order", func(t *testing.T) {
		w := postJSON(router, "/api/v1/quotes",
			`{"country_id":"uae","service_codes":["police-clearance"]}`)
		assert.Equal(t, http.StatusOK, w.Code)

		var summary dto.OrderSummary
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
		// 150 at 2% would be 3; the floor is 5
		assert.Equal(t, 5.0, summary.Fees)
		assert.Equal(t, 155.0, summary.Total)
	})

	t.Run("empty selection quotes to zero with checkout disabled", func(t *testing.T) {
		w := postJSON(router, "/api/v1/quotes", `{"country_id":"qatar","service_codes":[]}`)
		assert.Equal(t, http.StatusOK, w.Code)

		var summary dto.OrderSummary
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
		assert.Equal(t, 0.0, summary.Total)
		assert.False(t, summary.CheckoutAllowed)
	})

	t.Run("unknown codes reported, known ones still priced", func(t *testing.T) {
		w := postJSON(router, "/api/v1/quotes",
			`{"country_id":"morocco","service_codes":["carte-sejour","ghost-service"]}`)
		assert.Equal(t, http.StatusOK, w.Code)

		var summary dto.OrderSummary
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
		assert.Equal(t, 200.0, summary.Subtotal)
		assert.Equal(t, []string{"ghost-service"}, summary.UnknownCodes)
	})

	t.Run("codes from another country do not resolve", func(t *testing.T) {
		w := postJSON(router, "/api/v1/quotes",
			`{"country_id":"morocco","service_codes":["residence-visa-new"]}`)
		assert.Equal(t, http.StatusOK, w.Code)

		var summary dto.OrderSummary
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
		assert.Equal(t, 0.0, summary.Subtotal)
		assert.Equal(t, []string{"residence-visa-new"}, summary.UnknownCodes)
	})

	t.Run("bad: unknown country", func(t *testing.T) {
		w := postJSON(router, "/api/v1/quotes", `{"country_id":"atlantis","service_codes":["x"]}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("bad: missing country", func(t *testing.T) {
		w := postJSON(router, "/api/v1/quotes", `{"service_codes":["x"]}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOrderHandler_CreateAndGet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	router := setupPortalRouter(t)

	t.Run("happy: create then fetch by reference", func(t *testing.T) {
		w := postJSON(router, "/api/v1/orders",
			`{"country_id":"qatar","service_codes":["work-visa","family-visa"]}`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var order model.Order
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
		assert.True(t, strings.HasPrefix(order.Reference, "HJR-"))
		// 800 + 1200 = 2000, 2% = 40
		assert.Equal(t, 2000.0, order.Subtotal)
		assert.Equal(t, 40.0, order.Fees)
		assert.Equal(t, 2040.0, order.Total)
		assert.Equal(t, model.OrderStatusPendingPayment, order.Status)
		require.Len(t, order.Items, 2)

		get := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/orders/"+order.Reference, nil)
		router.ServeHTTP(get, req)
		assert.Equal(t, http.StatusOK, get.Code)

		var fetched model.Order
		require.NoError(t, json.Unmarshal(get.Body.Bytes(), &fetched))
		assert.Equal(t, order.Reference, fetched.Reference)
		assert.Equal(t, order.Total, fetched.Total)
	})

	t.Run("concurrent creations get distinct references", func(t *testing.T) {
		const n = 12
		refs := make(chan string, n)
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				w := postJSON(router, "/api/v1/orders",
					`{"country_id":"uae","service_codes":["police-clearance"]}`)
				if w.Code != http.StatusCreated {
					refs <- ""
					return
				}
				var order model.Order
				if json.Unmarshal(w.Body.Bytes(), &order) != nil {
					refs <- ""
					return
				}
				refs <- order.Reference
			}()
		}
		wg.Wait()
		close(refs)

		seen := make(map[string]bool, n)
		for ref := range refs {
			require.NotEmpty(t, ref)
			assert.False(t, seen[ref], "reference %s issued twice", ref)
			seen[ref] = true
		}
		assert.Len(t, seen, n)
	})

	t.Run("duplicate codes collapse into one item", func(t *testing.T) {
		w := postJSON(router, "/api/v1/orders",
			`{"country_id":"morocco","service_codes":["carte-sejour","carte-sejour"]}`)
		require.Equal(t, http.StatusCreated, w.Code)

		var order model.Order
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
		assert.Len(t, order.Items, 1)
		assert.Equal(t, 200.0, order.Subtotal)
	})

	t.Run("bad: selection of only unknown codes", func(t *testing.T) {
		w := postJSON(router, "/api/v1/orders",
			`{"country_id":"uae","service_codes":["ghost-1","ghost-2"]}`)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("bad: empty selection rejected by validation", func(t *testing.T) {
		w := postJSON(router, "/api/v1/orders", `{"country_id":"uae","service_codes":[]}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad: unknown order reference", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/orders/HJR-does-not-exist", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
