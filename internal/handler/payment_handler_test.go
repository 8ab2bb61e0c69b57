package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hijrafr/expat-services-api/internal/dto"
	"github.com/hijrafr/expat-services-api/internal/model"
)

func createTestOrder(t *testing.T, router *gin.Engine) model.Order {
	t.Helper()
	w := postJSON(router, "/api/v1/orders",
		`{"country_id":"uae","service_codes":["residence-visa-new"]}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var order model.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
	return order
}

func TestPaymentHandler_BankTransfer(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	router := setupPortalRouter(t)

	t.Run("happy: wire instructions carry the order reference", func(t *testing.T) {
		order := createTestOrder(t, router)

		w := postJSON(router, "/api/v1/orders/"+order.Reference+"/payments",
			`{"method":"bank_transfer"}`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var initiation dto.PaymentInitiation
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &initiation))
		assert.Equal(t, model.PaymentStatusPending, initiation.Payment.Status)
		require.NotNil(t, initiation.BankInstructions)
		assert.Equal(t, order.Reference, initiation.BankInstructions.Reference)
		assert.Equal(t, order.Total, initiation.BankInstructions.Amount)
		assert.NotEmpty(t, initiation.BankInstructions.IBAN)
		assert.NotEmpty(t, initiation.BankInstructions.BIC)
	})

	t.Run("repeat request reuses the pending payment", func(t *testing.T) {
		order := createTestOrder(t, router)

		first := postJSON(router, "/api/v1/orders/"+order.Reference+"/payments", `{"method":"bank_transfer"}`)
		require.Equal(t, http.StatusCreated, first.Code)
		second := postJSON(router, "/api/v1/orders/"+order.Reference+"/payments", `{"method":"bank_transfer"}`)
		require.Equal(t, http.StatusCreated, second.Code)

		var a, b dto.PaymentInitiation
		require.NoError(t, json.Unmarshal(first.Body.Bytes(), &a))
		require.NoError(t, json.Unmarshal(second.Body.Bytes(), &b))
		assert.Equal(t, a.Payment.ID, b.Payment.ID)
	})
}

func TestPaymentHandler_UnconfiguredProviders(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	router := setupPortalRouter(t)

	t.Run("card without credentials answers 503", func(t *testing.T) {
		order := createTestOrder(t, router)

		w := postJSON(router, "/api/v1/orders/"+order.Reference+"/payments",
			`{"method":"card","payment_method_id":"pm_card_visa"}`)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("paypal without credentials answers 503", func(t *testing.T) {
		order := createTestOrder(t, router)

		w := postJSON(router, "/api/v1/orders/"+order.Reference+"/payments", `{"method":"paypal"}`)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("bad: card without a payment method token", func(t *testing.T) {
		order := createTestOrder(t, router)

		w := postJSON(router, "/api/v1/orders/"+order.Reference+"/payments", `{"method":"card"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad: unsupported method rejected by validation", func(t *testing.T) {
		order := createTestOrder(t, router)

		w := postJSON(router, "/api/v1/orders/"+order.Reference+"/payments", `{"method":"crypto"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad: unknown order", func(t *testing.T) {
		w := postJSON(router, "/api/v1/orders/HJR-ghost/payments", `{"method":"bank_transfer"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("bad: capture with no matching provider order", func(t *testing.T) {
		order := createTestOrder(t, router)

		w := postJSON(router, "/api/v1/orders/"+order.Reference+"/payments/capture",
			`{"provider_order_id":"PP-GHOST"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
