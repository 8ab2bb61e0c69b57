package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hijrafr/expat-services-api/internal/dto"
	"github.com/hijrafr/expat-services-api/internal/middleware"
	"github.com/hijrafr/expat-services-api/internal/provider"
	"github.com/hijrafr/expat-services-api/internal/service"
)

type PaymentHandler struct {
	svc *service.PaymentService
}

func NewPaymentHandler(svc *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

// Create dispatches one payment attempt for the order. The response shape
// depends on the method: card settles inline, bank transfer returns wire
// instructions, PayPal returns an approval URL to redirect to.
func (h *PaymentHandler) Create(c *gin.Context) {
	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{
			Error: "validation failed: " + err.Error(),
		})
		return
	}

	initiation, err := h.svc.Dispatch(c.Request.Context(), c.Param("reference"), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, initiation)
}

// Capture finalizes a PayPal order after the client approved it.
func (h *PaymentHandler) Capture(c *gin.Context) {
	var req dto.CapturePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{
			Error: "validation failed: " + err.Error(),
		})
		return
	}

	payment, err := h.svc.CapturePayPal(c.Request.Context(), c.Param("reference"), req.ProviderOrderID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

func (h *PaymentHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound), errors.Is(err, service.ErrPaymentNotFound):
		c.JSON(http.StatusNotFound, middleware.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrAlreadyPaid):
		c.JSON(http.StatusConflict, middleware.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrCardTokenRequired):
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: err.Error()})
	case errors.Is(err, provider.ErrNotConfigured):
		c.JSON(http.StatusServiceUnavailable, middleware.ErrorResponse{
			Error: "this payment method is not available right now",
		})
	case errors.Is(err, provider.ErrNotFound):
		c.JSON(http.StatusNotFound, middleware.ErrorResponse{Error: err.Error()})
	default:
		c.Error(err)
	}
}
