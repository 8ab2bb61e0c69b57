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

// AdminPaymentHandler is the payment inspector used by the back office.
type AdminPaymentHandler struct {
	svc *service.AdminPaymentService
}

func NewAdminPaymentHandler(svc *service.AdminPaymentService) *AdminPaymentHandler {
	return &AdminPaymentHandler{svc: svc}
}

// Fetch returns the provider's live view of a transaction.
func (h *AdminPaymentHandler) Fetch(c *gin.Context) {
	record, err := h.svc.Fetch(c.Request.Context(), c.Param("provider"), c.Param("transactionId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *AdminPaymentHandler) Refund(c *gin.Context) {
	var req dto.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{
			Error: "validation failed: " + err.Error(),
		})
		return
	}

	resp, err := h.svc.Refund(c.Request.Context(), c.Param("provider"), c.Param("transactionId"), req.Amount)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Timeline lists every payment attempt for an order with the live provider
// record alongside each local row.
func (h *AdminPaymentHandler) Timeline(c *gin.Context) {
	entries, err := h.svc.Timeline(c.Request.Context(), c.Param("reference"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": entries})
}

func (h *AdminPaymentHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnknownProvider):
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrPaymentNotFound), errors.Is(err, provider.ErrNotFound):
		c.JSON(http.StatusNotFound, middleware.ErrorResponse{Error: "payment not found"})
	case errors.Is(err, service.ErrRefundExceedsCapture), errors.Is(err, service.ErrRefundNotRefundable):
		c.JSON(http.StatusUnprocessableEntity, middleware.ErrorResponse{Error: err.Error()})
	case errors.Is(err, provider.ErrNotConfigured):
		c.JSON(http.StatusServiceUnavailable, middleware.ErrorResponse{
			Error: "provider is not configured",
		})
	default:
		c.Error(err)
	}
}
