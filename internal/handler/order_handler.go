package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hijrafr/expat-services-api/internal/dto"
	"github.com/hijrafr/expat-services-api/internal/middleware"
	"github.com/hijrafr/expat-services-api/internal/service"
)

type OrderHandler struct {
	svc *service.OrderService
}

func NewOrderHandler(svc *service.OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

// Quote prices a selection without persisting anything. Unknown codes come
// back in the response instead of failing the quote.
func (h *OrderHandler) Quote(c *gin.Context) {
	var req dto.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{
			Error: "validation failed: " + err.Error(),
		})
		return
	}

	summary, err := h.svc.Quote(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrCountryNotFound) {
			c.JSON(http.StatusNotFound, middleware.ErrorResponse{Error: "country not found"})
			return
		}
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{
			Error: "validation failed: " + err.Error(),
		})
		return
	}

	order, err := h.svc.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCountryNotFound):
			c.JSON(http.StatusNotFound, middleware.ErrorResponse{Error: "country not found"})
		case errors.Is(err, service.ErrEmptySelection):
			c.JSON(http.StatusUnprocessableEntity, middleware.ErrorResponse{
				Error: "no purchasable services in selection",
			})
		default:
			c.Error(err)
		}
		return
	}

	c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.svc.GetOrder(c.Request.Context(), c.Param("reference"))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, middleware.ErrorResponse{Error: "order not found"})
			return
		}
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, order)
}
