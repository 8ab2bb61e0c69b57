package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hijrafr/expat-services-api/internal/dto"
	"github.com/hijrafr/expat-services-api/internal/middleware"
	"github.com/hijrafr/expat-services-api/internal/service"
)

type BookingHandler struct {
	svc *service.BookingService
}

func NewBookingHandler(svc *service.BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

// Create books a consultation slot. A taken slot surfaces as 409 via the
// unique constraint on (booking_date, slot).
func (h *BookingHandler) Create(c *gin.Context) {
	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{
			Error: "validation failed: " + err.Error(),
		})
		return
	}

	booking, err := h.svc.Book(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrSlotUnknown) {
			c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: err.Error()})
			return
		}
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// Availability lists the free slots for ?date=YYYY-MM-DD.
func (h *BookingHandler) Availability(c *gin.Context) {
	date := c.Query("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: "date must be YYYY-MM-DD"})
		return
	}

	slots, err := h.svc.Availability(c.Request.Context(), date)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"date": date, "available_slots": slots})
}
