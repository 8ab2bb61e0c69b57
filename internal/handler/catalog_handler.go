package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hijrafr/expat-services-api/internal/dto"
	"github.com/hijrafr/expat-services-api/internal/middleware"
	"github.com/hijrafr/expat-services-api/internal/service"
)

type CatalogHandler struct {
	svc *service.CatalogService
}

func NewCatalogHandler(svc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

func (h *CatalogHandler) ListCountries(c *gin.Context) {
	countries, err := h.svc.Countries(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"countries": countries})
}

// GetCountry returns one country together with its full service catalog.
func (h *CatalogHandler) GetCountry(c *gin.Context) {
	country, services, err := h.svc.Country(c.Request.Context(), c.Param("countryId"))
	if err != nil {
		if errors.Is(err, service.ErrCountryNotFound) {
			c.JSON(http.StatusNotFound, middleware.ErrorResponse{Error: "country not found"})
			return
		}
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"country": country, "services": services})
}

// ListServices serves the per-country catalog, optionally filtered with
// ?category=visa|residence|business|family|employment|other.
func (h *CatalogHandler) ListServices(c *gin.Context) {
	services, err := h.svc.Services(c.Request.Context(), c.Param("countryId"), c.Query("category"))
	if err != nil {
		if errors.Is(err, service.ErrCountryNotFound) {
			c.JSON(http.StatusNotFound, middleware.ErrorResponse{Error: "country not found"})
			return
		}
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": services})
}

func (h *CatalogHandler) ListDestinations(c *gin.Context) {
	destinations, err := h.svc.Destinations(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"destinations": destinations})
}

func (h *CatalogHandler) ListJobs(c *gin.Context) {
	params := dto.ParsePagination(c)

	jobs, total, err := h.svc.Jobs(c.Request.Context(), c.Query("country_id"), params.PageSize, params.Offset)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"jobs":       jobs,
		"pagination": dto.NewPagination(params.Page, params.PageSize, total),
	})
}
