package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hijrafr/expat-services-api/internal/dto"
	"github.com/hijrafr/expat-services-api/internal/middleware"
	"github.com/hijrafr/expat-services-api/internal/service"
)

type AssistanceHandler struct {
	svc *service.AssistanceService
}

func NewAssistanceHandler(svc *service.AssistanceService) *AssistanceHandler {
	return &AssistanceHandler{svc: svc}
}

// Create is the public intake endpoint; everything else on this handler sits
// behind admin auth.
func (h *AssistanceHandler) Create(c *gin.Context) {
	var req dto.CreateAssistanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{
			Error: "validation failed: " + err.Error(),
		})
		return
	}

	request, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrCountryNotFound) {
			c.JSON(http.StatusNotFound, middleware.ErrorResponse{Error: "country not found"})
			return
		}
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, request)
}

func (h *AssistanceHandler) List(c *gin.Context) {
	params := dto.ParsePagination(c)

	requests, total, err := h.svc.List(c.Request.Context(), c.Query("status"), params.PageSize, params.Offset)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"requests":   requests,
		"pagination": dto.NewPagination(params.Page, params.PageSize, total),
	})
}

func (h *AssistanceHandler) Get(c *gin.Context) {
	request, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, request)
}

func (h *AssistanceHandler) Update(c *gin.Context) {
	var req dto.UpdateAssistanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{
			Error: "validation failed: " + err.Error(),
		})
		return
	}

	request, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, request)
}

func (h *AssistanceHandler) AddDocument(c *gin.Context) {
	var req dto.AddDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{
			Error: "validation failed: " + err.Error(),
		})
		return
	}

	doc, err := h.svc.AddDocument(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

func (h *AssistanceHandler) ListDocuments(c *gin.Context) {
	docs, err := h.svc.Documents(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

func (h *AssistanceHandler) ReviewDocument(c *gin.Context) {
	var req dto.ReviewDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{
			Error: "validation failed: " + err.Error(),
		})
		return
	}

	admin := middleware.AdminFromContext(c)
	if admin == nil {
		c.JSON(http.StatusUnauthorized, middleware.ErrorResponse{Error: "not authenticated"})
		return
	}

	if err := h.svc.ReviewDocument(c.Request.Context(), c.Param("docId"), &req, admin.Name); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}

func (h *AssistanceHandler) AddNote(c *gin.Context) {
	var req dto.AddNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{
			Error: "validation failed: " + err.Error(),
		})
		return
	}

	admin := middleware.AdminFromContext(c)
	if admin == nil {
		c.JSON(http.StatusUnauthorized, middleware.ErrorResponse{Error: "not authenticated"})
		return
	}

	note, err := h.svc.AddNote(c.Request.Context(), c.Param("id"), &req, admin.Name)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, note)
}

func (h *AssistanceHandler) ListNotes(c *gin.Context) {
	notes, err := h.svc.Notes(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notes": notes})
}

func (h *AssistanceHandler) writeError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrRequestNotFound) {
		c.JSON(http.StatusNotFound, middleware.ErrorResponse{Error: "assistance request not found"})
		return
	}
	c.Error(err)
}
