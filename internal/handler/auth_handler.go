package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hijrafr/expat-services-api/internal/dto"
	"github.com/hijrafr/expat-services-api/internal/middleware"
	"github.com/hijrafr/expat-services-api/internal/service"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{
			Error: "validation failed: " + err.Error(),
		})
		return
	}

	session, user, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, middleware.ErrorResponse{Error: err.Error()})
			return
		}
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      session.Token,
		"expires_at": session.ExpiresAt,
		"admin": gin.H{
			"email": user.Email,
			"name":  user.Name,
			"role":  user.Role,
		},
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !ok || token == "" {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: "missing bearer token"})
		return
	}

	if err := h.svc.Logout(c.Request.Context(), token); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

// Me echoes the authenticated admin; the portal uses it to restore sessions.
func (h *AuthHandler) Me(c *gin.Context) {
	admin := middleware.AdminFromContext(c)
	if admin == nil {
		c.JSON(http.StatusUnauthorized, middleware.ErrorResponse{Error: "not authenticated"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"email":      admin.Email,
		"name":       admin.Name,
		"role":       admin.Role,
		"last_login": admin.LastLogin,
	})
}
