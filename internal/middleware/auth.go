package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hijrafr/expat-services-api/internal/model"
)

// AdminKey is the context key the auth middleware stores the resolved
// admin user under.
const AdminKey = "admin_user"

type SessionValidator interface {
	Validate(ctx context.Context, token string) (*model.AdminUser, error)
}

// AdminAuth resolves the bearer token into an admin user for each request,
// replacing the ambient auth-context singleton the portal used to rely on.
func AdminAuth(sessions SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "missing bearer token"})
			return
		}

		admin, err := sessions.Validate(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid or expired session"})
			return
		}

		c.Set(AdminKey, admin)
		c.Next()
	}
}

// AdminFromContext returns the authenticated admin set by AdminAuth.
func AdminFromContext(c *gin.Context) *model.AdminUser {
	if v, ok := c.Get(AdminKey); ok {
		if admin, ok := v.(*model.AdminUser); ok {
			return admin
		}
	}
	return nil
}
