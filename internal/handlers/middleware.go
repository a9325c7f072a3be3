package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/orange-studies/portal-service/internal/auth"
	"github.com/orange-studies/portal-service/internal/repositories"
	"github.com/orange-studies/portal-service/internal/utils"
)

// ContextUserKey is where the auth middleware stores the resolved user.
const ContextUserKey = "currentUser"

// AuthMiddleware validates the bearer token and loads the live user record,
// so role changes and deletions take effect without waiting for token expiry.
func AuthMiddleware(tokens *auth.TokenManager, repo repositories.Repository, logger utils.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Success: false, Error: "missing or malformed authorization header"})
			return
		}

		claims, err := tokens.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Success: false, Error: "invalid or expired token"})
			return
		}

		user, err := repo.User().GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Success: false, Error: "account no longer exists"})
				return
			}
			logger.LogError(err, "failed to resolve token user", "user_id", claims.UserID)
			c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Success: false, Error: "internal server error"})
			return
		}

		c.Set(ContextUserKey, user)
		c.Set("user_id", user.ID)
		c.Next()
	}
}

// AdminGateMiddleware blocks the /admin route group for everyone except
// ADMIN and MANAGER. ADMIN-only operations are enforced again at the service
// layer.
func AdminGateMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.Role.IsStaff() {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Success: false, Error: "admin access required"})
			return
		}
		c.Next()
	}
}
