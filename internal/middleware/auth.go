package middleware

import (
	"net/http"
	"strings"

	"takeaway-be/internal/user"
	"takeaway-be/internal/utils"

	"github.com/gin-gonic/gin"
)

// Auth verifies the Bearer token and loads the requester into both the
// gin context and the request context, so handlers and services share
// one view of the caller.
func Auth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
			return
		}
		tokenStr := strings.TrimPrefix(h, "Bearer ")

		claims, err := user.ParseJWT(jwtSecret, tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		ctx := utils.SetUserContext(c.Request.Context(), claims.UserID, claims.Email, claims.Role)
		c.Request = c.Request.WithContext(ctx)
		c.Set("userId", claims.UserID)
		c.Set("role", claims.Role)

		c.Next()
	}
}

// RequireManager gates staff-only routes. Runs after Auth.
func RequireManager() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := user.Role(utils.GetUserRoleFromContext(c.Request.Context()))
		if !user.CanManage(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
