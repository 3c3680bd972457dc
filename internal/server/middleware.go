package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mahfza/admin-service/internal/store"
)

const sessionCookie = "admin_session"

// RequireAdmin guards admin endpoints with the opaque session cookie.
func RequireAdmin(admins *store.AdminRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(sessionCookie)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "غير مصرح"})
			return
		}
		session, err := admins.GetSession(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "خطأ في الخادم"})
			return
		}
		if session == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "غير مصرح"})
			return
		}
		c.Set("admin_id", session.AdminID)
		c.Next()
	}
}
