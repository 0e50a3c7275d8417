package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"daruyab/internal/database/models"
	"daruyab/internal/utils"
)

const userContextKey = "currentUser"

// OptionalAuth resolves the caller's identity from a bearer token when one
// is present and valid; anonymous requests pass through untouched. Write
// gates are enforced separately by RequireAuth/RequireAdmin.
func OptionalAuth(db *gorm.DB, secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.Next()
			return
		}

		claims, err := utils.ParseToken(secret, parts[1])
		if err != nil || claims.TokenType != utils.TokenTypeAccess {
			c.Next()
			return
		}

		var user models.User
		if err := db.Preload("Role").First(&user, claims.UserID).Error; err != nil {
			c.Next()
			return
		}
		if !user.IsActive {
			c.Next()
			return
		}

		c.Set(userContextKey, &user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user, or nil for anonymous callers.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(userContextKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// RequireAuth rejects anonymous requests. OptionalAuth must run earlier in
// the chain.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Authentication credentials were not provided."})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin allows only superusers or users with the Admin role.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Authentication credentials were not provided."})
			c.Abort()
			return
		}
		if !user.IsAdminOrSuperuser() {
			c.JSON(http.StatusForbidden, gin.H{"detail": "You do not have permission to perform this action."})
			c.Abort()
			return
		}
		c.Next()
	}
}
