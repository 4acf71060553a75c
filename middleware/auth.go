package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/akazansky/survey-api/config"
	"github.com/akazansky/survey-api/models"
	"github.com/akazansky/survey-api/utils"
)

const CtxUser = "user"

// Authenticate resolves Authorization: Bearer <token> to a User and
// injects it into the context. It never aborts: a missing, malformed or
// expired token just leaves the request anonymous, so public routes
// stay reachable. Role-gated routes reject downstream.
func Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
			c.Next()
			return
		}
		rawToken := strings.TrimSpace(authHeader[7:])

		claims, err := utils.VerifyAccessToken(rawToken)
		if err != nil {
			c.Next()
			return
		}

		uid, err := strconv.ParseUint(claims.UserID, 10, 64)
		if err != nil {
			c.Next()
			return
		}

		var user models.User
		if err := config.DB.First(&user, uid).Error; err != nil {
			c.Next()
			return
		}

		c.Set(CtxUser, user)
		c.Next()
	}
}

// RequireAdmin blocks routes reserved for administrators. Requests
// without a resolved identity or with a non-admin role get 403 before
// the handler runs.
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(models.RoleAdmin)
}

// RequireRole blocks routes unless the resolved identity carries one of
// the allowed roles.
func RequireRole(roles ...int) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get(CtxUser)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
			return
		}
		u := v.(models.User)
		for _, role := range roles {
			if u.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
	}
}
