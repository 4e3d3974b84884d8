package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lifefashion/internal/auth"
)

const (
	ClaimsKey = "claims"
	UserIDKey = "userId"
)

// tokenFromRequest accepts both an Authorization: Bearer header and the
// legacy plain token header the admin console still sends.
func tokenFromRequest(c *gin.Context) string {
	raw := strings.TrimSpace(c.GetHeader("Authorization"))
	if raw != "" {
		parts := strings.Split(raw, " ")
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
		return ""
	}
	return strings.TrimSpace(c.GetHeader("token"))
}

// AuthGuard validates the token and, when allowedRoles is non-empty, checks
// the role claim against the allow-list.
func AuthGuard(tokens *auth.Service, allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Token missing"})
			return
		}

		claims, err := tokens.Parse(tokenString)
		if err != nil {
			zap.L().Debug("token rejected", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid token"})
			return
		}

		if len(allowedRoles) > 0 {
			match := false
			for _, role := range allowedRoles {
				if claims.Role == role {
					match = true
					break
				}
			}
			if !match {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "Unauthorized role"})
				return
			}
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// UserAuth validates a storefront user token and injects the user's object
// id into the context.
func UserAuth(tokens *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Token missing"})
			return
		}

		claims, err := tokens.Parse(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid token"})
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid token"})
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(UserIDKey, userID)
		c.Next()
	}
}
