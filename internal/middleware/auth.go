package middleware

import (
	"net/http"
	"strings"

	"npl-dashboard/internal/config"
	"npl-dashboard/pkg/utils"

	"github.com/gin-gonic/gin"
)

const claimsKey = "claims"

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Authorization header required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(parts[1], cfg.JWT.Secret)
		if err != nil {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(claimsKey, claims)
		c.Set("role", claims.Role)

		c.Next()
	}
}

// GetClaims returns the authenticated caller's claims, or nil when the
// request did not pass AuthMiddleware.
func GetClaims(c *gin.Context) *utils.Claims {
	v, exists := c.Get(claimsKey)
	if !exists {
		return nil
	}
	claims, ok := v.(*utils.Claims)
	if !ok {
		return nil
	}
	return claims
}
