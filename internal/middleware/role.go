package middleware

import (
	"net/http"

	"npl-dashboard/pkg/utils"

	"github.com/gin-gonic/gin"
)

func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			utils.ErrorResponse(c, http.StatusForbidden, "Role not found in context")
			c.Abort()
			return
		}

		userRole := role.(string)

		for _, allowedRole := range allowedRoles {
			if userRole == allowedRole {
				c.Next()
				return
			}
		}

		utils.ErrorResponse(c, http.StatusForbidden, "Insufficient permissions")
		c.Abort()
	}
}

func StateOnly() gin.HandlerFunc {
	return RoleMiddleware("state")
}

func StateOrCounty() gin.HandlerFunc {
	return RoleMiddleware("state", "county")
}

func AnyCoordinatorScope() gin.HandlerFunc {
	return RoleMiddleware("state", "county", "tract")
}
