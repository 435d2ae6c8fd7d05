package middleware

import (
	"net/http"

	userRepo "healthcart/database/repository/user"
	"healthcart/models"
	"healthcart/utils"

	"github.com/gin-gonic/gin"
)

// AdminKeyHeader carries the static operator key.
const AdminKeyHeader = "X-Admin-Key"

// JWTAuthAdminMiddleware admits either a valid operator key or a user whose stored role
// is admin.
func JWTAuthAdminMiddleware(users userRepo.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key := c.GetHeader(AdminKeyHeader); key != "" {
			if !utils.CheckAdminKey(key) {
				utils.JSONError(c, http.StatusUnauthorized, "Unauthorized admin access")
				c.Abort()
				return
			}
			c.Set(ContextRole, models.RoleAdmin)
			c.Next()
			return
		}

		if !authenticate(c, users) {
			return
		}
		if c.GetString(ContextRole) != models.RoleAdmin {
			utils.JSONError(c, http.StatusForbidden, "Admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}
