package middleware

import (
	"healthcart/models"

	"github.com/gin-gonic/gin"
)

// Context keys set by the auth middlewares.
const (
	ContextUserID = "userID"
	ContextRole   = "role"
)

// CallerFromContext returns the principal the auth middlewares attached to c.
func CallerFromContext(c *gin.Context) models.Caller {
	return models.Caller{
		UserID:  c.GetString(ContextUserID),
		IsAdmin: c.GetString(ContextRole) == models.RoleAdmin,
	}
}
