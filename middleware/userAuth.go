package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	userRepo "healthcart/database/repository/user"
	"healthcart/models"
	"healthcart/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// account is the cached slice of a user record that authorization needs.
type account struct {
	role   string
	active bool
}

func (a account) encode() string {
	return a.role + "|" + strconv.FormatBool(a.active)
}

func decodeAccount(v string) (account, bool) {
	role, active, ok := strings.Cut(v, "|")
	if !ok || role == "" {
		return account{}, false
	}
	b, err := strconv.ParseBool(active)
	if err != nil {
		return account{}, false
	}
	return account{role: role, active: b}, true
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}

// JWTAuthUserMiddleware authenticates a bearer token and loads the account's role. The
// stored role wins over the token claim; lookups are cached in Redis when it is available.
func JWTAuthUserMiddleware(users userRepo.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, users) {
			return
		}
		c.Next()
	}
}

// authenticate sets the caller on c or aborts the request. It reports whether the caller
// was accepted.
func authenticate(c *gin.Context, users userRepo.UserRepository) bool {
	tokenString := bearerToken(c)
	if tokenString == "" {
		utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization")
		c.Abort()
		return false
	}
	claims, err := utils.ParseClaims(tokenString)
	if err != nil {
		utils.JSONError(c, http.StatusUnauthorized, "Invalid token")
		c.Abort()
		return false
	}

	acct, err := lookupAccount(c.Request.Context(), users, claims.UserID)
	if err != nil || !acct.active {
		utils.JSONError(c, http.StatusUnauthorized, "Authentication error")
		c.Abort()
		return false
	}

	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextRole, acct.role)
	return true
}

func lookupAccount(ctx context.Context, users userRepo.UserRepository, userID string) (account, error) {
	logger := utils.GetLogger()
	cacheKey := utils.AuthCachePrefix + userID

	authCache := utils.GetAuthCacheClient()
	if authCache != nil {
		cached, err := authCache.Get(ctx, cacheKey).Result()
		switch {
		case err == nil:
			if acct, ok := decodeAccount(cached); ok {
				return acct, nil
			}
		case !errors.Is(err, redis.Nil):
			logger.Warn("auth cache read failed, falling back to DB", zap.Error(err))
		}
	}

	usr, err := users.GetByIDWithProjection(ctx, userID, bson.M{"id": 1, "role": 1, "isActive": 1})
	if err != nil || usr == nil {
		return account{}, errors.New("account not found")
	}
	role := usr.Role
	if role == "" {
		role = models.RoleUser
	}
	acct := account{role: role, active: usr.IsActive}

	if authCache != nil {
		if err := authCache.Set(ctx, cacheKey, acct.encode(), utils.AuthCacheTTL).Err(); err != nil {
			logger.Warn("auth cache write failed", zap.Error(err))
		}
	}
	return acct, nil
}
