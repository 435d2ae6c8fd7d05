package utils

import (
	"context"
	"time"

	"healthcart/config"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// AuthCacheClient is the dedicated client for authorization caching.
var AuthCacheClient *redis.Client

// InitAuthCache connects the auth cache. Redis is optional for auth: when it is unreachable
// the client is left nil and lookups go straight to MongoDB.
func InitAuthCache() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisAuthDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		GetLogger().Warn("Redis auth cache unavailable, continuing without it", zap.Error(err))
		_ = client.Close()
		return
	}
	AuthCacheClient = client
}

// GetAuthCacheClient returns the Redis client for authorization caching, or nil.
func GetAuthCacheClient() *redis.Client {
	return AuthCacheClient
}
