// File: hotelpms/utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"hotelpms/config"

	"github.com/go-redis/redis/v8"
)

// AuthCacheClient is the dedicated client for auth-flow caching (OTP resend
// suppression).
var AuthCacheClient *redis.Client

// InitAuthCache initializes the Redis client for auth-flow caching.
func InitAuthCache() {
	AuthCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisAuthDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := AuthCacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Auth Cache): %v", err)
	}
}

// GetAuthCacheClient returns the Redis client for auth-flow caching.
func GetAuthCacheClient() *redis.Client {
	if AuthCacheClient == nil {
		InitAuthCache()
	}
	return AuthCacheClient
}
