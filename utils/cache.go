// File: utils/cache.go
package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"jobbot/config"
)

// SessionCacheClient holds conversation sessions when SESSION_BACKEND=redis.
var SessionCacheClient *redis.Client

// InitSessionCache connects the session client and verifies it answers.
func InitSessionCache() error {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisSessionDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return fmt.Errorf("connect to Redis (sessions): %w", err)
	}
	SessionCacheClient = client
	return nil
}

// CloseCaches closes every client that was opened.
func CloseCaches() {
	if SessionCacheClient != nil {
		SessionCacheClient.Close()
	}
}
