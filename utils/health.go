package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

const healthInterval = 60 * time.Second

// HealthStatus is the latest view of the backing services. A nil entry
// means the service is not configured.
type HealthStatus struct {
	Mongo     *bool     `json:"mongo,omitempty"`
	Redis     *bool     `json:"redis,omitempty"`
	CheckedAt time.Time `json:"checkedAt"`
}

var (
	currentHealth HealthStatus
	mu            sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

// CheckHealth pings whichever clients are set and stores the result.
func CheckHealth(ctx context.Context, redisClient *redis.Client, mongoClient *mongo.Client) HealthStatus {
	status := HealthStatus{CheckedAt: time.Now()}
	if redisClient != nil {
		ok := redisClient.Ping(ctx).Err() == nil
		status.Redis = &ok
	}
	if mongoClient != nil {
		ok := mongoClient.Ping(ctx, nil) == nil
		status.Mongo = &ok
	}

	mu.Lock()
	currentHealth = status
	mu.Unlock()
	return status
}

// StartHealthMonitor refreshes the snapshot until ctx is done.
func StartHealthMonitor(ctx context.Context, redisClient *redis.Client, mongoClient *mongo.Client) {
	CheckHealth(ctx, redisClient, mongoClient)
	go func() {
		ticker := time.NewTicker(healthInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
				CheckHealth(pingCtx, redisClient, mongoClient)
				cancel()
			}
		}
	}()
}
