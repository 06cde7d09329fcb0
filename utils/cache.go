// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"staybook/config"

	"github.com/go-redis/redis/v8"
)

// SettlementCacheClient is the dedicated client for settled-payment caching.
var SettlementCacheClient *redis.Client

// InitSettlementCache initializes the Redis client backing the settlement
// fast-path idempotency cache.
func InitSettlementCache() {
	SettlementCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := SettlementCacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Settlement Cache): %v", err)
	}
}

// GetSettlementCacheClient returns the settlement cache client.
func GetSettlementCacheClient() *redis.Client {
	if SettlementCacheClient == nil {
		InitSettlementCache()
	}
	return SettlementCacheClient
}
