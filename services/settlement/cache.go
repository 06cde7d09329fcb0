// File: services/settlement/cache.go
package settlement

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const settledKeyPrefix = "settled:"

// settledCache is the redis fast path for the first idempotency check: a
// settled payment reference maps straight to its result without touching the
// primary store. Strictly an optimization; the record in Mongo stays
// authoritative and a nil client disables the cache.
type settledCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func (c *settledCache) Get(ctx context.Context, gatewayPaymentRef string) *Result {
	if c.client == nil {
		return nil
	}
	raw, err := c.client.Get(ctx, settledKeyPrefix+gatewayPaymentRef).Result()
	if err != nil {
		return nil
	}
	var result Result
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		c.logger.Warn("corrupt settled-cache entry", zap.String("gatewayPaymentRef", gatewayPaymentRef), zap.Error(err))
		return nil
	}
	return &result
}

func (c *settledCache) Put(ctx context.Context, gatewayPaymentRef string, result Result) {
	if c.client == nil {
		return
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, settledKeyPrefix+gatewayPaymentRef, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("failed to cache settled payment", zap.String("gatewayPaymentRef", gatewayPaymentRef), zap.Error(err))
	}
}
