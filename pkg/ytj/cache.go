package ytj

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "ytj:"

// cached decorates a Client with a Redis read-through cache. Cache failures
// are logged and fall through to the register.
type cached struct {
	next Client
	rdb  redis.UniversalClient
	ttl  time.Duration
}

// NewCached wraps next with a Redis cache. Unknown ids are cached too so
// repeated lookups of a typo do not hit the register.
func NewCached(next Client, rdb redis.UniversalClient, ttl time.Duration) Client {
	return &cached{next: next, rdb: rdb, ttl: ttl}
}

func (c *cached) ByBusinessID(ctx context.Context, businessID string) (*Company, error) {
	key := keyPrefix + "id:" + businessID
	var hit *Company
	if c.load(ctx, key, &hit) {
		return hit, nil
	}
	co, err := c.next.ByBusinessID(ctx, businessID)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, co)
	return co, nil
}

func (c *cached) Autocomplete(ctx context.Context, partialName string, limit int) ([]Company, error) {
	key := fmt.Sprintf("%sac:%d:%s", keyPrefix, limit, Normalize(partialName))
	var hit []Company
	if c.load(ctx, key, &hit) {
		return hit, nil
	}
	out, err := c.next.Autocomplete(ctx, partialName, limit)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, out)
	return out, nil
}

func (c *cached) load(ctx context.Context, key string, out any) bool {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			zap.L().Warn("ytj: cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		zap.L().Warn("ytj: cache entry corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	zap.L().Debug("ytj: cache hit", zap.String("key", key))
	return true
}

func (c *cached) store(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		zap.L().Warn("ytj: cache write failed", zap.String("key", key), zap.Error(err))
	}
}
