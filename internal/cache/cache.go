// Package cache caches aggregate view payloads in Redis. All operations are
// best-effort: a cache failure degrades to a plain database read, never to a
// request failure. When no Redis URL is configured every method is a no-op.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func ResultKey(sondageID uuid.UUID) string {
	return "sondage:result:" + sondageID.String()
}

func DetailsKey(sondageID uuid.UUID) string {
	return "sondage:details:" + sondageID.String()
}

type Cache struct {
	logger *zap.Logger
	client *redis.Client
	ttl    time.Duration
}

func New(logger *zap.Logger, redisURL string, ttl time.Duration) (*Cache, error) {
	if redisURL == "" {
		return &Cache{logger: logger}, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	return &Cache{
		logger: logger,
		client: redis.NewClient(opts),
		ttl:    ttl,
	}, nil
}

func (c *Cache) Enabled() bool {
	return c.client != nil
}

func (c *Cache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c.client == nil {
		return nil, false
	}

	value, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return value, true
}

func (c *Cache) Set(ctx context.Context, key string, value []byte) {
	if c.client == nil {
		return
	}

	if err := c.client.Set(ctx, key, value, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *Cache) Delete(ctx context.Context, keys ...string) {
	if c.client == nil || len(keys) == 0 {
		return
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("cache delete failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

// InvalidateSondage drops the cached aggregate views of one sondage.
func (c *Cache) InvalidateSondage(ctx context.Context, sondageID uuid.UUID) {
	c.Delete(ctx, ResultKey(sondageID), DetailsKey(sondageID))
}
