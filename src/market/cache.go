package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"signaldesk/src/model"
)

// Cache stores generated series so dashboard refreshes within the TTL see a
// stable chart.
type Cache interface {
	Get(ctx context.Context, key string) ([]model.MarketPoint, bool, error)
	Set(ctx context.Context, key string, series []model.MarketPoint, ttl time.Duration) error
}

// RedisCache implements Cache using Redis.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache connects and pings the server.
func NewRedisCache(ctx context.Context, addr, password string, db int, prefix string) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return NewRedisCacheWithClient(client, prefix), nil
}

func NewRedisCacheWithClient(client *redis.Client, prefix string) *RedisCache {
	return &RedisCache{client: client, prefix: prefix}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]model.MarketPoint, bool, error) {
	data, err := c.client.Get(ctx, c.wrapKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var series []model.MarketPoint
	if err := json.Unmarshal(data, &series); err != nil {
		return nil, false, fmt.Errorf("decode cached series: %w", err)
	}
	return series, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, series []model.MarketPoint, ttl time.Duration) error {
	data, err := json.Marshal(series)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.wrapKey(key), data, ttl).Err()
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) wrapKey(key string) string {
	if c.prefix == "" {
		return key
	}
	return c.prefix + ":" + key
}
