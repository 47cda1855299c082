package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/finpocket/finpocket/pkg/domain"
)

// RedisRateCache implements RateCache using Redis.
type RedisRateCache struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// NewRedisRateCache creates a new RedisRateCache from redis.Options.
func NewRedisRateCache(
	opt *redis.Options,
	prefix string,
	logger *slog.Logger,
) *RedisRateCache {
	client := redis.NewClient(opt)
	return &RedisRateCache{client: client, prefix: prefix, logger: logger}
}

func (r *RedisRateCache) key(key string) string {
	return r.prefix + key
}

// Get retrieves a quote from redis.
func (r *RedisRateCache) Get(ctx context.Context, key string) (*domain.RateQuote, error) {
	val, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		r.logger.Debug("redis cache miss", "key", key)
		return nil, nil // cache miss
	}
	if err != nil {
		r.logger.Error("redis cache get error", "key", key, "error", err)
		return nil, err
	}
	var quote domain.RateQuote
	if err := json.Unmarshal([]byte(val), &quote); err != nil {
		r.logger.Error("redis cache unmarshal error", "key", key, "error", err)
		return nil, err
	}
	r.logger.Debug("redis cache hit", "key", key, "rate", quote.Rate)
	return &quote, nil
}

// Set stores a quote in redis with TTL.
func (r *RedisRateCache) Set(
	ctx context.Context,
	key string,
	quote *domain.RateQuote,
	ttl time.Duration,
) error {
	data, err := json.Marshal(quote)
	if err != nil {
		r.logger.Error("redis cache marshal error", "key", key, "error", err)
		return err
	}
	if err := r.client.Set(ctx, r.key(key), data, ttl).Err(); err != nil {
		r.logger.Error("redis cache set error", "key", key, "error", err)
		return err
	}
	r.logger.Debug("redis cache set", "key", key, "rate", quote.Rate, "ttl", ttl)
	return nil
}

// Delete removes a quote from redis.
func (r *RedisRateCache) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		r.logger.Error("redis cache delete error", "key", key, "error", err)
		return err
	}
	r.logger.Debug("redis cache delete", "key", key)
	return nil
}

var _ RateCache = (*RedisRateCache)(nil)
