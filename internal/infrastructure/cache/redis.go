package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"palava-proof/internal/config"
	"palava-proof/pkg/logger"
)

// ErrCacheMiss is returned when a key is not cached
var ErrCacheMiss = errors.New("cache miss")

// Cache key constants for Palava Proof
const (
	// Feedback counters, one hash field per kind
	KeyFeedback = "stats:feedback"

	// Rate limiting keys
	KeyRateLimitPrefix = "rate_limit:"

	// Scheduler keys
	KeySchedulerLock = "scheduler:lock:"
)

// RedisCache wraps the Redis client with typed operations
type RedisCache struct {
	client    *redis.Client
	keyPrefix string
	logger    *logger.Logger
}

// NewRedis creates a new Redis client
func NewRedis(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (*RedisCache, error) {
	log = log.WithComponent("redis")
	log.Info().Str("host", cfg.Host).Int("port", cfg.Port).Msg("connecting to Redis")

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	log.Info().Msg("connected to Redis successfully")

	return &RedisCache{
		client:    client,
		keyPrefix: cfg.KeyPrefix,
		logger:    log,
	}, nil
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	c.logger.Info().Msg("closing Redis connection")
	return c.client.Close()
}

// Ping checks the Redis connection
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// key prepends the namespace prefix to a key
func (c *RedisCache) key(k string) string {
	return c.keyPrefix + k
}

// GetJSON retrieves and unmarshals a JSON value, returning ErrCacheMiss
// when the key is absent
func (c *RedisCache) GetJSON(ctx context.Context, key string, dest any) error {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// SetJSON marshals and stores a value in cache
func (c *RedisCache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return c.client.Set(ctx, c.key(key), data, ttl).Err()
}

// Delete removes keys from cache
func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	prefixedKeys := make([]string, len(keys))
	for i, k := range keys {
		prefixedKeys[i] = c.key(k)
	}
	return c.client.Del(ctx, prefixedKeys...).Err()
}

// IncrFeedback bumps the counter for one feedback kind and returns the new total
func (c *RedisCache) IncrFeedback(ctx context.Context, kind string) (int64, error) {
	return c.client.HIncrBy(ctx, c.key(KeyFeedback), kind, 1).Result()
}

// FeedbackCounts returns the totals per feedback kind
func (c *RedisCache) FeedbackCounts(ctx context.Context) (map[string]int64, error) {
	raw, err := c.client.HGetAll(ctx, c.key(KeyFeedback)).Result()
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(raw))
	for kind, v := range raw {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid feedback count for %s: %w", kind, err)
		}
		counts[kind] = n
	}
	return counts, nil
}

// AcquireLock attempts to acquire a distributed lock
func (c *RedisCache) AcquireLock(ctx context.Context, lockKey string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, c.key(KeySchedulerLock+lockKey), "locked", ttl).Result()
}

// ReleaseLock releases a distributed lock
func (c *RedisCache) ReleaseLock(ctx context.Context, lockKey string) error {
	return c.Delete(ctx, KeySchedulerLock+lockKey)
}

// CheckRateLimit checks and increments the rate limit counter
// Returns (allowed, remaining, resetTime, error)
func (c *RedisCache) CheckRateLimit(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, time.Time, error) {
	now := time.Now()
	windowKey := c.key(rateLimitWindowKey(key, now, window))

	pipe := c.client.Pipeline()
	incr := pipe.Incr(ctx, windowKey)
	pipe.Expire(ctx, windowKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	count := incr.Val()
	remaining := max(limit-count, 0)

	return count <= limit, remaining, now.Add(window), nil
}

// rateLimitWindowKey names the fixed window that now falls into
func rateLimitWindowKey(key string, now time.Time, window time.Duration) string {
	secs := int64(window.Seconds())
	if secs <= 0 {
		secs = 1
	}
	return fmt.Sprintf("%s%s:%d", KeyRateLimitPrefix, key, now.Unix()/secs)
}
