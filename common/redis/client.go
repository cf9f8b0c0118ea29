// Package redis wraps go-redis with the logged operations used by the Redis
// bucket backend.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Logger is the logging surface the wrapper needs; satisfied by
// common/logger.Logger.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
}

// Client wraps redis.Client with instrumentation.
type Client struct {
	redis  *redis.Client
	logger Logger
}

// NewClient creates a new Redis client wrapper.
func NewClient(redisClient *redis.Client, logger Logger) *Client {
	return &Client{
		redis:  redisClient,
		logger: logger,
	}
}

// GetUnderlying returns the underlying redis.Client.
func (c *Client) GetUnderlying() *redis.Client {
	return c.redis
}

// Ping verifies connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.redis.Close()
}

// SetBytes stores a binary value with no expiry.
func (c *Client) SetBytes(ctx context.Context, key string, value []byte) error {
	if err := c.redis.Set(ctx, key, value, 0).Err(); err != nil {
		c.logger.Error("redis SET failed", "key", key, "error", err)
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	c.logger.Debug("redis SET", "key", key, "size", len(value))
	return nil
}

// GetBytes retrieves a binary value. The second return is false when the key
// does not exist.
func (c *Client) GetBytes(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		c.logger.Debug("redis GET key not found", "key", key)
		return nil, false, nil
	}
	if err != nil {
		c.logger.Error("redis GET failed", "key", key, "error", err)
		return nil, false, fmt.Errorf("failed to get key %s: %w", key, err)
	}
	c.logger.Debug("redis GET", "key", key, "size", len(val))
	return val, true, nil
}

// Exists reports whether key is present.
func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.redis.Exists(ctx, key).Result()
	if err != nil {
		c.logger.Error("redis EXISTS failed", "key", key, "error", err)
		return false, fmt.Errorf("failed to check key %s: %w", key, err)
	}
	return n > 0, nil
}

// HSetMap stores a hash from a field map.
func (c *Client) HSetMap(ctx context.Context, key string, fields map[string]interface{}) error {
	if err := c.redis.HSet(ctx, key, fields).Err(); err != nil {
		c.logger.Error("redis HSET failed", "key", key, "error", err)
		return fmt.Errorf("failed to hset key %s: %w", key, err)
	}
	c.logger.Debug("redis HSET", "key", key, "fields", len(fields))
	return nil
}

// HGetAllMap retrieves every field of a hash. An empty map means the key does
// not exist.
func (c *Client) HGetAllMap(ctx context.Context, key string) (map[string]string, error) {
	fields, err := c.redis.HGetAll(ctx, key).Result()
	if err != nil {
		c.logger.Error("redis HGETALL failed", "key", key, "error", err)
		return nil, fmt.Errorf("failed to hgetall key %s: %w", key, err)
	}
	return fields, nil
}

// ScanKeys collects every key matching pattern using cursor iteration (never
// KEYS, which blocks the server).
func (c *Client) ScanKeys(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	var cursor uint64

	for {
		batch, next, err := c.redis.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			c.logger.Error("redis SCAN failed", "pattern", pattern, "error", err)
			return nil, fmt.Errorf("failed to scan pattern %s: %w", pattern, err)
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			break
		}
	}

	c.logger.Debug("redis SCAN", "pattern", pattern, "found", len(keys))
	return keys, nil
}

// Delete removes keys and returns how many existed.
func (c *Client) Delete(ctx context.Context, keys ...string) (int64, error) {
	n, err := c.redis.Del(ctx, keys...).Result()
	if err != nil {
		c.logger.Error("redis DEL failed", "keys", keys, "error", err)
		return 0, fmt.Errorf("failed to delete keys: %w", err)
	}
	c.logger.Debug("redis DEL", "keys", keys, "removed", n)
	return n, nil
}
