// Package redis implements the httpcache.Cache interface on top of a Redis
// server, for sharing cached responses across processes.
package redis

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gaborage/go-courier/httpcache"
)

// Client implements the httpcache.Cache interface using Redis as the backend.
type Client struct {
	client *redis.Client
	config *Config
	closed atomic.Bool
}

var _ httpcache.Cache = (*Client)(nil)

// NewClient creates a Redis cache client. The configuration is validated and
// the connection verified with a PING before the client is returned.
func NewClient(cfg *Config) (*Client, error) {
	cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address(),
		Password:     cfg.Password,
		DB:           cfg.Database,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, httpcache.NewConnectionError("ping", cfg.Address(), err)
	}

	return &Client{client: client, config: cfg}, nil
}

// Get retrieves a value from the cache.
// Returns httpcache.ErrNotFound if the key doesn't exist.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if c.closed.Load() {
		return nil, httpcache.ErrClosed
	}

	result, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, httpcache.ErrNotFound
		}
		return nil, httpcache.NewOperationError("get", key, err)
	}
	return result, nil
}

// Set stores a value with the specified TTL. TTL of 0 means no expiration.
// Returns httpcache.ErrInvalidTTL if TTL is negative.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c.closed.Load() {
		return httpcache.ErrClosed
	}
	if ttl < 0 {
		return httpcache.ErrInvalidTTL
	}

	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return httpcache.NewOperationError("set", key, err)
	}
	return nil
}

// Delete removes a key. Absent keys are not an error.
func (c *Client) Delete(ctx context.Context, key string) error {
	if c.closed.Load() {
		return httpcache.ErrClosed
	}

	if err := c.client.Del(ctx, key).Err(); err != nil {
		return httpcache.NewOperationError("delete", key, err)
	}
	return nil
}

// Health verifies connectivity with a PING.
func (c *Client) Health(ctx context.Context) error {
	if c.closed.Load() {
		return httpcache.ErrClosed
	}

	if err := c.client.Ping(ctx).Err(); err != nil {
		return httpcache.NewConnectionError("ping", c.config.Address(), err)
	}
	return nil
}

// Close closes the Redis client. Close is idempotent; subsequent calls return
// httpcache.ErrClosed.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return httpcache.ErrClosed
	}
	return c.client.Close()
}
