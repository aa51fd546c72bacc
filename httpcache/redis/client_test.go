package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/go-courier/httpcache"
)

// setupTestRedis creates a miniredis server and client for testing.
func setupTestRedis(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)

	cfg := &Config{
		Host: mr.Host(),
		Port: mr.Server().Addr().Port,
	}

	client, err := NewClient(cfg)
	require.NoError(t, err)
	require.NotNil(t, client)

	return client, mr
}

func TestNewClient(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		client, _ := setupTestRedis(t)
		defer client.Close()

		assert.NotNil(t, client.client)
		assert.False(t, client.closed.Load())
	})

	t.Run("MissingHost", func(t *testing.T) {
		client, err := NewClient(&Config{})
		assert.Error(t, err)
		assert.Nil(t, client)

		var configErr *httpcache.ConfigError
		assert.True(t, errors.As(err, &configErr))
	})

	t.Run("InvalidDatabase", func(t *testing.T) {
		client, err := NewClient(&Config{Host: "localhost", Database: 42})
		assert.Error(t, err)
		assert.Nil(t, client)
	})

	t.Run("ConnectionFailed", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := &Config{
			Host:        mr.Host(),
			Port:        mr.Server().Addr().Port,
			DialTimeout: 100 * time.Millisecond,
		}
		mr.Close()

		client, err := NewClient(cfg)
		assert.Error(t, err)
		assert.Nil(t, client)

		var connErr *httpcache.ConnectionError
		assert.True(t, errors.As(err, &connErr))
	})
}

func TestClientGetSet(t *testing.T) {
	client, _ := setupTestRedis(t)
	defer client.Close()
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "resp:catalog", []byte(`{"items":[]}`), time.Minute))

	got, err := client.Get(ctx, "resp:catalog")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"items":[]}`), got)
}

func TestClientGetMiss(t *testing.T) {
	client, _ := setupTestRedis(t)
	defer client.Close()

	_, err := client.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, httpcache.ErrNotFound)
}

func TestClientTTLExpiry(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer client.Close()
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "short", []byte("v"), 50*time.Millisecond))

	// miniredis advances expiry via FastForward instead of wall-clock time.
	mr.FastForward(100 * time.Millisecond)

	_, err := client.Get(ctx, "short")
	assert.ErrorIs(t, err, httpcache.ErrNotFound)
}

func TestClientSetNegativeTTL(t *testing.T) {
	client, _ := setupTestRedis(t)
	defer client.Close()

	err := client.Set(context.Background(), "key", []byte("v"), -time.Second)
	assert.ErrorIs(t, err, httpcache.ErrInvalidTTL)
}

func TestClientDelete(t *testing.T) {
	client, _ := setupTestRedis(t)
	defer client.Close()
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "key", []byte("v"), 0))
	require.NoError(t, client.Delete(ctx, "key"))
	require.NoError(t, client.Delete(ctx, "key"))

	_, err := client.Get(ctx, "key")
	assert.ErrorIs(t, err, httpcache.ErrNotFound)
}

func TestClientHealth(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer client.Close()
	ctx := context.Background()

	require.NoError(t, client.Health(ctx))

	mr.SetError("server unavailable")
	err := client.Health(ctx)
	require.Error(t, err)

	var connErr *httpcache.ConnectionError
	assert.True(t, errors.As(err, &connErr))
}

func TestClientClose(t *testing.T) {
	client, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, client.Close())
	assert.ErrorIs(t, client.Close(), httpcache.ErrClosed)

	_, err := client.Get(ctx, "key")
	assert.ErrorIs(t, err, httpcache.ErrClosed)
	assert.ErrorIs(t, client.Set(ctx, "key", nil, 0), httpcache.ErrClosed)
	assert.ErrorIs(t, client.Delete(ctx, "key"), httpcache.ErrClosed)
	assert.ErrorIs(t, client.Health(ctx), httpcache.ErrClosed)
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		c := &Config{Host: "localhost"}
		c.withDefaults()
		return c
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing host", func(c *Config) { c.Host = "" }},
		{"port too high", func(c *Config) { c.Port = 70000 }},
		{"negative database", func(c *Config) { c.Database = -1 }},
		{"database too high", func(c *Config) { c.Database = 16 }},
		{"negative pool size", func(c *Config) { c.PoolSize = -1 }},
		{"negative dial timeout", func(c *Config) { c.DialTimeout = -time.Second }},
		{"read timeout below -1", func(c *Config) { c.ReadTimeout = -2 }},
		{"write timeout below -1", func(c *Config) { c.WriteTimeout = -2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, valid().Validate())
	assert.Equal(t, "localhost:6379", valid().Address())
}
