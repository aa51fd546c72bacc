package redis

import (
	"fmt"
	"time"

	"github.com/gaborage/go-courier/httpcache"
)

// Config holds Redis-specific configuration options.
type Config struct {
	// Host is the Redis server hostname or IP address.
	Host string `koanf:"host"`

	// Port is the Redis server port (default: 6379).
	Port int `koanf:"port"`

	// Password for Redis authentication (optional).
	Password string `koanf:"password"`

	// Database number to use (default: 0). Redis supports 0-15 by default.
	Database int `koanf:"database"`

	// PoolSize is the maximum number of socket connections (default: 10).
	PoolSize int `koanf:"pool_size"`

	// DialTimeout is the timeout for establishing new connections (default: 5s).
	DialTimeout time.Duration `koanf:"dial_timeout"`

	// ReadTimeout is the timeout for socket reads (default: 3s). -1 disables it.
	ReadTimeout time.Duration `koanf:"read_timeout"`

	// WriteTimeout is the timeout for socket writes (default: 3s). -1 disables it.
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

// withDefaults fills unset fields with production defaults.
func (c *Config) withDefaults() {
	if c.Port == 0 {
		c.Port = 6379
	}
	if c.PoolSize == 0 {
		c.PoolSize = 10
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = 5 * time.Second
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 3 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 3 * time.Second
	}
}

// Validate performs fail-fast validation of the Redis configuration.
func (c *Config) Validate() error {
	if c.Host == "" {
		return httpcache.NewConfigError("redis.host", "host is required", nil)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return httpcache.NewConfigError("redis.port", fmt.Sprintf("invalid port: %d", c.Port), nil)
	}
	if c.Database < 0 || c.Database > 15 {
		return httpcache.NewConfigError("redis.database", fmt.Sprintf("invalid database number: %d (must be 0-15)", c.Database), nil)
	}
	if c.PoolSize <= 0 {
		return httpcache.NewConfigError("redis.pool_size", fmt.Sprintf("invalid pool size: %d (must be > 0)", c.PoolSize), nil)
	}
	if c.DialTimeout < 0 {
		return httpcache.NewConfigError("redis.dial_timeout", "dial timeout cannot be negative", nil)
	}
	if c.ReadTimeout < -1 {
		return httpcache.NewConfigError("redis.read_timeout", "read timeout cannot be less than -1", nil)
	}
	if c.WriteTimeout < -1 {
		return httpcache.NewConfigError("redis.write_timeout", "write timeout cannot be less than -1", nil)
	}
	return nil
}

// Address returns the Redis server address in "host:port" format.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
