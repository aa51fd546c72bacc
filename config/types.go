package config

import (
	"time"
)

// Config is the root configuration for a courier client. Values are loaded
// from defaults, an optional YAML file and COURIER_-prefixed environment
// variables, in that order of precedence.
type Config struct {
	Log    LogConfig    `koanf:"log"`
	Client ClientConfig `koanf:"client"`
	Reauth ReauthConfig `koanf:"reauth"`
	Cache  CacheConfig  `koanf:"cache"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`
	Pretty bool   `koanf:"pretty"`
}

// ClientConfig controls the request executor.
type ClientConfig struct {
	Timeout time.Duration `koanf:"timeout" validate:"min=0"`

	// LogPayloads enables debug logging of request and response bodies.
	LogPayloads        bool `koanf:"log_payloads"`
	MaxPayloadLogBytes int  `koanf:"max_payload_log_bytes" validate:"min=0"`

	TraceIDHeader  string `koanf:"trace_id_header"`
	EnableW3CTrace bool   `koanf:"enable_w3c_trace"`
}

// ReauthConfig supplies the default bounds for token-refresh sequences.
type ReauthConfig struct {
	MaxAttempts int           `koanf:"max_attempts" validate:"required,min=1"`
	RetryDelay  time.Duration `koanf:"retry_delay" validate:"min=0"`
}

// CacheConfig selects and tunes the response cache backend.
type CacheConfig struct {
	// Backend picks the storage implementation.
	Backend    string        `koanf:"backend" validate:"oneof=none memory redis"`
	DefaultTTL time.Duration `koanf:"default_ttl" validate:"min=0"`
	Redis      RedisConfig   `koanf:"redis"`
}

// RedisConfig carries connection settings for the Redis cache backend. It is
// only consulted when Backend is "redis".
type RedisConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port" validate:"min=0,max=65535"`
	Password string `koanf:"password"`
	Database int    `koanf:"database" validate:"min=0,max=15"`
	PoolSize int    `koanf:"pool_size" validate:"min=0"`
}
