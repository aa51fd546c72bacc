// Package config loads courier client configuration from layered sources:
// built-in defaults, an optional YAML file and COURIER_-prefixed environment
// variables. The merged result is validated before use.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	envprovider "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix namespaces the environment variables consulted during Load.
// Double underscores separate key levels so single underscores survive inside
// key names: COURIER_CLIENT__TIMEOUT=10s maps to client.timeout and
// COURIER_REAUTH__MAX_ATTEMPTS=5 to reauth.max_attempts.
const EnvPrefix = "COURIER_"

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load builds the configuration with priority:
// 1. Environment variables (highest)
// 2. The YAML file at path, when path is non-empty; a missing file is ignored
// 3. Default values (lowest)
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to load %s: %w", path, err)
			}
		}
	}

	if err := k.Load(envprovider.Provider(".", envprovider.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.TrimPrefix(key, EnvPrefix)
			return strings.ReplaceAll(strings.ToLower(key), "__", "."), value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	return unmarshal(k)
}

// LoadBytes builds the configuration from in-memory YAML layered over the
// defaults. Environment variables are not consulted.
func LoadBytes(data []byte) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := k.Load(rawbytes.Provider(data), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	return unmarshal(k)
}

func unmarshal(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks the configuration's declared constraints.
func Validate(cfg *Config) error {
	return validate.Struct(cfg)
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"log.level":  "info",
		"log.pretty": false,

		"client.timeout":               "30s",
		"client.log_payloads":          false,
		"client.max_payload_log_bytes": 1024,
		"client.trace_id_header":       "X-Request-ID",
		"client.enable_w3c_trace":      false,

		"reauth.max_attempts": 3,
		"reauth.retry_delay":  "4s",

		"cache.backend":     "none",
		"cache.default_ttl": "5m",

		"cache.redis.port":      6379,
		"cache.redis.database":  0,
		"cache.redis.pool_size": 10,
	}

	return k.Load(confmap.Provider(defaults, "."), nil)
}
