package endpoint

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	// DefaultMaxAttempts is the default number of token-refresh attempts.
	DefaultMaxAttempts = 3
	// DefaultRetryDelay is the default constant delay between refresh
	// attempts. No jitter, no backoff growth.
	DefaultRetryDelay = 4 * time.Second
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// RefreshConfig governs how re-authentication is attempted for an endpoint.
// Immutable once constructed; safe to share read-only across concurrent
// requests.
type RefreshConfig struct {
	// Endpoint identifies where to fetch a new credential. A nil endpoint
	// makes every refresh sequence fail immediately.
	Endpoint *Descriptor `validate:"-"`
	// MaxAttempts bounds the refresh sequence. Must be at least 1.
	MaxAttempts int `validate:"required,min=1"`
	// RetryDelay is the constant pause between failed attempts.
	RetryDelay time.Duration `validate:"min=0"`
}

// NewRefreshConfig creates a refresh configuration with default attempt and
// delay settings for the given refresh endpoint.
func NewRefreshConfig(refreshEndpoint *Descriptor) *RefreshConfig {
	return &RefreshConfig{
		Endpoint:    refreshEndpoint,
		MaxAttempts: DefaultMaxAttempts,
		RetryDelay:  DefaultRetryDelay,
	}
}

// Validate rejects invalid configurations. MaxAttempts of zero is a
// construction-time error, not an immediate exhaustion.
func (c *RefreshConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("endpoint: invalid refresh config: %w", err)
	}
	return nil
}
