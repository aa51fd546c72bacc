package reauth

import (
	"context"
	"sync"
	"time"

	"github.com/gaborage/go-courier/endpoint"
	"github.com/gaborage/go-courier/httpclient"
	"github.com/gaborage/go-courier/logger"
)

// TokenRefresher performs a bounded sequence of attempts to obtain a new
// credential from a refresh endpoint, pausing a constant delay between
// attempts. It owns exactly one piece of mutable state, the most recently
// obtained credential, guarded by a mutex so concurrent entry to
// Reauthenticate on the same instance is serialized.
type TokenRefresher struct {
	client httpclient.Client
	cfg    *endpoint.RefreshConfig
	log    logger.Logger

	mu         sync.Mutex
	credential *Credential

	// sleep is swapped out in tests to observe delays.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewTokenRefresher creates a refresher bound to the given configuration.
// An invalid configuration (MaxAttempts < 1, negative delay) is rejected here
// rather than surfacing as an immediate exhaustion.
func NewTokenRefresher(client httpclient.Client, cfg *endpoint.RefreshConfig, log logger.Logger) (*TokenRefresher, error) {
	if cfg == nil {
		return nil, httpclient.NewReauthError("refresh configuration is required", nil)
	}
	if err := cfg.Validate(); err != nil {
		return nil, httpclient.NewReauthError("invalid refresh configuration", err)
	}
	return &TokenRefresher{
		client: client,
		cfg:    cfg,
		log:    log,
		sleep:  sleepContext,
	}, nil
}

// Reauthenticate runs the refresh sequence: up to MaxAttempts requests to the
// refresh endpoint, separated by exactly RetryDelay. It returns nil as soon
// as one attempt yields a decodable token, a bad-URL error when no refresh
// endpoint is configured, a max-retries error once attempts are exhausted, or
// the context error when cancelled mid-sequence. Attempt details never
// surface to the caller.
func (r *TokenRefresher) Reauthenticate(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cfg.Endpoint == nil {
		return httpclient.NewBadURLError("no refresh endpoint configured", nil)
	}

	for attempt := 1; ; attempt++ {
		cred, err := r.attempt(ctx)
		if err == nil {
			r.credential = cred
			r.log.Info().
				Int("attempt", attempt).
				Msg("re-authentication succeeded")
			return nil
		}

		// A cancelled caller abandons the sequence; no partial credential
		// is stored.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		r.log.Warn().
			Err(err).
			Int("attempt", attempt).
			Int("max_attempts", r.cfg.MaxAttempts).
			Msg("re-authentication attempt failed")

		if attempt == r.cfg.MaxAttempts {
			return httpclient.NewMaxRetriesError(r.cfg.MaxAttempts)
		}

		if sleepErr := r.sleep(ctx, r.cfg.RetryDelay); sleepErr != nil {
			return sleepErr
		}
	}
}

// attempt issues one request to the refresh endpoint and decodes the result.
func (r *TokenRefresher) attempt(ctx context.Context) (*Credential, error) {
	resp, err := r.client.Execute(ctx, r.cfg.Endpoint)
	if err != nil {
		return nil, err
	}
	return ParseCredential(resp.Body)
}

// Credential returns the most recently stored credential, or nil when no
// attempt has succeeded yet.
func (r *TokenRefresher) Credential() *Credential {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.credential
}

// sleepContext pauses for d, returning early with the context error when the
// caller is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
