package reauth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/go-courier/endpoint"
	"github.com/gaborage/go-courier/httpclient"
)

func refreshEndpoint() *endpoint.Descriptor {
	return &endpoint.Descriptor{
		Method: endpoint.MethodPost,
		Host:   "auth.example.com",
		Path:   "/token",
	}
}

// newTestRefresher builds a refresher whose sleeps are recorded instead of
// executed.
func newTestRefresher(t *testing.T, client httpclient.Client, cfg *endpoint.RefreshConfig) (*TokenRefresher, *[]time.Duration) {
	t.Helper()

	refresher, err := NewTokenRefresher(client, cfg, testLogger())
	require.NoError(t, err)

	delays := &[]time.Duration{}
	refresher.sleep = func(_ context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
	return refresher, delays
}

func TestRefresherRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  *endpoint.RefreshConfig
	}{
		{"nil config", nil},
		{"zero attempts", &endpoint.RefreshConfig{Endpoint: refreshEndpoint(), MaxAttempts: 0}},
		{"negative attempts", &endpoint.RefreshConfig{Endpoint: refreshEndpoint(), MaxAttempts: -2}},
		{"negative delay", &endpoint.RefreshConfig{Endpoint: refreshEndpoint(), MaxAttempts: 3, RetryDelay: -time.Second}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			refresher, err := NewTokenRefresher(&stubClient{}, tt.cfg, testLogger())
			require.Error(t, err)
			assert.Nil(t, refresher)
			assert.True(t, httpclient.IsErrorType(err, httpclient.ReauthError))
		})
	}
}

func TestRefresherSucceedsFirstAttempt(t *testing.T) {
	client := &stubClient{script: []stubOutcome{tokenOutcome("fresh-token")}}
	cfg := endpoint.NewRefreshConfig(refreshEndpoint())
	refresher, delays := newTestRefresher(t, client, cfg)

	require.NoError(t, refresher.Reauthenticate(context.Background()))

	assert.Equal(t, 1, client.callCount())
	assert.Empty(t, *delays)

	cred := refresher.Credential()
	require.NotNil(t, cred)
	assert.Equal(t, "fresh-token", cred.Token)
	assert.Equal(t, time.Hour, cred.ExpiresIn)
}

func TestRefresherStopsAtFirstSuccess(t *testing.T) {
	client := &stubClient{script: []stubOutcome{
		statusOutcome(500),
		tokenOutcome("second-try"),
		tokenOutcome("never-requested"),
	}}
	cfg := endpoint.NewRefreshConfig(refreshEndpoint())
	refresher, delays := newTestRefresher(t, client, cfg)

	require.NoError(t, refresher.Reauthenticate(context.Background()))

	assert.Equal(t, 2, client.callCount())
	assert.Equal(t, []time.Duration{cfg.RetryDelay}, *delays)
	require.NotNil(t, refresher.Credential())
	assert.Equal(t, "second-try", refresher.Credential().Token)
}

func TestRefresherExhaustsAttempts(t *testing.T) {
	client := &stubClient{script: []stubOutcome{
		statusOutcome(500),
		transportOutcome(),
		statusOutcome(403),
	}}
	cfg := &endpoint.RefreshConfig{
		Endpoint:    refreshEndpoint(),
		MaxAttempts: 3,
		RetryDelay:  25 * time.Millisecond,
	}
	refresher, delays := newTestRefresher(t, client, cfg)

	err := refresher.Reauthenticate(context.Background())
	require.Error(t, err)
	assert.True(t, httpclient.IsErrorType(err, httpclient.MaxRetriesError))

	// Exactly MaxAttempts requests, each pair separated by the constant delay.
	assert.Equal(t, 3, client.callCount())
	assert.Equal(t, []time.Duration{25 * time.Millisecond, 25 * time.Millisecond}, *delays)
	assert.Nil(t, refresher.Credential())
}

func TestRefresherUndecodableBodyIsFailedAttempt(t *testing.T) {
	client := &stubClient{script: []stubOutcome{
		okOutcome(`{"unexpected":"shape"}`),
		tokenOutcome("eventually"),
	}}
	refresher, _ := newTestRefresher(t, client, endpoint.NewRefreshConfig(refreshEndpoint()))

	require.NoError(t, refresher.Reauthenticate(context.Background()))
	assert.Equal(t, 2, client.callCount())
	assert.Equal(t, "eventually", refresher.Credential().Token)
}

func TestRefresherMissingEndpoint(t *testing.T) {
	client := &stubClient{}
	cfg := &endpoint.RefreshConfig{MaxAttempts: 3}
	refresher, err := NewTokenRefresher(client, cfg, testLogger())
	require.NoError(t, err)

	err = refresher.Reauthenticate(context.Background())
	require.Error(t, err)
	assert.True(t, httpclient.IsErrorType(err, httpclient.BadURLError))
	// Not an attempt; nothing was requested.
	assert.Equal(t, 0, client.callCount())
}

func TestRefresherCancelledBetweenAttempts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	client := &stubClient{script: []stubOutcome{statusOutcome(500)}}
	cfg := &endpoint.RefreshConfig{
		Endpoint:    refreshEndpoint(),
		MaxAttempts: 5,
		RetryDelay:  time.Minute,
	}
	refresher, err := NewTokenRefresher(client, cfg, testLogger())
	require.NoError(t, err)
	refresher.sleep = func(_ context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	}

	err = refresher.Reauthenticate(ctx)
	require.ErrorIs(t, err, context.Canceled)

	// The sequence is abandoned, not exhausted.
	assert.Equal(t, 1, client.callCount())
	assert.Nil(t, refresher.Credential())
}

func TestRefresherCancelledDuringAttempt(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := &stubClient{script: []stubOutcome{transportOutcome()}}
	refresher, _ := newTestRefresher(t, client, endpoint.NewRefreshConfig(refreshEndpoint()))

	err := refresher.Reauthenticate(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, client.callCount())
}

func TestSleepContext(t *testing.T) {
	t.Run("elapses", func(t *testing.T) {
		assert.NoError(t, sleepContext(context.Background(), time.Millisecond))
	})

	t.Run("zero delay", func(t *testing.T) {
		assert.NoError(t, sleepContext(context.Background(), 0))
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, sleepContext(ctx, time.Minute), context.Canceled)
	})
}
