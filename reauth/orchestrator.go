package reauth

import (
	"context"

	"github.com/gaborage/go-courier/endpoint"
	"github.com/gaborage/go-courier/httpclient"
	"github.com/gaborage/go-courier/logger"
)

// Orchestrator decorates a client with the full retry protocol: execute,
// classify, refresh once, re-issue once. Total depth for one call is one
// original attempt, at most MaxAttempts refresh attempts and one retried
// attempt; it never recurses further.
type Orchestrator struct {
	client httpclient.Client
	log    logger.Logger
}

var _ httpclient.Client = (*Orchestrator)(nil)

// NewOrchestrator wraps client with re-authentication handling.
func NewOrchestrator(client httpclient.Client, log logger.Logger) *Orchestrator {
	return &Orchestrator{client: client, log: log}
}

// Execute runs the descriptor through the inner client. On a 403 from an
// endpoint with a refresh configuration it runs one bounded refresh sequence
// and, on success, re-issues the original request exactly once with the fresh
// bearer token. The second outcome is returned verbatim, even when it is
// another 403.
//
// Each failing call runs its own refresh sequence; refresher instances are
// never cached across calls, so concurrent 403s refresh independently.
func (o *Orchestrator) Execute(ctx context.Context, desc *endpoint.Descriptor) (*httpclient.Response, error) {
	resp, err := o.client.Execute(ctx, desc)
	if err == nil || !IsRetryableAuthFailure(err, desc) {
		return resp, err
	}

	o.log.Info().
		Str("method", desc.EffectiveMethod()).
		Str("host", desc.Host).
		Msg("authorization expired, re-authenticating")

	refresher, newErr := NewTokenRefresher(o.client, desc.Reauth, o.log)
	if newErr != nil {
		return nil, newErr
	}

	if refreshErr := refresher.Reauthenticate(ctx); refreshErr != nil {
		// The refresh failure replaces the original 403; its detail is
		// deliberately discarded.
		return nil, refreshErr
	}

	retry := desc
	if cred := refresher.Credential(); cred != nil && cred.Token != "" {
		retry = desc.WithHeader("Authorization", "Bearer "+cred.Token)
	}
	return o.client.Execute(ctx, retry)
}
