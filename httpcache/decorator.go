package httpcache

import (
	"context"
	"encoding/json"
	"maps"
	nethttp "net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/gaborage/go-courier/endpoint"
	"github.com/gaborage/go-courier/httpclient"
	"github.com/gaborage/go-courier/logger"
)

// DefaultTTL is applied to cached responses when the descriptor does not set
// its own CacheTTL.
const DefaultTTL = 5 * time.Minute

// cachedResponse is the storage envelope for a response.
type cachedResponse struct {
	StatusCode int            `json:"status_code"`
	Headers    nethttp.Header `json:"headers,omitempty"`
	Body       []byte         `json:"body,omitempty"`
}

// CachingClient decorates a client with response caching driven by each
// descriptor's CachePolicy. Only successful GET responses are stored;
// concurrent identical fetches are collapsed into one network call.
//
// Cache failures never fail a request: a broken store degrades the client to
// pass-through with a warning.
type CachingClient struct {
	inner      httpclient.Client
	store      Cache
	log        logger.Logger
	defaultTTL time.Duration
	group      singleflight.Group
}

var _ httpclient.Client = (*CachingClient)(nil)

// NewCachingClient wraps inner with response caching backed by store.
func NewCachingClient(inner httpclient.Client, store Cache, log logger.Logger) *CachingClient {
	return &CachingClient{
		inner:      inner,
		store:      store,
		log:        log,
		defaultTTL: DefaultTTL,
	}
}

// WithDefaultTTL overrides the TTL used when a descriptor sets none.
func (c *CachingClient) WithDefaultTTL(ttl time.Duration) *CachingClient {
	if ttl > 0 {
		c.defaultTTL = ttl
	}
	return c
}

// Execute serves cacheable requests from the store when the policy allows and
// delegates everything else to the inner client. With CacheUse, concurrent
// misses for the same key share a single inner call; the winning call's
// context governs that fetch.
func (c *CachingClient) Execute(ctx context.Context, desc *endpoint.Descriptor) (*httpclient.Response, error) {
	if !cacheable(desc) {
		return c.inner.Execute(ctx, desc)
	}

	key, err := cacheKey(desc)
	if err != nil {
		// An unresolvable descriptor gets the executor's own error.
		return c.inner.Execute(ctx, desc)
	}

	if desc.CachePolicy == endpoint.CacheUse {
		if resp, ok := c.lookup(ctx, key); ok {
			return resp, nil
		}
		shared, fetchErr, _ := c.group.Do(key, func() (any, error) {
			return c.fetchAndStore(ctx, desc, key)
		})
		if fetchErr != nil {
			return nil, fetchErr
		}
		return copyResponse(shared.(*httpclient.Response)), nil
	}

	// CacheRefresh: always hit the network, then replace the stored entry.
	resp, err := c.fetchAndStore(ctx, desc, key)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// lookup returns a decoded cached response, or false on miss. Undecodable
// entries are evicted and treated as misses.
func (c *CachingClient) lookup(ctx context.Context, key string) (*httpclient.Response, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if err != ErrNotFound {
			c.log.Warn().Err(err).Str("cache_key", key).Msg("response cache read failed")
		}
		return nil, false
	}

	var envelope cachedResponse
	if err := json.Unmarshal(data, &envelope); err != nil {
		c.log.Warn().Err(err).Str("cache_key", key).Msg("evicting undecodable cache entry")
		_ = c.store.Delete(ctx, key)
		return nil, false
	}

	c.log.Debug().Str("cache_key", key).Msg("response cache hit")
	return &httpclient.Response{
		StatusCode: envelope.StatusCode,
		Body:       envelope.Body,
		Headers:    envelope.Headers,
	}, true
}

// fetchAndStore executes the request and stores a successful response.
func (c *CachingClient) fetchAndStore(ctx context.Context, desc *endpoint.Descriptor, key string) (*httpclient.Response, error) {
	resp, err := c.inner.Execute(ctx, desc)
	if err != nil || resp == nil {
		return resp, err
	}

	envelope := cachedResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       resp.Body,
	}
	data, encErr := json.Marshal(&envelope)
	if encErr != nil {
		c.log.Warn().Err(encErr).Str("cache_key", key).Msg("response cache encode failed")
		return resp, nil
	}

	ttl := desc.CacheTTL
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	if setErr := c.store.Set(ctx, key, data, ttl); setErr != nil {
		c.log.Warn().Err(setErr).Str("cache_key", key).Msg("response cache write failed")
	}
	return resp, nil
}

// cacheable reports whether a descriptor's responses may be cached: an
// explicit policy, a GET and a bodiless request.
func cacheable(desc *endpoint.Descriptor) bool {
	if desc == nil || desc.CachePolicy == endpoint.CacheNone {
		return false
	}
	if desc.EffectiveMethod() != nethttp.MethodGet {
		return false
	}
	return desc.Body == nil && len(desc.BodyParams) == 0
}

// cacheKey derives the storage key from the request line.
func cacheKey(desc *endpoint.Descriptor) (string, error) {
	u, err := desc.URL()
	if err != nil {
		return "", err
	}
	return desc.EffectiveMethod() + " " + u, nil
}

// copyResponse clones a response so singleflight sharers cannot observe each
// other's mutations.
func copyResponse(resp *httpclient.Response) *httpclient.Response {
	if resp == nil {
		return nil
	}
	clone := *resp
	if resp.Body != nil {
		clone.Body = make([]byte, len(resp.Body))
		copy(clone.Body, resp.Body)
	}
	if resp.Headers != nil {
		clone.Headers = make(nethttp.Header, len(resp.Headers))
		maps.Copy(clone.Headers, resp.Headers)
	}
	return &clone
}
