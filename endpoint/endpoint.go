// Package endpoint models immutable descriptions of HTTP endpoints: method,
// URL parts, headers, body and the optional re-authentication configuration
// consumed by the reauth package.
package endpoint

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	nethttp "net/http"
	"net/url"
	"strings"
	"time"
)

// Method is an HTTP request method tag.
type Method string

const (
	MethodGet    Method = nethttp.MethodGet
	MethodPost   Method = nethttp.MethodPost
	MethodPut    Method = nethttp.MethodPut
	MethodPatch  Method = nethttp.MethodPatch
	MethodDelete Method = nethttp.MethodDelete
	MethodHead   Method = nethttp.MethodHead
)

// Scheme is a URL scheme tag.
type Scheme string

const (
	SchemeHTTP  Scheme = "http"
	SchemeHTTPS Scheme = "https"
)

// ContentType is a request content-type tag carrying its header value.
type ContentType string

const (
	ContentTypeJSON        ContentType = "application/json"
	ContentTypeForm        ContentType = "application/x-www-form-urlencoded"
	ContentTypeText        ContentType = "text/plain"
	ContentTypeOctetStream ContentType = "application/octet-stream"
)

// CachePolicy controls how a caching client treats responses for an endpoint.
type CachePolicy int

const (
	// CacheNone bypasses the response cache entirely (default).
	CacheNone CachePolicy = iota
	// CacheUse reads from the cache and stores successful responses.
	CacheUse
	// CacheRefresh skips the cache read but stores the fresh response.
	CacheRefresh
)

// String returns the policy name for logging.
func (p CachePolicy) String() string {
	switch p {
	case CacheUse:
		return "use"
	case CacheRefresh:
		return "refresh"
	default:
		return "none"
	}
}

// ErrMissingHost is returned when a descriptor cannot produce a URL.
var ErrMissingHost = errors.New("endpoint: missing host")

// Descriptor is an immutable description of an HTTP request target and
// payload. Construct it once and share it freely across goroutines; use
// WithHeader to derive variants instead of mutating fields.
type Descriptor struct {
	Method      Method
	Scheme      Scheme
	Host        string
	Path        string
	Query       map[string]string
	Headers     map[string]string
	ContentType ContentType
	// Body is the raw request body. When set it takes precedence over
	// BodyParams.
	Body []byte
	// BodyParams is JSON-serialized into the request body when Body is nil.
	BodyParams  map[string]any
	CachePolicy CachePolicy
	// CacheTTL bounds how long a cached response stays valid. Zero means the
	// caching client's default TTL.
	CacheTTL time.Duration
	// Reauth, when non-nil, marks the endpoint as re-authenticable on 403.
	Reauth *RefreshConfig
}

// EffectiveMethod returns the descriptor's method, defaulting to GET.
func (d *Descriptor) EffectiveMethod() string {
	if d.Method == "" {
		return nethttp.MethodGet
	}
	return string(d.Method)
}

// URL resolves the descriptor into an absolute URL string. The scheme
// defaults to https. Returns ErrMissingHost when no host is configured.
func (d *Descriptor) URL() (string, error) {
	if d.Host == "" {
		return "", ErrMissingHost
	}

	scheme := d.Scheme
	if scheme == "" {
		scheme = SchemeHTTPS
	}

	path := d.Path
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	u := url.URL{
		Scheme: string(scheme),
		Host:   d.Host,
		Path:   path,
	}

	if len(d.Query) > 0 {
		q := url.Values{}
		for k, v := range d.Query {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}

// RequestBody assembles the wire body. A raw Body overrides BodyParams, which
// are JSON-encoded when present.
func (d *Descriptor) RequestBody() ([]byte, error) {
	if d.Body != nil {
		return d.Body, nil
	}
	if len(d.BodyParams) == 0 {
		return nil, nil
	}
	encoded, err := json.Marshal(d.BodyParams)
	if err != nil {
		return nil, fmt.Errorf("endpoint: encode body params: %w", err)
	}
	return encoded, nil
}

// HeaderMap returns the headers to send, merging the content type into a
// fresh map so callers can extend it without touching the descriptor.
func (d *Descriptor) HeaderMap() map[string]string {
	headers := make(map[string]string, len(d.Headers)+1)
	maps.Copy(headers, d.Headers)
	if d.ContentType != "" {
		if _, ok := headers["Content-Type"]; !ok {
			headers["Content-Type"] = string(d.ContentType)
		}
	}
	return headers
}

// WithHeader derives a copy of the descriptor with one header replaced,
// leaving the receiver untouched.
func (d *Descriptor) WithHeader(key, value string) *Descriptor {
	clone := *d
	clone.Headers = make(map[string]string, len(d.Headers)+1)
	maps.Copy(clone.Headers, d.Headers)
	clone.Headers[key] = value
	return &clone
}

// RequiresReauth reports whether the endpoint declares a refresh
// configuration.
func (d *Descriptor) RequiresReauth() bool {
	return d.Reauth != nil
}
