// Package httpclient executes endpoint descriptors over net/http: it builds
// the wire request, classifies failures into a closed error taxonomy and logs
// every exchange. Re-authentication on 403 is layered on top by the reauth
// package.
package httpclient

import (
	"context"
	nethttp "net/http"
	"time"

	"github.com/gaborage/go-courier/endpoint"
	couriertrace "github.com/gaborage/go-courier/trace"
)

const (
	// HeaderXRequestID is the standard header name for request tracing.
	HeaderXRequestID = couriertrace.HeaderXRequestID
	// HeaderTraceParent is the W3C trace context header name.
	HeaderTraceParent = couriertrace.HeaderTraceParent
)

// Client executes endpoint descriptors. Implementations must be safe for
// concurrent use; decorators (re-authentication, caching) wrap this interface.
type Client interface {
	Execute(ctx context.Context, desc *endpoint.Descriptor) (*Response, error)
}

// Response is the raw outcome of an executed request.
type Response struct {
	StatusCode int
	Body       []byte
	Headers    nethttp.Header
	Stats      Stats
}

// Stats contains request execution statistics.
type Stats struct {
	ElapsedTime time.Duration
	CallCount   int64
}

// BasicAuth contains basic authentication credentials.
type BasicAuth struct {
	Username string
	Password string
}

// RequestInterceptor is called before sending the request.
type RequestInterceptor func(ctx context.Context, req *nethttp.Request) error

// ResponseInterceptor is called after receiving the response.
type ResponseInterceptor func(ctx context.Context, req *nethttp.Request, resp *nethttp.Response) error

// Config holds the client configuration.
type Config struct {
	Timeout              time.Duration
	RequestInterceptors  []RequestInterceptor
	ResponseInterceptors []ResponseInterceptor
	BasicAuth            *BasicAuth
	DefaultHeaders       map[string]string
	// LogPayloads enables debug-level logging of headers and body payloads.
	LogPayloads bool
	// MaxPayloadLogBytes caps the number of body bytes logged when
	// LogPayloads is enabled (default 1024).
	MaxPayloadLogBytes int
	// TraceIDHeader is the header used for request-ID propagation
	// (default X-Request-ID).
	TraceIDHeader string
	// EnableW3CTrace enables traceparent propagation and generation.
	EnableW3CTrace bool
}

// WithRequestID adds a request ID to the context for outbound propagation.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return couriertrace.WithRequestID(ctx, requestID)
}

// RequestIDFromContext returns a request ID from context if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	return couriertrace.RequestIDFromContext(ctx)
}

// EnsureRequestID returns an existing request ID from context or generates
// a new one.
func EnsureRequestID(ctx context.Context) string {
	return couriertrace.EnsureRequestID(ctx)
}

// NewRequestIDInterceptor creates a request interceptor that stamps the
// X-Request-ID header when it is missing.
func NewRequestIDInterceptor() RequestInterceptor {
	return NewRequestIDInterceptorFor(HeaderXRequestID)
}

// NewRequestIDInterceptorFor creates an interceptor that uses a custom header
// name, preserving any value already present on the request.
func NewRequestIDInterceptorFor(header string) RequestInterceptor {
	if header == "" {
		header = HeaderXRequestID
	}
	return func(ctx context.Context, req *nethttp.Request) error {
		if req.Header.Get(header) == "" {
			req.Header.Set(header, EnsureRequestID(ctx))
		}
		return nil
	}
}
