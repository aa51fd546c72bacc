package httpclient

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	nethttp "net/http"
	"sync/atomic"
	"time"

	"github.com/gaborage/go-courier/endpoint"
	"github.com/gaborage/go-courier/logger"
	couriertrace "github.com/gaborage/go-courier/trace"
)

const (
	// DefaultTimeout is the default request timeout duration.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxPayloadLogBytes caps payload previews in debug logs.
	DefaultMaxPayloadLogBytes = 1024
)

// client implements the Client interface over net/http.
type client struct {
	httpClient *nethttp.Client
	logger     logger.Logger
	config     *Config
	callCount  atomic.Int64
}

// NewClient creates a client with default configuration.
func NewClient(log logger.Logger) Client {
	return NewBuilder(log).Build()
}

// Execute builds a wire request from the descriptor, sends it and returns the
// raw response. Status codes outside [200,299] yield a status error alongside
// the response; 403 receives no special treatment at this layer.
func (c *client) Execute(ctx context.Context, desc *endpoint.Descriptor) (*Response, error) {
	if desc == nil {
		return nil, NewRequestError("descriptor cannot be nil", nil)
	}

	urlStr, err := desc.URL()
	if err != nil {
		return nil, NewBadURLError("endpoint has no resolvable URL", err)
	}

	body, err := desc.RequestBody()
	if err != nil {
		return nil, NewEncodingError("failed to encode request body", err)
	}

	httpReq, err := c.buildRequest(ctx, desc.EffectiveMethod(), urlStr, body, desc.HeaderMap())
	if err != nil {
		return nil, err
	}

	requestID := httpReq.Header.Get(c.traceIDHeader())
	c.logRequest(httpReq, body, requestID)

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if c.isTimeout(err) {
			return nil, NewTimeoutError("request timed out", c.config.Timeout)
		}
		return nil, NewTransportError("request execution failed", err)
	}
	if httpResp == nil {
		return nil, NewInvalidResponseError("transport returned no response", nil)
	}

	resp, err := c.buildResponse(ctx, start, httpReq, httpResp)
	if err != nil {
		return nil, err
	}

	c.logResponse(resp, requestID)

	if IsSuccessStatus(resp.StatusCode) {
		return resp, nil
	}
	return resp, NewStatusError(resp.StatusCode, resp.Body)
}

// buildRequest constructs the *http.Request, applies headers, auth, trace
// propagation and request interceptors.
func (c *client) buildRequest(ctx context.Context, method, urlStr string, body []byte, headers map[string]string) (*nethttp.Request, error) {
	var reader io.Reader = nethttp.NoBody
	if body != nil {
		reader = bytes.NewReader(body)
	}

	httpReq, err := nethttp.NewRequestWithContext(ctx, method, urlStr, reader)
	if err != nil {
		return nil, NewRequestError("failed to create HTTP request", err)
	}

	for key, value := range c.config.DefaultHeaders {
		httpReq.Header.Set(key, value)
	}
	for key, value := range headers {
		httpReq.Header.Set(key, value)
	}
	if httpReq.Header.Get("Content-Type") == "" && body != nil {
		httpReq.Header.Set("Content-Type", string(endpoint.ContentTypeJSON))
	}

	if c.config.BasicAuth != nil {
		httpReq.SetBasicAuth(c.config.BasicAuth.Username, c.config.BasicAuth.Password)
	}

	c.applyTraceHeaders(ctx, httpReq)

	for _, interceptor := range c.config.RequestInterceptors {
		if err := interceptor(ctx, httpReq); err != nil {
			return nil, NewInterceptorError("request interceptor failed", "request", err)
		}
	}
	return httpReq, nil
}

// applyTraceHeaders stamps the request-ID header and, when enabled, the W3C
// traceparent header. Existing header values are preserved.
func (c *client) applyTraceHeaders(ctx context.Context, httpReq *nethttp.Request) {
	header := c.traceIDHeader()
	if httpReq.Header.Get(header) == "" {
		httpReq.Header.Set(header, couriertrace.EnsureRequestID(ctx))
	}

	if c.config.EnableW3CTrace && httpReq.Header.Get(HeaderTraceParent) == "" {
		if tp, ok := couriertrace.TraceParentFromContext(ctx); ok {
			httpReq.Header.Set(HeaderTraceParent, tp)
		} else {
			httpReq.Header.Set(HeaderTraceParent, couriertrace.GenerateTraceParent())
		}
	}
}

// buildResponse runs response interceptors, drains the body and assembles the
// Response value.
func (c *client) buildResponse(ctx context.Context, start time.Time, httpReq *nethttp.Request, httpResp *nethttp.Response) (*Response, error) {
	defer httpResp.Body.Close()

	for _, interceptor := range c.config.ResponseInterceptors {
		if err := interceptor(ctx, httpReq, httpResp); err != nil {
			return nil, NewInterceptorError("response interceptor failed", "response", err)
		}
	}

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, NewInvalidResponseError("failed to read response body", err)
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Body:       respBody,
		Headers:    httpResp.Header,
		Stats: Stats{
			ElapsedTime: time.Since(start),
			CallCount:   c.callCount.Add(1),
		},
	}, nil
}

func (c *client) traceIDHeader() string {
	if c.config.TraceIDHeader != "" {
		return c.config.TraceIDHeader
	}
	return HeaderXRequestID
}

func (c *client) isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
