package httpclient

import (
	nethttp "net/http"
	"time"

	"github.com/gaborage/go-courier/logger"
)

// Builder provides a fluent interface for configuring the client.
type Builder struct {
	config     *Config
	logger     logger.Logger
	httpClient *nethttp.Client
}

// NewBuilder creates a new client builder with default configuration.
func NewBuilder(log logger.Logger) *Builder {
	return &Builder{
		config: &Config{
			Timeout:              DefaultTimeout,
			RequestInterceptors:  []RequestInterceptor{},
			ResponseInterceptors: []ResponseInterceptor{},
			DefaultHeaders:       make(map[string]string),
			MaxPayloadLogBytes:   DefaultMaxPayloadLogBytes,
		},
		logger: log,
	}
}

// WithTimeout sets the request timeout.
func (b *Builder) WithTimeout(timeout time.Duration) *Builder {
	b.config.Timeout = timeout
	return b
}

// WithBasicAuth sets basic authentication credentials.
func (b *Builder) WithBasicAuth(username, password string) *Builder {
	b.config.BasicAuth = &BasicAuth{Username: username, Password: password}
	return b
}

// WithDefaultHeader adds a header sent with every request.
func (b *Builder) WithDefaultHeader(key, value string) *Builder {
	b.config.DefaultHeaders[key] = value
	return b
}

// WithRequestInterceptor adds a request interceptor.
func (b *Builder) WithRequestInterceptor(interceptor RequestInterceptor) *Builder {
	b.config.RequestInterceptors = append(b.config.RequestInterceptors, interceptor)
	return b
}

// WithResponseInterceptor adds a response interceptor.
func (b *Builder) WithResponseInterceptor(interceptor ResponseInterceptor) *Builder {
	b.config.ResponseInterceptors = append(b.config.ResponseInterceptors, interceptor)
	return b
}

// WithPayloadLogging enables debug-level payload logging, truncating previews
// at maxBytes (0 keeps the default cap).
func (b *Builder) WithPayloadLogging(maxBytes int) *Builder {
	b.config.LogPayloads = true
	if maxBytes > 0 {
		b.config.MaxPayloadLogBytes = maxBytes
	}
	return b
}

// WithTraceIDHeader overrides the header used for request-ID propagation.
func (b *Builder) WithTraceIDHeader(header string) *Builder {
	b.config.TraceIDHeader = header
	return b
}

// WithW3CTrace enables traceparent propagation and generation.
func (b *Builder) WithW3CTrace() *Builder {
	b.config.EnableW3CTrace = true
	return b
}

// WithHTTPClient supplies a custom *http.Client, e.g. with a tuned transport.
// Its timeout is overridden by the builder's timeout setting.
func (b *Builder) WithHTTPClient(hc *nethttp.Client) *Builder {
	b.httpClient = hc
	return b
}

// Build creates the client with the configured options.
func (b *Builder) Build() Client {
	hc := b.httpClient
	if hc == nil {
		hc = &nethttp.Client{}
	}
	hc.Timeout = b.config.Timeout

	return &client{
		httpClient: hc,
		logger:     b.logger,
		config:     b.config,
	}
}
