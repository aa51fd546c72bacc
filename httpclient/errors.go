package httpclient

import (
	"errors"
	"fmt"
	nethttp "net/http"
	"time"
)

// ClientError is the closed error taxonomy surfaced to callers.
type ClientError interface {
	error
	Type() ErrorType
}

// ErrorType defines the category of client error.
type ErrorType string

const (
	BadURLError          ErrorType = "bad_url"
	InvalidResponseError ErrorType = "invalid_response"
	RequestError         ErrorType = "request"
	TransportError       ErrorType = "transport"
	TimeoutError         ErrorType = "timeout"
	StatusCodeError      ErrorType = "unexpected_status"
	UnauthorizedError    ErrorType = "unauthorized"
	ForbiddenError       ErrorType = "forbidden"
	NotFoundError        ErrorType = "not_found"
	DataNotFoundError    ErrorType = "data_not_found"
	ServerError          ErrorType = "internal_server_error"
	DecodingError        ErrorType = "decoding"
	EncodingError        ErrorType = "encoding"
	InterceptorError     ErrorType = "interceptor"
	ReauthError          ErrorType = "reauth"
	MaxRetriesError      ErrorType = "max_retries"
	UnknownError         ErrorType = "unknown"
)

// badURLError reports an endpoint that cannot produce a resolvable URL.
type badURLError struct {
	message string
	wrapped error
}

func (e *badURLError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("bad URL: %s: %v", e.message, e.wrapped)
	}
	return fmt.Sprintf("bad URL: %s", e.message)
}

func (e *badURLError) Type() ErrorType { return BadURLError }
func (e *badURLError) Unwrap() error   { return e.wrapped }

// invalidResponseError reports a response that could not be interpreted.
type invalidResponseError struct {
	message string
	wrapped error
}

func (e *invalidResponseError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("invalid response: %s: %v", e.message, e.wrapped)
	}
	return fmt.Sprintf("invalid response: %s", e.message)
}

func (e *invalidResponseError) Type() ErrorType { return InvalidResponseError }
func (e *invalidResponseError) Unwrap() error   { return e.wrapped }

// requestError reports a failure to assemble the wire request.
type requestError struct {
	message string
	wrapped error
}

func (e *requestError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("request error: %s: %v", e.message, e.wrapped)
	}
	return fmt.Sprintf("request error: %s", e.message)
}

func (e *requestError) Type() ErrorType { return RequestError }
func (e *requestError) Unwrap() error   { return e.wrapped }

// transportError reports a connectivity-level failure.
type transportError struct {
	message string
	wrapped error
}

func (e *transportError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("transport error: %s: %v", e.message, e.wrapped)
	}
	return fmt.Sprintf("transport error: %s", e.message)
}

func (e *transportError) Type() ErrorType { return TransportError }
func (e *transportError) Unwrap() error   { return e.wrapped }

// timeoutError reports an exceeded request deadline.
type timeoutError struct {
	message string
	timeout time.Duration
}

func (e *timeoutError) Error() string {
	return fmt.Sprintf("timeout error: %s (timeout: %v)", e.message, e.timeout)
}

func (e *timeoutError) Type() ErrorType { return TimeoutError }

// statusError reports a response status outside the 2xx range. Its Type
// refines well-known codes into dedicated error kinds.
type statusError struct {
	statusCode int
	body       []byte
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status code %d", e.statusCode)
}

func (e *statusError) Type() ErrorType {
	switch e.statusCode {
	case nethttp.StatusUnauthorized:
		return UnauthorizedError
	case nethttp.StatusForbidden:
		return ForbiddenError
	case nethttp.StatusNotFound:
		return NotFoundError
	case nethttp.StatusInternalServerError:
		return ServerError
	default:
		return StatusCodeError
	}
}

func (e *statusError) StatusCode() int { return e.statusCode }
func (e *statusError) Body() []byte    { return e.body }

// dataNotFoundError reports an expected payload that was absent.
type dataNotFoundError struct {
	message string
}

func (e *dataNotFoundError) Error() string {
	return fmt.Sprintf("data not found: %s", e.message)
}

func (e *dataNotFoundError) Type() ErrorType { return DataNotFoundError }

// decodingError reports a payload that could not be decoded.
type decodingError struct {
	message string
	wrapped error
}

func (e *decodingError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("decoding failed: %s: %v", e.message, e.wrapped)
	}
	return fmt.Sprintf("decoding failed: %s", e.message)
}

func (e *decodingError) Type() ErrorType { return DecodingError }
func (e *decodingError) Unwrap() error   { return e.wrapped }

// encodingError reports a body that could not be serialized.
type encodingError struct {
	message string
	wrapped error
}

func (e *encodingError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("encoding failed: %s: %v", e.message, e.wrapped)
	}
	return fmt.Sprintf("encoding failed: %s", e.message)
}

func (e *encodingError) Type() ErrorType { return EncodingError }
func (e *encodingError) Unwrap() error   { return e.wrapped }

// interceptorError reports a request or response interceptor failure.
type interceptorError struct {
	message string
	stage   string
	wrapped error
}

func (e *interceptorError) Error() string {
	return fmt.Sprintf("interceptor error: %s (stage: %s): %v", e.message, e.stage, e.wrapped)
}

func (e *interceptorError) Type() ErrorType { return InterceptorError }
func (e *interceptorError) Unwrap() error   { return e.wrapped }

// reauthError reports a re-authentication setup failure.
type reauthError struct {
	message string
	wrapped error
}

func (e *reauthError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("re-authentication failed: %s: %v", e.message, e.wrapped)
	}
	return fmt.Sprintf("re-authentication failed: %s", e.message)
}

func (e *reauthError) Type() ErrorType { return ReauthError }
func (e *reauthError) Unwrap() error   { return e.wrapped }

// maxRetriesError reports an exhausted refresh sequence. It deliberately
// carries no attempt detail; refresh failures collapse to this single kind.
type maxRetriesError struct {
	attempts int
}

func (e *maxRetriesError) Error() string {
	return fmt.Sprintf("max retries exceeded after %d attempts", e.attempts)
}

func (e *maxRetriesError) Type() ErrorType { return MaxRetriesError }

// NewBadURLError creates a bad-URL error.
func NewBadURLError(message string, wrapped error) ClientError {
	return &badURLError{message: message, wrapped: wrapped}
}

// NewInvalidResponseError creates an invalid-response error.
func NewInvalidResponseError(message string, wrapped error) ClientError {
	return &invalidResponseError{message: message, wrapped: wrapped}
}

// NewRequestError creates a request-assembly error.
func NewRequestError(message string, wrapped error) ClientError {
	return &requestError{message: message, wrapped: wrapped}
}

// NewTransportError creates a transport error.
func NewTransportError(message string, wrapped error) ClientError {
	return &transportError{message: message, wrapped: wrapped}
}

// NewTimeoutError creates a timeout error.
func NewTimeoutError(message string, timeout time.Duration) ClientError {
	return &timeoutError{message: message, timeout: timeout}
}

// NewStatusError creates a status error for a non-2xx response.
func NewStatusError(statusCode int, body []byte) ClientError {
	return &statusError{statusCode: statusCode, body: body}
}

// NewDataNotFoundError creates a missing-payload error.
func NewDataNotFoundError(message string) ClientError {
	return &dataNotFoundError{message: message}
}

// NewDecodingError creates a decoding error.
func NewDecodingError(message string, wrapped error) ClientError {
	return &decodingError{message: message, wrapped: wrapped}
}

// NewEncodingError creates an encoding error.
func NewEncodingError(message string, wrapped error) ClientError {
	return &encodingError{message: message, wrapped: wrapped}
}

// NewInterceptorError creates an interceptor error.
func NewInterceptorError(message, stage string, wrapped error) ClientError {
	return &interceptorError{message: message, stage: stage, wrapped: wrapped}
}

// NewReauthError creates a re-authentication error.
func NewReauthError(message string, wrapped error) ClientError {
	return &reauthError{message: message, wrapped: wrapped}
}

// NewMaxRetriesError creates an exhausted-refresh error.
func NewMaxRetriesError(attempts int) ClientError {
	return &maxRetriesError{attempts: attempts}
}

// IsErrorType checks if an error is of a specific taxonomy type.
func IsErrorType(err error, errorType ErrorType) bool {
	if err == nil {
		return false
	}
	var clientErr ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type() == errorType
	}
	return false
}

// TypeOf returns the taxonomy type of err, or UnknownError for errors from
// outside the taxonomy.
func TypeOf(err error) ErrorType {
	var clientErr ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type()
	}
	return UnknownError
}

// IsHTTPStatusError checks if an error is a status error with the given code.
func IsHTTPStatusError(err error, statusCode int) bool {
	var statusErr *statusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode() == statusCode
	}
	return false
}

// StatusCodeOf extracts the status code from a status error.
func StatusCodeOf(err error) (int, bool) {
	var statusErr *statusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode(), true
	}
	return 0, false
}

// IsSuccessStatus checks if a status code represents success (2xx).
func IsSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
