// Package httpcache provides response caching for the HTTP client. Storage is
// behind a vendor-agnostic Cache interface with in-memory and Redis
// implementations; the Client decorator consults the descriptor's cache policy
// to decide whether a response may be served from or written to storage.
package httpcache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for common cache operations.
// Use errors.Is() to check for these conditions.
var (
	// ErrNotFound is returned when a cache key doesn't exist or has expired.
	// Callers should treat this as a miss, not a failure.
	ErrNotFound = errors.New("httpcache: key not found")

	// ErrClosed is returned when attempting to use a closed cache.
	ErrClosed = errors.New("httpcache: cache closed")

	// ErrInvalidTTL is returned when a TTL value is negative.
	ErrInvalidTTL = errors.New("httpcache: invalid TTL")
)

// Cache is the storage contract for cached responses.
// All implementations must be thread-safe and context-aware.
type Cache interface {
	// Get retrieves a value by key.
	// Returns ErrNotFound if the key doesn't exist or has expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the specified TTL.
	// A ttl of 0 stores the value without expiration.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Health checks that the backing store is reachable.
	Health(ctx context.Context) error

	// Close releases resources. The cache must not be used afterwards.
	Close() error
}

// ConfigError represents a configuration error during cache initialization.
type ConfigError struct {
	Field   string
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("httpcache configuration error: %s: %s: %v", e.Field, e.Message, e.Err)
	}
	return fmt.Sprintf("httpcache configuration error: %s: %s", e.Field, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new configuration error.
func NewConfigError(field, message string, err error) *ConfigError {
	return &ConfigError{Field: field, Message: message, Err: err}
}

// ConnectionError represents a cache connection error.
// These may be transient and could be retried.
type ConnectionError struct {
	Op      string
	Address string
	Err     error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("httpcache connection error: %s failed for %s: %v", e.Op, e.Address, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// NewConnectionError creates a new connection error.
func NewConnectionError(op, address string, err error) *ConnectionError {
	return &ConnectionError{Op: op, Address: address, Err: err}
}

// OperationError represents a failure during a cache operation.
type OperationError struct {
	Op  string
	Key string
	Err error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("httpcache operation error: %s failed for key %q: %v", e.Op, e.Key, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// NewOperationError creates a new operation error.
func NewOperationError(op, key string, err error) *OperationError {
	return &OperationError{Op: op, Key: key, Err: err}
}
