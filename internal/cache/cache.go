// Package cache stores raw API responses for the public sections.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns ErrMiss when the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value; a zero ttl means the cache default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Error is the type of the cache sentinel errors.
type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrMiss   Error = "cache miss"
	ErrClosed Error = "cache closed"
)

// Options selects and configures a backend.
type Options struct {
	RedisURL   string
	Prefix     string
	DefaultTTL time.Duration
}

// New returns a Redis cache when RedisURL is set and reachable, otherwise an in-memory one.
// The returned bool reports whether Redis is in use.
func New(opts Options) (Cache, bool, error) {
	if opts.RedisURL == "" {
		return NewMemory(opts.DefaultTTL), false, nil
	}
	rc, err := NewRedis(opts.RedisURL, opts.Prefix, opts.DefaultTTL)
	if err != nil {
		return NewMemory(opts.DefaultTTL), false, err
	}
	return rc, true, nil
}
