// Package cache holds short-lived derived values such as analytics summaries.
package cache

import (
	"context"
	"time"
)

// Cache stores JSON-encodable values under string keys.
type Cache interface {
	// Get decodes the cached value into dest and reports whether it was found.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Noop never stores anything; every Get is a miss.
type Noop struct{}

func (Noop) Get(context.Context, string, interface{}) (bool, error) { return false, nil }

func (Noop) Set(context.Context, string, interface{}, time.Duration) error { return nil }

func (Noop) Delete(context.Context, ...string) error { return nil }
