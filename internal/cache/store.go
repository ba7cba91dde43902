// Package cache implements the cache-aside layer: a small key-value Store
// abstraction with Redis and in-process backends, the Aside read-through and
// invalidation helpers, and the key inventory shared by the services.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Store.Get when the key is absent or expired.
var ErrMiss = errors.New("cache: key not found")

// Store is the minimal command set the cache-aside protocol needs.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetEx(ctx context.Context, key string, ttl time.Duration, value []byte) error
	Exists(ctx context.Context, key string) (bool, error)
	Del(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
	Close() error
}
