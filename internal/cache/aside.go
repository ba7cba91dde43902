package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"reflect"
	"time"

	"inkwell/internal/middleware"
	"inkwell/internal/observability"
)

// DefaultTTL is the lifetime of every cache entry unless configured otherwise.
const DefaultTTL = 20 * time.Second

// Aside wires a Store to the read-through and invalidation protocol. A nil
// *Aside is valid and behaves as a cache that always misses.
type Aside struct {
	store Store
	ttl   time.Duration
	log   *slog.Logger
}

// NewAside returns an Aside over store with a fixed entry TTL.
func NewAside(store Store, ttl time.Duration) *Aside {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Aside{store: store, ttl: ttl, log: middleware.Logger}
}

// Store returns the backing store.
func (a *Aside) Store() Store {
	if a == nil {
		return nil
	}
	return a.store
}

func (a *Aside) TTL() time.Duration {
	if a == nil {
		return DefaultTTL
	}
	return a.ttl
}

// ReadThrough returns the cached value under key, or calls load on a miss.
// Backend failures and undecodable entries count as misses. An empty loader
// result (nil pointer, slice or map) fails with missing and is not cached.
// Storing the loaded value is best-effort.
func ReadThrough[T any](ctx context.Context, a *Aside, key string, missing error, load func(context.Context) (T, error)) (T, error) {
	var zero T

	if a != nil && a.store != nil {
		spanCtx, span := observability.StartCacheSpan(ctx, "read_through", key)
		defer span.End()
		ctx = spanCtx

		raw, err := a.store.Get(ctx, key)
		switch {
		case err == nil:
			var v T
			decErr := json.Unmarshal(raw, &v)
			if decErr == nil {
				observability.CacheHits.Inc()
				return v, nil
			}
			a.log.WarnContext(ctx, "discarding undecodable cache entry",
				slog.String("key", key), slog.String("error", decErr.Error()))
		case errors.Is(err, ErrMiss):
		default:
			observability.CacheErrors.WithLabelValues("get").Inc()
			observability.RecordError(span, err)
			a.log.WarnContext(ctx, "cache get failed, reading from store",
				slog.String("key", key), slog.String("error", err.Error()))
		}
		observability.CacheMisses.Inc()
	}

	v, err := load(ctx)
	if err != nil {
		return zero, err
	}
	if isEmpty(v) {
		return zero, missing
	}

	if a != nil && a.store != nil {
		raw, err := json.Marshal(v)
		if err == nil {
			err = a.store.SetEx(ctx, key, a.ttl, raw)
		}
		if err != nil {
			observability.CacheErrors.WithLabelValues("set").Inc()
			a.log.WarnContext(ctx, "cache set failed",
				slog.String("key", key), slog.String("error", err.Error()))
		}
	}

	return v, nil
}

// Invalidate removes key if present. A missing key is not an error.
func (a *Aside) Invalidate(ctx context.Context, key string) error {
	if a == nil || a.store == nil {
		return nil
	}
	ok, err := a.store.Exists(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if err := a.store.Del(ctx, key); err != nil {
		return err
	}
	observability.CacheInvalidations.Inc()
	return nil
}

// InvalidateKeys invalidates every key, logging failures instead of
// returning them: a failed invalidation only widens the stale window up to the TTL.
func (a *Aside) InvalidateKeys(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if err := a.Invalidate(ctx, key); err != nil {
			observability.CacheErrors.WithLabelValues("invalidate").Inc()
			a.log.ErrorContext(ctx, "cache invalidation failed",
				slog.String("key", key), slog.String("error", err.Error()))
		}
	}
}

// Ping checks the backing store.
func (a *Aside) Ping(ctx context.Context) error {
	if a == nil || a.store == nil {
		return errors.New("cache: no store configured")
	}
	return a.store.Ping(ctx)
}

func (a *Aside) Close() error {
	if a == nil || a.store == nil {
		return nil
	}
	return a.store.Close()
}

func isEmpty(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Invalid:
		return true
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
