package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis command failures by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// CacheHits counts read-through lookups answered from the cache.
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inkwell_cache_hits_total",
		Help: "Total number of cache hits",
	})

	// CacheMisses counts read-through lookups that fell back to the loader.
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inkwell_cache_misses_total",
		Help: "Total number of cache misses",
	})

	// CacheErrors counts cache backend failures by operation.
	CacheErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_cache_errors_total",
		Help: "Total number of cache backend errors by operation",
	}, []string{"op"})

	// CacheInvalidations counts keys actually removed on mutation.
	CacheInvalidations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inkwell_cache_invalidations_total",
		Help: "Total number of cache keys invalidated",
	})

	// AuthEvents counts authentication outcomes by operation and result.
	AuthEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_auth_events_total",
		Help: "Authentication events by operation and result",
	}, []string{"op", "result"})
)
