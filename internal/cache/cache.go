package cache

import (
	"time"

	"github.com/Borislavv/go-route-cache/config"
	"github.com/Borislavv/go-route-cache/internal/cache/db"
	"github.com/Borislavv/go-route-cache/internal/cache/db/model"
	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"
)

type Cacher interface {
	Get(key string) (value any, ok bool)
	Set(key string, value any, ttl time.Duration) (accepted bool, err error)
	SetDefault(key string, value any) (accepted bool, err error)
	Remember(key string, ttl time.Duration, load func() (any, error)) (any, error)
	Delete(key string) (removed bool)
	InvalidatePattern(substr string) (removed int)
	Stats() Stats
	CacheMetrics() (hits, misses, sets, deletes, evictions, expirations int64)
	EvictedBytes() int64
	Rejected() int64
	Clear()
	Len() int64
	Mem() int64
}

// Cache is the request-facing side of the store: it sizes values before they
// reach the critical section, keeps counters and logs notable outcomes.
type Cache struct {
	cfg      *config.Cache
	db       *db.Store
	logger   *zerolog.Logger
	counters *counters
}

func New(cfg *config.Cache, logger *zerolog.Logger, clk clock.Clock) *Cache {
	return &Cache{
		cfg:      cfg,
		logger:   logger,
		counters: newCounters(),
		db:       db.NewStore(cfg.Store, clk),
	}
}

// Get returns the value for key. Expired entries are removed and reported as a miss.
func (c *Cache) Get(key string) (value any, ok bool) {
	value, res := c.db.Get(key)
	switch res {
	case db.Hit:
		c.counters.hits.Add(1)
		return value, true
	case db.Expired:
		c.counters.expirations.Add(1)
	}
	c.counters.misses.Add(1)
	return nil, false
}

// Set stores value under key for ttl. It returns false when the value is too large to
// be admitted; the caller should then carry on without caching. A non-serializable value
// is a programmer error and is returned as an error without touching the store.
func (c *Cache) Set(key string, value any, ttl time.Duration) (accepted bool, err error) {
	size, err := model.EstimateSize(value)
	if err != nil {
		return false, err
	}

	admitted, evicted, freed := c.db.Set(key, value, size, ttl)
	if !admitted {
		c.counters.rejected.Add(1)
		c.logger.Debug().
			Str("key", key).
			Int64("size", size).
			Int64("max_entry_size", c.db.MaxEntrySize()).
			Msg("entry is too large to be cached")
		return false, nil
	}

	if evicted > 0 {
		c.counters.evictions.Add(evicted)
		c.counters.evictedBytes.Add(freed)
	}
	c.counters.sets.Add(1)
	return true, nil
}

// SetDefault stores value with the configured default TTL.
func (c *Cache) SetDefault(key string, value any) (accepted bool, err error) {
	return c.Set(key, value, c.cfg.Store.DefaultTTL)
}

// Remember returns the cached value for key or computes it with load and caches the result.
// Load errors are returned as is and nothing is cached.
func (c *Cache) Remember(key string, ttl time.Duration, load func() (any, error)) (any, error) {
	if value, ok := c.Get(key); ok {
		return value, nil
	}

	value, err := load()
	if err != nil {
		return nil, err
	}
	if _, err = c.Set(key, value, ttl); err != nil {
		return nil, err
	}
	return value, nil
}

func (c *Cache) Delete(key string) bool {
	if _, ok := c.db.Remove(key); ok {
		c.counters.deletes.Add(1)
		return true
	}
	return false
}

// InvalidatePattern removes every key that contains substr literally (no globbing).
func (c *Cache) InvalidatePattern(substr string) int {
	removed, freed := c.db.RemoveMatching(substr)
	if removed > 0 {
		c.counters.deletes.Add(removed)
		c.logger.Debug().
			Str("pattern", substr).
			Int64("removed", removed).
			Int64("freed_bytes", freed).
			Msg("cache entries invalidated")
	}
	return int(removed)
}

// PurgeExpired removes every expired entry; it is the active half of expiration.
func (c *Cache) PurgeExpired() (purged, freed int64) {
	purged, freed = c.db.PurgeExpired()
	if purged > 0 {
		c.counters.expirations.Add(purged)
	}
	return purged, freed
}

func (c *Cache) Len() int64 { return c.db.Len() }
func (c *Cache) Mem() int64 { return c.db.Mem() }
func (c *Cache) Clear()     { c.db.Clear() }

func (c *Cache) CacheMetrics() (hits, misses, sets, deletes, evictions, expirations int64) {
	return c.counters.snapshot()
}

// EvictedBytes is the total weight removed by evictions made inside Set.
func (c *Cache) EvictedBytes() int64 { return c.counters.evictedBytes.Load() }

// Rejected is the number of Set calls refused by admission.
func (c *Cache) Rejected() int64 { return c.counters.rejected.Load() }

func (c *Cache) SoftEvictUntilWithinLimit() (freed, evicted int64) {
	if c.cfg.Eviction.Enabled() {
		freed, evicted = c.db.EvictUntilWithinLimit(c.cfg.Eviction.SoftMemoryLimitBytes)
	}
	return
}

func (c *Cache) SoftMemoryLimitOvercome() bool {
	return c.cfg.Eviction.Enabled() && c.db.Len() > 0 && c.db.Mem() > c.cfg.Eviction.SoftMemoryLimitBytes
}
