// Package routecache is an in-process, memory-bounded cache for a web backend: an LRU
// key/value store with TTLs and hit statistics, background expiry sweeps and warm-up,
// and an HTTP caching policy (Cache-Control, ETag, 304 revalidation) keyed by route.
package routecache

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/Borislavv/go-route-cache/config"
	"github.com/Borislavv/go-route-cache/internal/cache"
	"github.com/Borislavv/go-route-cache/internal/evictor"
	"github.com/Borislavv/go-route-cache/internal/maintenance"
	"github.com/Borislavv/go-route-cache/internal/policy"
	"github.com/Borislavv/go-route-cache/internal/telemetry"
	"github.com/benbjohnson/clock"
	"github.com/rcrowley/go-metrics"
	"github.com/rs/zerolog"
)

type (
	Producer    = maintenance.Producer
	Stats       = cache.Stats
	MemoryUsage = cache.MemoryUsage
	RoutePolicy = policy.RoutePolicy
)

var ErrProducerPanicked = maintenance.ErrProducerPanicked

type Option func(*options)

type options struct {
	clock clock.Clock
}

// WithClock replaces the wall clock for every component, mostly for tests.
func WithClock(clk clock.Clock) Option {
	return func(o *options) { o.clock = clk }
}

type Cache struct {
	cache.Cacher
	store       *cache.Cache
	resolver    *policy.Resolver
	evictor     evictor.Evictor
	maintenance maintenance.Maintainer
	telemetry   telemetry.Logger
	registry    metrics.Registry
	cancel      context.CancelFunc
	closeOnce   sync.Once
}

// New builds the cache and starts whichever background components cfg enables.
// A nil cfg means config.Default(). Otherwise zero fields of cfg are filled with their
// defaults in place and the result is validated before anything is started.
// Call Close to stop the background components.
func New(ctx context.Context, cfg *config.Cache, logger *zerolog.Logger, opts ...Option) (*Cache, error) {
	o := &options{clock: clock.New()}
	for _, opt := range opts {
		opt(o)
	}
	if cfg == nil {
		cfg = config.Default()
	} else {
		cfg.AdjustConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	ctx, cancel := context.WithCancel(ctx)
	store := cache.New(cfg, logger, o.clock)
	eviction := evictor.New(ctx, cfg.Eviction, logger, store, o.clock)
	upkeep := maintenance.New(ctx, cfg.Maintenance, logger, store, o.clock)
	telemeter := telemetry.New(ctx, cfg, logger, o.clock, store, eviction, upkeep)

	return &Cache{
		Cacher:      store,
		store:       store,
		resolver:    policy.NewResolver(policy.RoutesFromConfig(cfg.Routes), o.clock),
		evictor:     eviction,
		maintenance: upkeep,
		telemetry:   telemeter,
		registry:    telemetry.NewRegistry(store, eviction, upkeep),
		cancel:      cancel,
	}, nil
}

// Register adds a named warm-up producer. It runs on the next warm-up and on every one after.
func (c *Cache) Register(name string, p Producer) {
	c.maintenance.Register(name, p)
}

// Warmup runs every registered producer now.
func (c *Cache) Warmup(ctx context.Context) (succeeded, failed int) {
	return c.maintenance.Warmup(ctx)
}

// Sweep purges expired entries now, regardless of the maintenance config.
func (c *Cache) Sweep() (purged int64) {
	purged, _ = c.store.PurgeExpired()
	return purged
}

func (c *Cache) Resolver() *policy.Resolver {
	return c.resolver
}

// Middleware applies the route caching policy to next.
func (c *Cache) Middleware(next http.Handler) http.Handler {
	return c.resolver.Middleware(next)
}

// BuildHeaders is a shortcut for Resolver().BuildHeaders.
func (c *Cache) BuildHeaders(r *http.Request) http.Header {
	return c.resolver.BuildHeaders(r.URL.Path, r.URL.Query())
}

// Registry exposes the counters as go-metrics gauges.
func (c *Cache) Registry() metrics.Registry {
	return c.registry
}

// ForceEvict asks the soft evictor to bring memory under the soft limit right now.
// It is a no-op when eviction is not configured.
func (c *Cache) ForceEvict(timeout time.Duration) error {
	return c.evictor.ForceCall(timeout)
}

func (c *Cache) EvictorMetrics() (scans, hits, evictedItems, evictedBytes int64) {
	return c.evictor.Metrics()
}

func (c *Cache) MaintenanceMetrics() (sweeps, purged, warmups, warmupFailures int64) {
	return c.maintenance.Metrics()
}

// Close stops background components and waits for them. The cache stays usable afterwards.
func (c *Cache) Close() error {
	c.closeOnce.Do(func() {
		c.cancel()
		_ = c.telemetry.Close()
		_ = c.maintenance.Close()
		_ = c.evictor.Close()
	})
	return nil
}
