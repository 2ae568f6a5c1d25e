package telemetry

import (
	"github.com/Borislavv/go-route-cache/internal/cache"
	"github.com/Borislavv/go-route-cache/internal/evictor"
	"github.com/Borislavv/go-route-cache/internal/maintenance"
	"github.com/rcrowley/go-metrics"
)

// NewRegistry exposes the cumulative counters as functional gauges, read on demand.
func NewRegistry(c cache.Cacher, e evictor.Evictor, m maintenance.Maintainer) metrics.Registry {
	r := metrics.NewRegistry()
	s := newSampler(c, e, m)

	gauge := func(name string, read func(snapshot) uint64) {
		metrics.NewRegisteredFunctionalGauge(name, r, func() int64 {
			return int64(read(s.snapshot()))
		})
	}

	gauge("cache.hits", func(s snapshot) uint64 { return s.hits })
	gauge("cache.misses", func(s snapshot) uint64 { return s.misses })
	gauge("cache.sets", func(s snapshot) uint64 { return s.sets })
	gauge("cache.deletes", func(s snapshot) uint64 { return s.deletes })
	gauge("cache.evictions", func(s snapshot) uint64 { return s.evictions })
	gauge("cache.expirations", func(s snapshot) uint64 { return s.expirations })
	gauge("cache.evicted_bytes", func(s snapshot) uint64 { return s.hardBytes })
	gauge("cache.rejected", func(s snapshot) uint64 { return s.rejected })
	gauge("evictor.scans", func(s snapshot) uint64 { return s.softScans })
	gauge("evictor.evicted_items", func(s snapshot) uint64 { return s.softEvictedItems })
	gauge("evictor.evicted_bytes", func(s snapshot) uint64 { return s.softEvictedBytes })
	gauge("maintenance.sweeps", func(s snapshot) uint64 { return s.sweeps })
	gauge("maintenance.purged", func(s snapshot) uint64 { return s.purged })
	gauge("maintenance.warmups", func(s snapshot) uint64 { return s.warmups })
	gauge("maintenance.warmup_failures", func(s snapshot) uint64 { return s.warmupFailures })

	metrics.NewRegisteredFunctionalGauge("storage.entries", r, c.Len)
	metrics.NewRegisteredFunctionalGauge("storage.bytes", r, c.Mem)

	return r
}
