package telemetry

import (
	"github.com/Borislavv/go-route-cache/internal/cache"
	"github.com/Borislavv/go-route-cache/internal/evictor"
	"github.com/Borislavv/go-route-cache/internal/maintenance"
)

type sampler struct {
	cache       cache.Cacher
	evictor     evictor.Evictor
	maintenance maintenance.Maintainer
}

func newSampler(c cache.Cacher, e evictor.Evictor, m maintenance.Maintainer) sampler {
	return sampler{cache: c, evictor: e, maintenance: m}
}

// snapshot holds cumulative counters (monotonic).
type snapshot struct {
	hits        uint64
	misses      uint64
	sets        uint64
	deletes     uint64
	evictions   uint64
	expirations uint64
	hardBytes   uint64
	rejected    uint64

	softScans        uint64
	softHits         uint64
	softEvictedItems uint64
	softEvictedBytes uint64

	sweeps         uint64
	purged         uint64
	warmups        uint64
	warmupFailures uint64
}

func (s sampler) snapshot() snapshot {
	hits, misses, sets, deletes, evictions, expirations := s.cache.CacheMetrics()
	softScans, softHits, softItems, softBytes := s.evictor.Metrics()
	sweeps, purged, warmups, failures := s.maintenance.Metrics()

	return snapshot{
		hits:        uint64(max(hits, 0)),
		misses:      uint64(max(misses, 0)),
		sets:        uint64(max(sets, 0)),
		deletes:     uint64(max(deletes, 0)),
		evictions:   uint64(max(evictions, 0)),
		expirations: uint64(max(expirations, 0)),
		hardBytes:   uint64(max(s.cache.EvictedBytes(), 0)),
		rejected:    uint64(max(s.cache.Rejected(), 0)),

		softScans:        uint64(max(softScans, 0)),
		softHits:         uint64(max(softHits, 0)),
		softEvictedItems: uint64(max(softItems, 0)),
		softEvictedBytes: uint64(max(softBytes, 0)),

		sweeps:         uint64(max(sweeps, 0)),
		purged:         uint64(max(purged, 0)),
		warmups:        uint64(max(warmups, 0)),
		warmupFailures: uint64(max(failures, 0)),
	}
}

// deltaSnapshot converts cumulative snapshots to per-interval deltas.
// If counters reset (cur < prev), it treats cur as the delta.
func deltaSnapshot(prev, cur snapshot) snapshot {
	return snapshot{
		hits:        delta(prev.hits, cur.hits),
		misses:      delta(prev.misses, cur.misses),
		sets:        delta(prev.sets, cur.sets),
		deletes:     delta(prev.deletes, cur.deletes),
		evictions:   delta(prev.evictions, cur.evictions),
		expirations: delta(prev.expirations, cur.expirations),
		hardBytes:   delta(prev.hardBytes, cur.hardBytes),
		rejected:    delta(prev.rejected, cur.rejected),

		softScans:        delta(prev.softScans, cur.softScans),
		softHits:         delta(prev.softHits, cur.softHits),
		softEvictedItems: delta(prev.softEvictedItems, cur.softEvictedItems),
		softEvictedBytes: delta(prev.softEvictedBytes, cur.softEvictedBytes),

		sweeps:         delta(prev.sweeps, cur.sweeps),
		purged:         delta(prev.purged, cur.purged),
		warmups:        delta(prev.warmups, cur.warmups),
		warmupFailures: delta(prev.warmupFailures, cur.warmupFailures),
	}
}

func delta(prev, cur uint64) uint64 {
	if cur >= prev {
		return cur - prev
	}
	return cur
}
