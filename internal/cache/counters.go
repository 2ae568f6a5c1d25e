package cache

import "sync/atomic"

// counters only ever grow; they are reset by restarting the process.
type counters struct {
	hits         atomic.Int64
	misses       atomic.Int64
	sets         atomic.Int64
	deletes      atomic.Int64
	evictions    atomic.Int64 // entries evicted by Set to fit the hard budget
	evictedBytes atomic.Int64
	expirations  atomic.Int64 // expired entries removed lazily or by the sweep
	rejected     atomic.Int64 // Set calls refused by admission
}

func newCounters() *counters {
	return &counters{}
}

func (c *counters) snapshot() (hits, misses, sets, deletes, evictions, expirations int64) {
	return c.hits.Load(), c.misses.Load(), c.sets.Load(), c.deletes.Load(), c.evictions.Load(), c.expirations.Load()
}
