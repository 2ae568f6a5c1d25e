package maintenance

import "sync/atomic"

type counters struct {
	sweeps         atomic.Int64 // sweep runs
	purged         atomic.Int64 // entries removed by sweeps
	warmups        atomic.Int64 // warm-up runs with at least one producer
	warmupFailures atomic.Int64 // failed producer calls
}

func newCounters() *counters {
	return &counters{}
}

func (c *counters) snapshot() (sweeps, purged, warmups, warmupFailures int64) {
	return c.sweeps.Load(), c.purged.Load(), c.warmups.Load(), c.warmupFailures.Load()
}
