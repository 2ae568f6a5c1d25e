package cache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestCounters_Snapshot verifies that counters correctly track and snapshot metrics.
func TestCounters_Snapshot(t *testing.T) {
	c := newCounters()

	hits, misses, sets, deletes, evictions, expirations := c.snapshot()
	require.Zero(t, hits+misses+sets+deletes+evictions+expirations)

	c.hits.Add(10)
	c.misses.Add(5)
	c.sets.Add(3)
	c.deletes.Add(2)
	c.evictions.Add(1)
	c.expirations.Add(4)

	hits, misses, sets, deletes, evictions, expirations = c.snapshot()
	require.Equal(t, int64(10), hits)
	require.Equal(t, int64(5), misses)
	require.Equal(t, int64(3), sets)
	require.Equal(t, int64(2), deletes)
	require.Equal(t, int64(1), evictions)
	require.Equal(t, int64(4), expirations)
}

// TestCounters_Concurrent verifies that counters are thread-safe.
func TestCounters_Concurrent(t *testing.T) {
	c := newCounters()

	const numGoroutines = 10
	const opsPerGoroutine = 100

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < opsPerGoroutine; j++ {
				c.hits.Add(1)
				c.misses.Add(1)
				c.sets.Add(1)
				c.deletes.Add(1)
			}
		}()
	}

	wg.Wait()

	hits, misses, sets, deletes, _, _ := c.snapshot()
	require.Equal(t, int64(numGoroutines*opsPerGoroutine), hits)
	require.Equal(t, int64(numGoroutines*opsPerGoroutine), misses)
	require.Equal(t, int64(numGoroutines*opsPerGoroutine), sets)
	require.Equal(t, int64(numGoroutines*opsPerGoroutine), deletes)
}
