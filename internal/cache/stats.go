package cache

import "github.com/Borislavv/go-route-cache/internal/shared/bytes"

type MemoryUsage struct {
	Current    string `json:"current"`
	Max        string `json:"max"`
	Percentage string `json:"percentage"`
}

// Stats is a point-in-time view of the cache counters with derived metrics.
type Stats struct {
	Hits        int64       `json:"hits"`
	Misses      int64       `json:"misses"`
	Sets        int64       `json:"sets"`
	Deletes     int64       `json:"deletes"`
	Evictions   int64       `json:"evictions"`
	Expirations int64       `json:"expirations"`
	HitRate     string      `json:"hitRate"`
	MemoryUsage MemoryUsage `json:"memoryUsage"`
	CacheSize   int64       `json:"cacheSize"`
}

func (c *Cache) Stats() Stats {
	hits, misses, sets, deletes, evictions, expirations := c.counters.snapshot()
	mem, maxMem := c.db.Mem(), c.db.MaxMem()

	return Stats{
		Hits:        hits,
		Misses:      misses,
		Sets:        sets,
		Deletes:     deletes,
		Evictions:   evictions,
		Expirations: expirations,
		HitRate:     bytes.FmtPercent(hits, hits+misses),
		MemoryUsage: MemoryUsage{
			Current:    bytes.FmtMem(mem),
			Max:        bytes.FmtMem(maxMem),
			Percentage: bytes.FmtPercent(mem, maxMem),
		},
		CacheSize: c.db.Len(),
	}
}
