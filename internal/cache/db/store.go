// Package db holds the authoritative key to entry map of the cache and enforces
// its memory budget. Every mutating operation runs as one critical section under
// a single mutex, so the map, the recency order and the running memory counter
// always change together. Len and Mem are mirrored into atomics so readers
// (telemetry, evictor) never take the lock.
package db

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Borislavv/go-route-cache/config"
	"github.com/Borislavv/go-route-cache/internal/cache/db/model"
	"github.com/benbjohnson/clock"
)

// Lookup is the outcome of Store.Get.
type Lookup int

const (
	Miss Lookup = iota
	Hit
	Expired // the entry existed but was past its deadline and has been removed
)

// Store is a size-bounded map with LRU eviction and TTL bookkeeping.
type Store struct {
	mu     sync.Mutex
	items  map[string]*model.Entry
	policy EvictionPolicy
	clock  clock.Clock

	maxMem   int64
	maxEntry int64

	len atomic.Int64 // number of items, written under mu
	mem atomic.Int64 // sum of entry weights, written under mu
}

func NewStore(cfg config.StoreCfg, clk clock.Clock) *Store {
	if clk == nil {
		clk = clock.New()
	}
	return &Store{
		items:    make(map[string]*model.Entry),
		policy:   newLRUPolicy(),
		clock:    clk,
		maxMem:   cfg.MaxMemorySize,
		maxEntry: cfg.MaxEntrySize(),
	}
}

func (s *Store) Len() int64          { return s.len.Load() }
func (s *Store) Mem() int64          { return s.mem.Load() }
func (s *Store) MaxMem() int64       { return s.maxMem }
func (s *Store) MaxEntrySize() int64 { return s.maxEntry }

// Get returns a copy-safe value for key. An expired entry is removed on the spot.
func (s *Store) Get(key string) (value any, res Lookup) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, found := s.items[key]
	if !found {
		return nil, Miss
	}

	now := s.clock.Now()
	if entry.IsExpired(now) {
		s.removeLocked(key)
		return nil, Expired
	}

	entry.Touch(now)
	s.policy.OnAccess(key)
	return entry.Value(), Hit
}

// Set inserts or fully replaces key. Entries heavier than the admission threshold are
// rejected before anything is touched, so an existing value for key survives a rejection.
// Least recently used entries are evicted until the new one fits into the budget.
func (s *Store) Set(key string, value any, size int64, ttl time.Duration) (admitted bool, evicted, freed int64) {
	if size > s.maxEntry {
		return false, 0, 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.items[key]; found {
		s.removeLocked(key)
	}

	for s.mem.Load()+size > s.maxMem && len(s.items) > 0 {
		weight, ok := s.evictOneLocked()
		if !ok {
			break
		}
		freed += weight
		evicted++
	}

	s.items[key] = model.NewEntry(key, value, size, ttl, s.clock.Now())
	s.policy.OnInsert(key)
	s.len.Add(1)
	s.mem.Add(size)

	return true, evicted, freed
}

// Remove deletes key and reports the freed weight.
func (s *Store) Remove(key string) (freed int64, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(key)
}

// RemoveMatching deletes every key containing substr as a literal substring.
func (s *Store) RemoveMatching(substr string) (removed, freed int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.items {
		if strings.Contains(key, substr) {
			weight, _ := s.removeLocked(key)
			freed += weight
			removed++
		}
	}
	return removed, freed
}

// PurgeExpired removes every entry expired at the current clock reading.
func (s *Store) PurgeExpired() (purged, freed int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	for key, entry := range s.items {
		if entry.IsExpired(now) {
			delete(s.items, key)
			s.policy.OnRemove(key)
			freed += entry.Weight()
			purged++
		}
	}
	if purged > 0 {
		s.len.Add(-purged)
		s.mem.Add(-freed)
	}
	return purged, freed
}

// EvictUntilWithinLimit drops least recently used entries until memory usage is at or below limit.
func (s *Store) EvictUntilWithinLimit(limit int64) (freed, evicted int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for s.mem.Load() > limit && len(s.items) > 0 {
		weight, ok := s.evictOneLocked()
		if !ok {
			break
		}
		freed += weight
		evicted++
	}
	return freed, evicted
}

// Clear wipes the store and returns what was freed.
func (s *Store) Clear() (freed, items int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, freed = s.len.Load(), s.mem.Load()
	s.items = make(map[string]*model.Entry)
	s.policy.Reset()
	s.len.Store(0)
	s.mem.Store(0)
	return freed, items
}

// evictOneLocked removes exactly one victim chosen by the policy.
func (s *Store) evictOneLocked() (freed int64, ok bool) {
	key, found := s.policy.Victim()
	if !found {
		return 0, false
	}
	return s.removeLocked(key)
}

func (s *Store) removeLocked(key string) (freed int64, ok bool) {
	entry, found := s.items[key]
	if !found {
		return 0, false
	}
	delete(s.items, key)
	s.policy.OnRemove(key)

	freed = entry.Weight()
	s.len.Add(-1)
	s.mem.Add(-freed)
	return freed, true
}
