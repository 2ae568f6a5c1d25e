package model

import "time"

// Entry is a single cached value with its accounting and lifetime data.
// Fields are not synchronized: an Entry is only touched under the owning store lock.
type Entry struct {
	key            string
	value          any           // owned by the entry; []byte values are private copies
	size           int64         // serialized size at insertion time, never recomputed
	ttl            time.Duration // requested lifetime
	createdAt      time.Time
	lastAccessedAt time.Time
	expiresAt      time.Time // createdAt + ttl
}

// NewEntry makes an entry created (and last accessed) at now.
func NewEntry(key string, value any, size int64, ttl time.Duration, now time.Time) *Entry {
	return &Entry{
		key:            key,
		value:          cloneValue(value),
		size:           size,
		ttl:            ttl,
		createdAt:      now,
		lastAccessedAt: now,
		expiresAt:      now.Add(ttl),
	}
}

func (e *Entry) Key() string {
	if e == nil {
		return ""
	}
	return e.key
}
