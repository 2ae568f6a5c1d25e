package model

import "time"

func (e *Entry) TTL() time.Duration        { return e.ttl }
func (e *Entry) CreatedAt() time.Time      { return e.createdAt }
func (e *Entry) ExpiresAt() time.Time      { return e.expiresAt }
func (e *Entry) LastAccessedAt() time.Time { return e.lastAccessedAt }

// Touch marks the entry as accessed at now; the LRU order is maintained by the store.
func (e *Entry) Touch(now time.Time) { e.lastAccessedAt = now }
