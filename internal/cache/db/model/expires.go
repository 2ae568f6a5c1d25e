package model

import "time"

// IsExpired reports whether the entry is past its deadline at now.
// The deadline itself is still valid: an entry expires strictly after expiresAt.
// Entries stored with a non-positive TTL are expired from the start.
func (e *Entry) IsExpired(now time.Time) bool {
	if e == nil {
		return false
	}
	return e.ttl <= 0 || now.After(e.expiresAt)
}
