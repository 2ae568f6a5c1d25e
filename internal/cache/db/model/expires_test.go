package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestEntry_IsExpired_Boundary is still valid exactly at expiresAt and expired one tick later.
func TestEntry_IsExpired_Boundary(t *testing.T) {
	e := NewEntry("k", "v", 3, 100*time.Millisecond, epoch)

	require.False(t, e.IsExpired(epoch))
	require.False(t, e.IsExpired(epoch.Add(99*time.Millisecond)))
	require.False(t, e.IsExpired(epoch.Add(100*time.Millisecond)), "deadline itself is not expired")
	require.True(t, e.IsExpired(epoch.Add(100*time.Millisecond+time.Nanosecond)))
	require.True(t, e.IsExpired(epoch.Add(time.Hour)))
}

// TestEntry_IsExpired_NonPositiveTTL is expired immediately.
func TestEntry_IsExpired_NonPositiveTTL(t *testing.T) {
	require.True(t, NewEntry("zero", "v", 3, 0, epoch).IsExpired(epoch))
	require.True(t, NewEntry("negative", "v", 3, -time.Second, epoch).IsExpired(epoch))
}
