package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// TestNewEntry_Timestamps sets created/accessed/expires timestamps from now and ttl.
func TestNewEntry_Timestamps(t *testing.T) {
	e := NewEntry("k", "v", 3, time.Minute, epoch)

	require.Equal(t, "k", e.Key())
	require.Equal(t, epoch, e.CreatedAt())
	require.Equal(t, epoch, e.LastAccessedAt())
	require.Equal(t, epoch.Add(time.Minute), e.ExpiresAt())
	require.Equal(t, time.Minute, e.TTL())
	require.Equal(t, int64(3), e.Weight())
}

// TestEntry_Touch updates only the last access time.
func TestEntry_Touch(t *testing.T) {
	e := NewEntry("k", "v", 3, time.Minute, epoch)
	e.Touch(epoch.Add(time.Second))

	require.Equal(t, epoch.Add(time.Second), e.LastAccessedAt())
	require.Equal(t, epoch, e.CreatedAt())
	require.Equal(t, epoch.Add(time.Minute), e.ExpiresAt())
}

// TestEntry_NilKey returns an empty key for a nil entry.
func TestEntry_NilKey(t *testing.T) {
	var e *Entry
	require.Equal(t, "", e.Key())
	require.False(t, e.IsExpired(epoch))
}

// TestEntry_BytesAreNotAliased copies []byte payloads in and out.
func TestEntry_BytesAreNotAliased(t *testing.T) {
	in := []byte("payload")
	e := NewEntry("k", in, int64(len(in)), time.Minute, epoch)

	in[0] = 'X'
	out := e.Value().([]byte)
	require.Equal(t, []byte("payload"), out)

	out[0] = 'Y'
	require.Equal(t, []byte("payload"), e.Value().([]byte))
}
