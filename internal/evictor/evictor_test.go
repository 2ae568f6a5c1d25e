package evictor

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Borislavv/go-route-cache/internal/cache"
	"github.com/Borislavv/go-route-cache/internal/testhelp"
	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"
)

func fill(t *testing.T, c *cache.Cache, n int, weight int) {
	t.Helper()
	for i := 0; i < n; i++ {
		ok, err := c.Set(fmt.Sprintf("k%d", i), make([]byte, weight), time.Hour)
		require.NoError(t, err)
		require.True(t, ok)
	}
}

// TestEvictor_DisabledIsNoOp returns the no-op implementation without eviction config.
func TestEvictor_DisabledIsNoOp(t *testing.T) {
	cfg := testhelp.Cfg()
	c := cache.New(cfg, testhelp.Logger(), clock.NewMock())

	ev := New(context.Background(), cfg.Eviction, testhelp.Logger(), c, nil)
	require.IsType(t, &NoOpEvictor{}, ev)
	require.NoError(t, ev.Close())
}

// TestEvictor_TickEvictsOverSoftLimit brings memory back under the soft limit on the next tick.
func TestEvictor_TickEvictsOverSoftLimit(t *testing.T) {
	cfg := testhelp.EvictionCfg()
	clk := clock.NewMock()
	c := cache.New(cfg, testhelp.Logger(), clk)
	fill(t, c, 100, 100*1024)
	require.True(t, c.SoftMemoryLimitOvercome())

	ev := New(context.Background(), cfg.Eviction, testhelp.Logger(), c, clk)
	defer ev.Close()

	clk.Add(time.Second / time.Duration(cfg.Eviction.CallsPerSec))

	require.Eventually(t, func() bool {
		_, _, items, _ := ev.Metrics()
		return items > 0
	}, time.Second, 5*time.Millisecond)

	require.LessOrEqual(t, c.Mem(), cfg.Eviction.SoftMemoryLimitBytes)
	scans, hits, items, bytes := ev.Metrics()
	require.Equal(t, int64(1), scans)
	require.Equal(t, int64(1), hits)
	require.Equal(t, int64(100)-c.Len(), items)
	require.Equal(t, items*100*1024, bytes)
}

// TestEvictor_TickUnderSoftLimit scans but does not evict.
func TestEvictor_TickUnderSoftLimit(t *testing.T) {
	cfg := testhelp.EvictionCfg()
	clk := clock.NewMock()
	c := cache.New(cfg, testhelp.Logger(), clk)
	fill(t, c, 10, 1024)

	ev := New(context.Background(), cfg.Eviction, testhelp.Logger(), c, clk)
	defer ev.Close()

	clk.Add(time.Second / time.Duration(cfg.Eviction.CallsPerSec))

	require.Eventually(t, func() bool {
		scans, _, _, _ := ev.Metrics()
		return scans == 1
	}, time.Second, 5*time.Millisecond)

	_, hits, items, _ := ev.Metrics()
	require.Zero(t, hits)
	require.Zero(t, items)
	require.Equal(t, int64(10), c.Len())
}

// TestEvictor_ForceCall evicts without waiting for a tick.
func TestEvictor_ForceCall(t *testing.T) {
	cfg := testhelp.EvictionCfg()
	clk := clock.NewMock()
	c := cache.New(cfg, testhelp.Logger(), clk)
	fill(t, c, 100, 100*1024)

	ev := New(context.Background(), cfg.Eviction, testhelp.Logger(), c, clk)
	defer ev.Close()

	require.NoError(t, ev.ForceCall(time.Second))
	require.Eventually(t, func() bool {
		return !c.SoftMemoryLimitOvercome()
	}, time.Second, 5*time.Millisecond)
}

// TestEvictor_CloseIdempotent stops the worker once.
func TestEvictor_CloseIdempotent(t *testing.T) {
	cfg := testhelp.EvictionCfg()
	c := cache.New(cfg, testhelp.Logger(), clock.NewMock())

	ev := New(context.Background(), cfg.Eviction, testhelp.Logger(), c, clock.NewMock())
	require.NoError(t, ev.Close())
	require.NoError(t, ev.Close())
	require.NoError(t, ev.ForceCall(10*time.Millisecond))
}

type blockingTarget struct {
	release chan struct{}
	calls   atomic.Int64
}

func (b *blockingTarget) Len() int64                    { return 1 }
func (b *blockingTarget) Mem() int64                    { return 1 }
func (b *blockingTarget) SoftMemoryLimitOvercome() bool { return true }
func (b *blockingTarget) SoftEvictUntilWithinLimit() (freed, evicted int64) {
	b.calls.Add(1)
	<-b.release
	return 1, 1
}

// TestEvictor_ForceCall_Timeout gives up once the injected clock passes the timeout.
func TestEvictor_ForceCall_Timeout(t *testing.T) {
	cfg := testhelp.EvictionCfg()
	clk := clock.NewMock()
	target := &blockingTarget{release: make(chan struct{})}

	ev := New(context.Background(), cfg.Eviction, testhelp.Logger(), target, clk)
	defer ev.Close()
	defer close(target.release)

	require.NoError(t, ev.ForceCall(time.Second))
	require.Eventually(t, func() bool { return target.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	done := make(chan error, 1)
	go func() { done <- ev.ForceCall(time.Second) }()

	var err error
	require.Eventually(t, func() bool {
		clk.Add(time.Second)
		select {
		case err = <-done:
			return true
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
	require.ErrorIs(t, err, ErrEvictorNotResponded)
}

// TestEvictor_Close_LogsStop writes the stop record once the worker has exited.
func TestEvictor_Close_LogsStop(t *testing.T) {
	cfg := testhelp.EvictionCfg()
	logger, buf := testhelp.CapturingLogger()
	c := cache.New(cfg, testhelp.Logger(), clock.NewMock())

	ev := New(context.Background(), cfg.Eviction, logger, c, clock.NewMock())
	require.Contains(t, buf.String(), "evictor is running")
	require.NotContains(t, buf.String(), "evictor is stopped")

	require.NoError(t, ev.Close())
	require.Contains(t, buf.String(), `"message":"evictor is stopped"`)
}
