package telemetry

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Borislavv/go-route-cache/config"
	"github.com/Borislavv/go-route-cache/internal/cache"
	"github.com/Borislavv/go-route-cache/internal/evictor"
	"github.com/Borislavv/go-route-cache/internal/maintenance"
	"github.com/Borislavv/go-route-cache/internal/testhelp"
	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"
)

// TestLogs_Disabled does not start a loop without telemetry config.
func TestLogs_Disabled(t *testing.T) {
	cfg := testhelp.Cfg()
	clk := clock.NewMock()
	logger, buf := testhelp.CapturingLogger()
	c := cache.New(cfg, logger, clk)

	l := New(context.Background(), cfg, logger, clk, c, &evictor.NoOpEvictor{}, &maintenance.NoOpScheduler{})
	defer l.Close()

	require.Zero(t, l.Interval())
	clk.Add(time.Hour)
	require.Empty(t, buf.String())
}

// TestLogs_ReportsDeltas logs per-interval counters, not cumulative ones.
func TestLogs_ReportsDeltas(t *testing.T) {
	cfg := testhelp.Cfg()
	cfg.Telemetry = &config.TelemetryCfg{Interval: time.Minute}
	cfg.AdjustConfig()

	clk := clock.NewMock()
	logger, buf := testhelp.CapturingLogger()
	c := cache.New(cfg, testhelp.Logger(), clk)

	_, _ = c.Set("k", "v", time.Hour)
	_, _ = c.Get("k")

	l := New(context.Background(), cfg, logger, clk, c, &evictor.NoOpEvictor{}, &maintenance.NoOpScheduler{})
	defer l.Close()
	require.Equal(t, time.Minute, l.Interval())

	_, _ = c.Get("k")
	_, _ = c.Get("k")
	_, _ = c.Get("missing")

	clk.Add(time.Minute)
	require.Eventually(t, func() bool {
		return strings.Contains(buf.String(), `"message":"storage"`)
	}, time.Second, 5*time.Millisecond)

	logs := buf.String()
	require.Contains(t, logs, `"hits":2`)
	require.Contains(t, logs, `"misses":1`)
	require.Contains(t, logs, `"hit_rate":"66.67%"`)
	require.Contains(t, logs, `"entries":1`)
	require.Contains(t, logs, `"soft_limit":"INF"`)
	require.Contains(t, logs, `"hard_limit":"1000 Bytes"`)
	require.NotContains(t, logs, "soft_evictor")
	require.NotContains(t, logs, `"message":"maintenance"`)
}
