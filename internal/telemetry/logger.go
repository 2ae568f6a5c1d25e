package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/Borislavv/go-route-cache/config"
	"github.com/Borislavv/go-route-cache/internal/cache"
	"github.com/Borislavv/go-route-cache/internal/evictor"
	"github.com/Borislavv/go-route-cache/internal/maintenance"
	"github.com/Borislavv/go-route-cache/internal/shared/bytes"
	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"
)

type Logger interface {
	Interval() time.Duration
	Close() error
}

type Logs struct {
	ctx         context.Context
	cancel      context.CancelFunc
	cfg         *config.Cache
	logger      *zerolog.Logger
	clock       clock.Clock
	cache       cache.Cacher
	evictor     evictor.Evictor
	maintenance maintenance.Maintainer
	interval    time.Duration
	wg          sync.WaitGroup
	stopOnce    sync.Once
}

func New(
	ctx context.Context,
	cfg *config.Cache,
	logger *zerolog.Logger,
	clk clock.Clock,
	cache cache.Cacher,
	evictor evictor.Evictor,
	maintenance maintenance.Maintainer,
) *Logs {
	if clk == nil {
		clk = clock.New()
	}
	var interval time.Duration
	if cfg.Telemetry.Enabled() {
		interval = cfg.Telemetry.Interval
	}

	ctx, cancel := context.WithCancel(ctx)
	return (&Logs{
		ctx:         ctx,
		cancel:      cancel,
		cfg:         cfg,
		logger:      logger,
		clock:       clk,
		cache:       cache,
		evictor:     evictor,
		maintenance: maintenance,
		interval:    interval,
	}).run()
}

func (l *Logs) Interval() time.Duration {
	return l.interval
}

func (l *Logs) Close() error {
	l.stopOnce.Do(func() {
		l.cancel()
		l.wg.Wait()
	})
	return nil
}

func (l *Logs) run() *Logs {
	if !l.cfg.Telemetry.Enabled() {
		return l
	}

	ticker := l.clock.Ticker(l.interval)
	s := newSampler(l.cache, l.evictor, l.maintenance)
	prev := s.snapshot()

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		defer ticker.Stop()
		l.loop(ticker.C, s, prev)
	}()
	return l
}

func (l *Logs) loop(tick <-chan time.Time, s sampler, prev snapshot) {
	var softLimit = "INF"
	if l.cfg.Eviction.Enabled() {
		softLimit = bytes.FmtMem(l.cfg.Eviction.SoftMemoryLimitBytes)
	}
	hardLimit := bytes.FmtMem(l.cfg.Store.MaxMemorySize)

	for {
		select {
		case <-l.ctx.Done():
			return

		case <-tick:
			cur := s.snapshot()
			d := deltaSnapshot(prev, cur)
			prev = cur

			interval := l.interval.String()

			l.logger.Info().
				Str("interval", interval).
				Uint64("hits", d.hits).
				Uint64("misses", d.misses).
				Uint64("sets", d.sets).
				Uint64("deletes", d.deletes).
				Uint64("expirations", d.expirations).
				Uint64("rejected", d.rejected).
				Str("hit_rate", bytes.FmtPercent(int64(d.hits), int64(d.hits+d.misses))).
				Msg("requests")

			if d.evictions > 0 {
				l.logger.Info().
					Str("interval", interval).
					Uint64("freed_items", d.evictions).
					Str("freed_bytes", bytes.FmtMem(int64(d.hardBytes))).
					Msg("hard_evictor")
			}

			if l.cfg.Eviction.Enabled() {
				l.logger.Info().
					Str("interval", interval).
					Uint64("scans", d.softScans).
					Uint64("hits", d.softHits).
					Uint64("freed_items", d.softEvictedItems).
					Str("freed_bytes", bytes.FmtMem(int64(d.softEvictedBytes))).
					Msg("soft_evictor")
			}

			if l.cfg.Maintenance.Enabled() {
				l.logger.Info().
					Str("interval", interval).
					Uint64("sweeps", d.sweeps).
					Uint64("purged", d.purged).
					Uint64("warmups", d.warmups).
					Uint64("warmup_failures", d.warmupFailures).
					Msg("maintenance")
			}

			l.logger.Info().
				Str("interval", interval).
				Str("size", bytes.FmtMem(l.cache.Mem())).
				Int64("entries", l.cache.Len()).
				Str("soft_limit", softLimit).
				Str("hard_limit", hardLimit).
				Msg("storage")
		}
	}
}
