package evictor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Borislavv/go-route-cache/config"
	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"
)

var ErrEvictorNotResponded = errors.New("evictor not responded")

type Evictor interface {
	ForceCall(timeout time.Duration) error
	Metrics() (scans, hits, evictedItems, evictedBytes int64)
	Close() error
}

// Target is the part of the cache the evictor drives.
type Target interface {
	Len() int64
	Mem() int64
	SoftMemoryLimitOvercome() bool
	SoftEvictUntilWithinLimit() (freed, evicted int64)
}

type EvictionWorker struct {
	ctx      context.Context
	cancel   context.CancelFunc
	cfg      *config.EvictionCfg
	logger   *zerolog.Logger
	clock    clock.Clock
	cache    Target
	counters *evictorCounters
	invokeCh chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

func New(
	ctx context.Context,
	cfg *config.EvictionCfg,
	logger *zerolog.Logger,
	cache Target,
	clk clock.Clock,
) Evictor {
	if !cfg.Enabled() {
		return &NoOpEvictor{}
	}
	if clk == nil {
		clk = clock.New()
	}

	ctx, cancel := context.WithCancel(ctx)
	return (&EvictionWorker{
		ctx:      ctx,
		cancel:   cancel,
		cfg:      cfg,
		logger:   logger,
		clock:    clk,
		cache:    cache,
		counters: newEvictorCounters(),
		invokeCh: make(chan struct{}),
	}).run()
}

// ForceCall asks the consumer to evict right now. It fails if the consumer is busy for longer than timeout.
func (w *EvictionWorker) ForceCall(timeout time.Duration) error {
	after := w.clock.Timer(timeout)
	defer after.Stop()

	select {
	case <-w.ctx.Done():
	case w.invokeCh <- struct{}{}:
	case <-after.C:
		return ErrEvictorNotResponded
	}
	return nil
}

func (w *EvictionWorker) Metrics() (scans, hits, evictedItems, evictedBytes int64) {
	return w.counters.snapshot()
}

// Close stops the worker and waits for its goroutines. Repeated calls are no-ops.
func (w *EvictionWorker) Close() error {
	w.stopOnce.Do(func() {
		w.cancel()
		w.wg.Wait()
	})
	return nil
}

func (w *EvictionWorker) run() *EvictionWorker {
	w.logger.Info().
		Int64("calls_per_sec", w.cfg.CallsPerSec).
		Int64("soft_limit_bytes", w.cfg.SoftMemoryLimitBytes).
		Msg("evictor is running")

	// created here so that a mock clock advanced right after New is observed
	tick := w.clock.Ticker(time.Second / time.Duration(w.cfg.CallsPerSec))

	w.wg.Add(2)
	go func() {
		defer w.wg.Done()
		defer tick.Stop()
		w.provider(tick.C)
	}()
	go func() {
		defer w.wg.Done()
		defer func() { w.logger.Info().Msg("evictor is stopped") }()
		w.consumer()
	}()

	return w
}

// provider wakes the consumer up when the memory usage overcomes the soft limit.
func (w *EvictionWorker) provider(tick <-chan time.Time) {
	for {
		select {
		case <-w.ctx.Done():
			return
		case <-tick:
			if w.cache.Len() > 0 && w.cache.Mem() > 0 {
				w.counters.scans.Add(1)
				if w.cache.SoftMemoryLimitOvercome() {
					select {
					case <-w.ctx.Done():
						return
					case w.invokeCh <- struct{}{}:
						w.counters.scanHits.Add(1)
					}
				}
			}
		}
	}
}

// consumer evicts least recently used entries until the cache is back under the soft limit.
// The store serializes mutations, so one consumer is enough.
func (w *EvictionWorker) consumer() {
	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.invokeCh:
			if w.cache.Len() > 0 && w.cache.Mem() > 0 {
				freedBytes, items := w.cache.SoftEvictUntilWithinLimit()
				if items > 0 || freedBytes > 0 {
					w.counters.evictedItems.Add(items)
					w.counters.evictedBytes.Add(freedBytes)
					w.logger.Debug().
						Int64("evicted", items).
						Int64("freed_bytes", freedBytes).
						Msg("soft memory limit enforced")
				}
			}
		}
	}
}
