// Package maintenance runs the background upkeep of the cache: a periodic sweep of
// expired entries and periodic warm-up runs that call registered producers to
// repopulate hot keys.
package maintenance

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Borislavv/go-route-cache/config"
	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"
	"go.uber.org/ratelimit"
)

var ErrProducerPanicked = errors.New("warm-up producer panicked")

// Producer loads data from the source of truth and writes it into the cache.
// It must not assume anything about the cache lock: it is always called without it.
type Producer func(ctx context.Context) error

// Sweeper removes expired entries.
type Sweeper interface {
	PurgeExpired() (purged, freedBytes int64)
}

type Maintainer interface {
	Register(name string, p Producer)
	Sweep() (purged int64)
	Warmup(ctx context.Context) (succeeded, failed int)
	Metrics() (sweeps, purged, warmups, warmupFailures int64)
	Close() error
}

type namedProducer struct {
	name string
	fn   Producer
}

type Scheduler struct {
	ctx      context.Context
	cancel   context.CancelFunc
	cfg      *config.MaintenanceCfg
	logger   *zerolog.Logger
	clock    clock.Clock
	sweeper  Sweeper
	limiter  ratelimit.Limiter
	counters *counters

	mu        sync.RWMutex
	producers []namedProducer

	wg       sync.WaitGroup
	stopOnce sync.Once
}

func New(
	ctx context.Context,
	cfg *config.MaintenanceCfg,
	logger *zerolog.Logger,
	sweeper Sweeper,
	clk clock.Clock,
) Maintainer {
	if !cfg.Enabled() {
		return NewNoOp(logger)
	}
	if clk == nil {
		clk = clock.New()
	}

	ctx, cancel := context.WithCancel(ctx)
	return (&Scheduler{
		ctx:      ctx,
		cancel:   cancel,
		cfg:      cfg,
		logger:   logger,
		clock:    clk,
		sweeper:  sweeper,
		limiter:  ratelimit.New(cfg.WarmupRate),
		counters: newCounters(),
	}).run()
}

// Register adds a warm-up producer. Producers registered after a run has started join the next run.
func (s *Scheduler) Register(name string, p Producer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.producers = append(s.producers, namedProducer{name: name, fn: p})
}

func (s *Scheduler) Metrics() (sweeps, purged, warmups, warmupFailures int64) {
	return s.counters.snapshot()
}

// Close stops both loops and waits for them, including a warm-up run in flight.
func (s *Scheduler) Close() error {
	s.stopOnce.Do(func() {
		s.cancel()
		s.wg.Wait()
	})
	return nil
}

// Sweep purges expired entries once.
func (s *Scheduler) Sweep() (purged int64) {
	purged, freed := s.sweeper.PurgeExpired()
	s.counters.sweeps.Add(1)
	s.counters.purged.Add(purged)

	if purged > 0 {
		s.logger.Info().
			Int64("purged", purged).
			Int64("freed_bytes", freed).
			Msg("expired entries swept")
	} else {
		s.logger.Debug().Msg("sweep found no expired entries")
	}
	return purged
}

// Warmup calls every registered producer once. A failing or panicking producer is logged
// and does not stop the others.
func (s *Scheduler) Warmup(ctx context.Context) (succeeded, failed int) {
	s.mu.RLock()
	producers := make([]namedProducer, len(s.producers))
	copy(producers, s.producers)
	s.mu.RUnlock()

	if len(producers) == 0 {
		return 0, 0
	}
	s.counters.warmups.Add(1)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs = make(map[string]error, len(producers))
	)
	for _, p := range producers {
		s.limiter.Take()
		if err := ctx.Err(); err != nil {
			mu.Lock()
			errs[p.name] = err
			mu.Unlock()
			continue
		}

		wg.Add(1)
		go func(p namedProducer) {
			defer wg.Done()
			if err := call(ctx, p.fn); err != nil {
				mu.Lock()
				errs[p.name] = err
				mu.Unlock()
			}
		}(p)
	}
	wg.Wait()

	s.counters.warmupFailures.Add(int64(len(errs)))
	return report(s.logger, len(producers), errs)
}

// report logs every failed producer by name and the outcome of the whole run.
func report(logger *zerolog.Logger, total int, errs map[string]error) (succeeded, failed int) {
	for name, err := range errs {
		logger.Error().Err(err).Str("producer", name).Msg("warm-up producer failed")
	}

	failed = len(errs)
	succeeded = total - failed

	switch {
	case succeeded == 0:
		logger.Error().Int("producers", total).Msg("cache warm-up failed: every producer returned an error")
	case failed > 0:
		logger.Warn().Int("succeeded", succeeded).Int("failed", failed).Msg("cache warm-up partially completed")
	default:
		logger.Info().Int("producers", succeeded).Msg("cache warm-up completed")
	}
	return succeeded, failed
}

func call(ctx context.Context, p Producer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrProducerPanicked, r)
		}
	}()
	return p(ctx)
}

func (s *Scheduler) run() *Scheduler {
	s.logger.Info().
		Dur("sweep_interval", s.cfg.SweepInterval).
		Dur("warmup_delay", s.cfg.WarmupDelay).
		Dur("warmup_interval", s.cfg.WarmupInterval).
		Int("warmup_rate", s.cfg.WarmupRate).
		Msg("maintenance is running")

	// timers are created before the goroutines start so that no tick of an injected clock is lost
	sweepTick := s.clock.Ticker(s.cfg.SweepInterval)
	warmupDelay := s.clock.Timer(s.cfg.WarmupDelay)
	warmupTick := s.clock.Ticker(s.cfg.WarmupInterval)

	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		defer sweepTick.Stop()
		s.sweepLoop(sweepTick.C)
	}()
	go func() {
		defer s.wg.Done()
		defer warmupDelay.Stop()
		defer warmupTick.Stop()
		s.warmupLoop(warmupDelay.C, warmupTick.C)
	}()

	go func() {
		s.wg.Wait()
		s.logger.Info().Msg("maintenance is stopped")
	}()

	return s
}

func (s *Scheduler) sweepLoop(tick <-chan time.Time) {
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-tick:
			s.Sweep()
		}
	}
}

func (s *Scheduler) warmupLoop(delay, tick <-chan time.Time) {
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-delay:
			s.Warmup(s.ctx)
		case <-tick:
			s.Warmup(s.ctx)
		}
	}
}
