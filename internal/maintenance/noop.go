package maintenance

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// NoOpScheduler keeps registered producers but never runs anything on its own.
// Warmup can still be invoked explicitly. The zero value is usable and does not log.
type NoOpScheduler struct {
	logger    *zerolog.Logger
	mu        sync.Mutex
	producers []namedProducer
}

func NewNoOp(logger *zerolog.Logger) *NoOpScheduler {
	return &NoOpScheduler{logger: logger}
}

func (n *NoOpScheduler) Register(name string, p Producer) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.producers = append(n.producers, namedProducer{name: name, fn: p})
}

// Sweep does nothing: without maintenance expired entries are only removed lazily.
func (n *NoOpScheduler) Sweep() int64 { return 0 }

// Warmup calls the registered producers sequentially, without throttling.
// Failures are logged the same way the scheduler logs them.
func (n *NoOpScheduler) Warmup(ctx context.Context) (succeeded, failed int) {
	n.mu.Lock()
	producers := append([]namedProducer(nil), n.producers...)
	n.mu.Unlock()

	if len(producers) == 0 {
		return 0, 0
	}

	errs := make(map[string]error)
	for _, p := range producers {
		if err := call(ctx, p.fn); err != nil {
			errs[p.name] = err
		}
	}

	logger := n.logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return report(logger, len(producers), errs)
}

func (n *NoOpScheduler) Metrics() (sweeps, purged, warmups, warmupFailures int64) {
	return 0, 0, 0, 0
}

func (n *NoOpScheduler) Close() error { return nil }
