package polling

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"rationale/internal/logging"
)

// TickFunc is invoked once per interval. Returning stop=true ends the loop;
// an error is logged and the loop continues.
type TickFunc func(ctx context.Context) (stop bool, err error)

// Poller repeatedly invokes a tick function at a fixed interval.
type Poller struct {
	interval time.Duration
	logger   *slog.Logger

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	done       chan struct{}
}

// New creates a poller. A non-positive interval defaults to two seconds.
func New(interval time.Duration, logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Poller{
		interval: interval,
		logger:   logging.NewComponentLogger(logger, "polling"),
	}
}

// Start launches the poll loop. Any loop already running is cancelled first,
// so at most one loop is ever active. The first tick fires immediately.
func (p *Poller) Start(ctx context.Context, tick TickFunc) {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.generation++
	generation := p.generation
	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	done := make(chan struct{})
	p.done = done
	p.mu.Unlock()

	go p.run(runCtx, generation, tick, done)
}

func (p *Poller) run(ctx context.Context, generation uint64, tick TickFunc, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if !p.currentGeneration(generation) {
			return
		}
		stop, err := tick(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.logger.Warn("poll tick failed", logging.Error(err))
		} else if stop {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (p *Poller) currentGeneration(generation uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return generation == p.generation
}

// Stop cancels the active loop and waits for it to exit. Stopping an idle
// poller is a no-op.
func (p *Poller) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	done := p.done
	p.mu.Unlock()

	if done != nil {
		<-done
	}
}
