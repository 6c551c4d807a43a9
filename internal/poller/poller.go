package poller

import (
	"context"
	"log"
	"sync"
	"time"
)

// TickFunc runs one refresh pass. Returning an error backs the poller off
// for one interval; it never terminates the loop.
type TickFunc func(ctx context.Context) error

// Poller drives a periodic refetch loop. Each instance owns its own
// cancellation and timing state, so independent callers (and tests) never
// share anything. Stopping the poller is the only cancellation primitive.
type Poller struct {
	interval time.Duration
	tick     TickFunc

	mu      sync.Mutex
	cancel  context.CancelFunc
	running bool
	done    chan struct{}
}

func New(interval time.Duration, tick TickFunc) *Poller {
	return &Poller{
		interval: interval,
		tick:     tick,
	}
}

// Start launches the loop. The first tick runs immediately, then on every
// interval. A tick error doubles the next sleep once; the cadence returns
// to normal afterwards. Calling Start on a running poller is a no-op.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.running = true
	p.done = make(chan struct{})

	go p.loop(ctx)
}

// Stop cancels the loop and waits for the in-flight tick to finish.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	cancel := p.cancel
	done := p.done
	p.mu.Unlock()

	cancel()
	<-done
}

func (p *Poller) loop(ctx context.Context) {
	defer close(p.done)

	wait := time.Duration(0)
	for {
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if err := p.tick(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("Poller: tick failed, backing off: %v", err)
			wait = p.interval * 2
			continue
		}
		wait = p.interval
	}
}
