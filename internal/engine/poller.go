package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// sinkFunc receives every completed fetch together with the sequence number
// it was issued under. Completions may arrive out of issue order; the
// consumer decides what to apply.
type sinkFunc func(seq uint64, snap Snapshot, err error)

// Poller drives the recurring fetch for one surface. Each tick issues an
// independent fetch; a slow or failed fetch never blocks or skips later
// ticks beyond normal interval spacing.
type Poller struct {
	interval time.Duration
	fetch    FetchFunc
	sink     sinkFunc
	logger   *zap.Logger

	kick chan struct{}

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
	seq    atomic.Uint64
}

// NewPoller creates a poller that invokes fetch every interval and hands
// results to sink
func NewPoller(interval time.Duration, fetch FetchFunc, sink sinkFunc, logger *zap.Logger) *Poller {
	return &Poller{
		interval: interval,
		fetch:    fetch,
		sink:     sink,
		logger:   logger,
		kick:     make(chan struct{}, 1),
	}
}

// Start begins polling. The first fetch is issued immediately, then one per
// interval. Start on a running poller is a no-op.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.wg.Add(1)
	go p.run(runCtx)
}

// Stop halts polling deterministically: after Stop returns, the sink will
// not be invoked again, and results of fetches issued before Stop are
// dropped rather than applied.
func (p *Poller) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.wg.Wait()
}

// Kick requests one extra fetch as soon as possible, without disturbing the
// regular interval. Used after submitting a command so the authoritative
// state converges quickly. No-op if a kick is already queued.
func (p *Poller) Kick() {
	select {
	case p.kick <- struct{}{}:
	default:
	}
}

func (p *Poller) run(ctx context.Context) {
	defer p.wg.Done()

	p.tick(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		case <-p.kick:
			p.tick(ctx)
		}
	}
}

// tick issues one fetch in its own goroutine. Overlapping ticks are
// expected; the sequence number lets the consumer enforce
// last-started-wins ordering.
func (p *Poller) tick(ctx context.Context) {
	seq := p.seq.Add(1)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		snap, err := p.fetch(ctx)
		if ctx.Err() != nil {
			// Stopped while in flight: never deliver.
			return
		}
		if err != nil {
			p.logger.Debug("fetch failed, surface keeps last good snapshot",
				zap.Uint64("seq", seq),
				zap.Error(err),
			)
		}
		p.sink(seq, snap, err)
	}()
}
