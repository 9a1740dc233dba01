package engine

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPoller_FetchesImmediatelyOnStart(t *testing.T) {
	var fetches atomic.Int64
	var delivered atomic.Int64

	fetch := func(ctx context.Context) (Snapshot, error) {
		fetches.Add(1)
		return Snapshot{}, nil
	}
	sink := func(seq uint64, snap Snapshot, err error) {
		delivered.Add(1)
	}

	p := NewPoller(time.Hour, fetch, sink, zap.NewNop())
	p.Start(context.Background())
	defer p.Stop()

	require.Eventually(t, func() bool {
		return fetches.Load() == 1 && delivered.Load() == 1
	}, time.Second, 5*time.Millisecond)
}

func TestPoller_KickIssuesExtraFetch(t *testing.T) {
	var fetches atomic.Int64

	fetch := func(ctx context.Context) (Snapshot, error) {
		fetches.Add(1)
		return Snapshot{}, nil
	}

	p := NewPoller(time.Hour, fetch, func(uint64, Snapshot, error) {}, zap.NewNop())
	p.Start(context.Background())
	defer p.Stop()

	require.Eventually(t, func() bool { return fetches.Load() == 1 }, time.Second, 5*time.Millisecond)

	p.Kick()
	require.Eventually(t, func() bool { return fetches.Load() == 2 }, time.Second, 5*time.Millisecond)
}

func TestPoller_SequenceNumbersIncrease(t *testing.T) {
	seqs := make(chan uint64, 3)

	p := NewPoller(time.Hour, func(ctx context.Context) (Snapshot, error) {
		return Snapshot{}, nil
	}, func(seq uint64, snap Snapshot, err error) {
		seqs <- seq
	}, zap.NewNop())

	p.Start(context.Background())
	defer p.Stop()

	first := <-seqs
	p.Kick()
	second := <-seqs
	assert.Greater(t, second, first)
}

func TestPoller_StopDropsInFlightResults(t *testing.T) {
	started := make(chan struct{})
	var delivered atomic.Int64

	fetch := func(ctx context.Context) (Snapshot, error) {
		close(started)
		<-ctx.Done()
		return Snapshot{}, ctx.Err()
	}
	sink := func(seq uint64, snap Snapshot, err error) {
		delivered.Add(1)
	}

	p := NewPoller(time.Hour, fetch, sink, zap.NewNop())
	p.Start(context.Background())

	<-started
	p.Stop()

	// The fetch was in flight when Stop was called: its result must never
	// reach the sink, even after Stop returns.
	assert.Equal(t, int64(0), delivered.Load())
}

func TestPoller_StartTwiceIsNoop(t *testing.T) {
	var fetches atomic.Int64

	p := NewPoller(time.Hour, func(ctx context.Context) (Snapshot, error) {
		fetches.Add(1)
		return Snapshot{}, nil
	}, func(uint64, Snapshot, error) {}, zap.NewNop())

	ctx := context.Background()
	p.Start(ctx)
	p.Start(ctx)
	defer p.Stop()

	require.Eventually(t, func() bool { return fetches.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int64(1), fetches.Load())
}
