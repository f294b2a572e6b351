package main

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingPublisher struct {
	mu    sync.Mutex
	ticks []uint64
	panic bool
}

func (p *countingPublisher) Publish(snap Snapshot) {
	p.mu.Lock()
	p.ticks = append(p.ticks, snap.Tick)
	boom := p.panic
	p.mu.Unlock()
	if boom {
		panic("publisher failure")
	}
}

func (p *countingPublisher) seen() []uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]uint64(nil), p.ticks...)
}

func TestLoopPublishesEveryTick(t *testing.T) {
	w := openWorld(nil)
	pub := &countingPublisher{}
	loop := NewLoop(w, 5*time.Millisecond, pub, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go loop.Run(ctx)

	require.Eventually(t, func() bool { return len(pub.seen()) >= 3 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-loop.Done():
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
	}

	seen := pub.seen()
	for i, tick := range seen {
		assert.Equal(t, uint64(i+1), tick)
	}
	assert.Equal(t, seen[len(seen)-1], w.Tick())
}

func TestLoopSurvivesPanickingPublisher(t *testing.T) {
	w := openWorld(nil)
	pub := &countingPublisher{panic: true}
	loop := NewLoop(w, 5*time.Millisecond, pub, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	require.Eventually(t, func() bool { return len(pub.seen()) >= 3 }, time.Second, 5*time.Millisecond)
}

func TestLoopDefaultsInterval(t *testing.T) {
	loop := NewLoop(openWorld(nil), 0, nil, nil)
	assert.Equal(t, DefaultTickInterval, loop.interval)
}
