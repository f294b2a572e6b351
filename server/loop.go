package main

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DefaultTickInterval is the period between two world advances
const DefaultTickInterval = 500 * time.Millisecond

// Publisher receives each tick's snapshot after the world lock is released
type Publisher interface {
	Publish(snap Snapshot)
}

// Loop drives World.Advance at a fixed period
type Loop struct {
	world    *World
	interval time.Duration
	pub      Publisher
	log      *zap.SugaredLogger
	done     chan struct{}
}

// NewLoop creates a loop; a non-positive interval falls back to the default
func NewLoop(world *World, interval time.Duration, pub Publisher, log *zap.SugaredLogger) *Loop {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Loop{
		world:    world,
		interval: interval,
		pub:      pub,
		log:      log,
		done:     make(chan struct{}),
	}
}

// Run ticks until ctx is cancelled. A tick that has started always finishes;
// cancellation only stops the next one from being scheduled.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.done)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.log.Infow("tick loop started", "interval", l.interval)
	for {
		select {
		case <-ctx.Done():
			l.log.Infow("tick loop stopped", "tick", l.world.Tick())
			return
		case <-ticker.C:
			snap := l.world.Advance()
			l.publish(snap)
		}
	}
}

// Done is closed once Run has returned
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// publish hands the snapshot on. A panicking publisher costs one tick's
// delivery, never the loop.
func (l *Loop) publish(snap Snapshot) {
	if l.pub == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			l.log.Errorw("publish panicked", "tick", snap.Tick, "panic", r)
		}
	}()
	l.pub.Publish(snap)
}
