package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingEngine struct {
	startCalls    atomic.Int64
	finalizeCalls atomic.Int64
	startErr      error
	finalizeErr   error
}

func (c *countingEngine) StartNewDay(ctx context.Context) error {
	c.startCalls.Add(1)
	return c.startErr
}

func (c *countingEngine) MaybeFinalize(ctx context.Context) error {
	c.finalizeCalls.Add(1)
	return c.finalizeErr
}

func TestNextMidnight(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Istanbul")
	require.NoError(t, err)

	now := time.Date(2026, 8, 29, 14, 30, 0, 0, loc)
	assert.Equal(t, time.Date(2026, 8, 30, 0, 0, 0, 0, loc), nextMidnight(now))

	// exactly at midnight the next trigger is tomorrow, not now
	atMidnight := time.Date(2026, 8, 29, 0, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2026, 8, 30, 0, 0, 0, 0, loc), nextMidnight(atMidnight))

	// month rollover
	endOfMonth := time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), nextMidnight(endOfMonth))
}

func TestDriver_RunKicksFinalizeImmediately(t *testing.T) {
	eng := &countingEngine{}
	d := &Driver{Engine: eng, FinalizeInterval: time.Hour}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	require.Eventually(t, func() bool {
		return eng.finalizeCalls.Load() >= 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestDriver_FinalizeTicks(t *testing.T) {
	eng := &countingEngine{}
	d := &Driver{Engine: eng, FinalizeInterval: 10 * time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	require.Eventually(t, func() bool {
		return eng.finalizeCalls.Load() >= 3
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}

func TestDriver_JobFailuresAreContained(t *testing.T) {
	eng := &countingEngine{finalizeErr: errors.New("store unavailable")}
	d := &Driver{Engine: eng, FinalizeInterval: 10 * time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	// the loop keeps ticking through repeated failures
	require.Eventually(t, func() bool {
		return eng.finalizeCalls.Load() >= 3
	}, time.Second, 5*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestDriver_MidnightFiresStartNewDay(t *testing.T) {
	eng := &countingEngine{}
	d := &Driver{Engine: eng, FinalizeInterval: time.Hour}

	// pin the clock a hair before midnight so the day timer fires fast
	loc := time.UTC
	base := time.Date(2026, 8, 29, 23, 59, 59, int(time.Second-20*time.Millisecond), loc)
	d.now = func() time.Time { return base }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	require.Eventually(t, func() bool {
		return eng.startCalls.Load() >= 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}
