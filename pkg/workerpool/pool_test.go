package workerpool_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/electrostore/pkg/workerpool"
)

func TestRunsEveryTask(t *testing.T) {
	pool := workerpool.New(4)
	var count atomic.Int64

	for i := 0; i < 100; i++ {
		require.NoError(t, pool.Go(context.Background(), func(context.Context) error {
			count.Add(1)
			return nil
		}))
	}

	require.NoError(t, pool.Wait())
	assert.Equal(t, int64(100), count.Load())
}

func TestConcurrencyIsBounded(t *testing.T) {
	pool := workerpool.New(3)
	var running, peak atomic.Int32

	for i := 0; i < 20; i++ {
		require.NoError(t, pool.Go(context.Background(), func(context.Context) error {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			running.Add(-1)
			return nil
		}))
	}

	require.NoError(t, pool.Wait())
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestErrorsAreJoined(t *testing.T) {
	pool := workerpool.New(2)
	errA, errB := errors.New("a failed"), errors.New("b failed")

	require.NoError(t, pool.Go(context.Background(), func(context.Context) error { return errA }))
	require.NoError(t, pool.Go(context.Background(), func(context.Context) error { return nil }))
	require.NoError(t, pool.Go(context.Background(), func(context.Context) error { return errB }))

	err := pool.Wait()
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
}

func TestPanicBecomesError(t *testing.T) {
	pool := workerpool.New(1)
	require.NoError(t, pool.Go(context.Background(), func(context.Context) error { panic("bad file") }))
	assert.ErrorContains(t, pool.Wait(), "bad file")
}

func TestTryGoWhenFull(t *testing.T) {
	pool := workerpool.New(1)
	release := make(chan struct{})

	require.NoError(t, pool.TryGo(context.Background(), func(context.Context) error {
		<-release
		return nil
	}))
	assert.ErrorIs(t, pool.TryGo(context.Background(), func(context.Context) error { return nil }), workerpool.ErrPoolFull)

	close(release)
	require.NoError(t, pool.Wait())
}

func TestGoStopsOnCancelledContext(t *testing.T) {
	pool := workerpool.New(1)
	release := make(chan struct{})
	require.NoError(t, pool.Go(context.Background(), func(context.Context) error {
		<-release
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, pool.Go(ctx, func(context.Context) error { return nil }), context.Canceled)

	close(release)
	require.NoError(t, pool.Wait())
}
