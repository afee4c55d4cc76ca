package schedule

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunDueRespectsInterval(t *testing.T) {
	s := New()
	var runs atomic.Int32
	s.Every(time.Minute).Name("count").Run(func(context.Context) { runs.Add(1) })

	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	ctx := context.Background()

	assert.Equal(t, 1, s.RunDue(ctx, t0))
	s.Wait()
	assert.Equal(t, 0, s.RunDue(ctx, t0.Add(30*time.Second)))
	assert.Equal(t, 1, s.RunDue(ctx, t0.Add(time.Minute)))
	s.Wait()

	assert.Equal(t, int32(2), runs.Load())
	assert.Equal(t, []string{"count  [1m0s]"}, s.List())
}

func TestWithoutOverlapping(t *testing.T) {
	s := New()
	release := make(chan struct{})
	var runs atomic.Int32
	s.Every(time.Second).WithoutOverlapping().Run(func(context.Context) {
		runs.Add(1)
		<-release
	})

	t0 := time.Now()
	ctx := context.Background()
	assert.Equal(t, 1, s.RunDue(ctx, t0))
	assert.Equal(t, 0, s.RunDue(ctx, t0.Add(5*time.Second)))

	close(release)
	s.Wait()
	assert.Equal(t, int32(1), runs.Load())
}

func TestPanickingTaskIsContained(t *testing.T) {
	s := New()
	s.Every(time.Second).Run(func(context.Context) { panic("boom") })

	assert.Equal(t, 1, s.RunDue(context.Background(), time.Now()))
	s.Wait()
	assert.Equal(t, []string{"task-1  [1s]"}, s.List())
}

func TestStartStopsWithContext(t *testing.T) {
	s := New()
	s.tick = 10 * time.Millisecond
	var runs atomic.Int32
	s.Every(10 * time.Millisecond).Run(func(context.Context) { runs.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	wait := s.Start(ctx)
	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	wait()
}
