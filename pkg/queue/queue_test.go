package queue_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/electrostore/pkg/database"
	"github.com/shashiranjanraj/electrostore/pkg/queue"
)

var (
	greeted atomic.Int32
	tries   atomic.Int32
)

type greetJob struct {
	Who string `json:"who"`
}

func (greetJob) Name() string { return "greet" }

func (j *greetJob) Handle(context.Context) error {
	if j.Who == "" {
		return errors.New("nobody to greet")
	}
	greeted.Add(1)
	return nil
}

type flakyJob struct{}

func (flakyJob) Name() string { return "flaky" }

func (flakyJob) Handle(context.Context) error {
	tries.Add(1)
	return errors.New("downstream unavailable")
}

type panicJob struct{}

func (panicJob) Name() string                 { return "panics" }
func (panicJob) Handle(context.Context) error { panic("boom") }

func newManager() *queue.Manager {
	m := queue.NewManager(queue.NewMemoryDriver(16))
	m.Backoff = time.Millisecond
	m.Register("greet", func() queue.Job { return &greetJob{} })
	m.Register("flaky", func() queue.Job { return &flakyJob{} })
	m.Register("panics", func() queue.Job { return &panicJob{} })
	return m
}

func runNext(t *testing.T, m *queue.Manager) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	found, err := m.RunNext(ctx)
	require.NoError(t, err)
	require.True(t, found)
}

func TestDispatchAndProcess(t *testing.T) {
	m := newManager()
	before := greeted.Load()

	require.NoError(t, m.Dispatch(context.Background(), &greetJob{Who: "ada"}))
	runNext(t, m)

	assert.Equal(t, before+1, greeted.Load())
	assert.Empty(t, m.Failed())
}

func TestRetriesThenRecordsFailure(t *testing.T) {
	db, err := database.Open("sqlite", ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&queue.FailedJob{}))

	m := newManager()
	m.MaxRetry = 3
	m.UseDB(db)
	before := tries.Load()

	require.NoError(t, m.Dispatch(context.Background(), flakyJob{}))
	runNext(t, m)

	assert.Equal(t, before+3, tries.Load())
	require.Len(t, m.Failed(), 1)
	assert.Equal(t, "flaky", m.Failed()[0].Job)
	assert.Equal(t, 3, m.Failed()[0].Attempts)

	var stored []queue.FailedJob
	require.NoError(t, db.Find(&stored).Error)
	require.Len(t, stored, 1)
	assert.Contains(t, stored[0].Error, "downstream unavailable")
}

func TestPanicIsAFailure(t *testing.T) {
	m := newManager()
	m.MaxRetry = 1

	require.NoError(t, m.Dispatch(context.Background(), panicJob{}))
	runNext(t, m)

	require.Len(t, m.Failed(), 1)
	assert.Contains(t, m.Failed()[0].Error, "boom")
}

func TestUnknownJob(t *testing.T) {
	m := queue.NewManager(queue.NewMemoryDriver(4))
	require.NoError(t, m.Dispatch(context.Background(), &greetJob{Who: "x"}))
	runNext(t, m)

	require.Len(t, m.Failed(), 1)
	assert.Contains(t, m.Failed()[0].Error, queue.ErrUnknownJob.Error())
}

func TestWorkersStopWithContext(t *testing.T) {
	m := newManager()
	before := greeted.Load()

	ctx, cancel := context.WithCancel(context.Background())
	wait := m.Start(ctx, 2)

	for i := 0; i < 5; i++ {
		require.NoError(t, m.Dispatch(context.Background(), &greetJob{Who: "w"}))
	}
	assert.Eventually(t, func() bool { return greeted.Load() == before+5 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	done := make(chan struct{})
	go func() { wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("workers did not stop")
	}
}
