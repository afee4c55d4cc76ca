// Package queue runs background jobs such as order confirmation emails.
//
// Jobs are JSON-encoded into an envelope carrying their registered name and
// pushed onto a Driver (in-memory by default, Redis in production):
//
//	queue.Register(jobs.OrderConfirmationName, func() queue.Job { return &jobs.OrderConfirmation{} })
//	queue.Dispatch(ctx, &jobs.OrderConfirmation{OrderID: 7})
//	stop := queue.Start(ctx, 2)
//
// A job is attempted up to MaxRetry times with linear backoff. Jobs that
// exhaust their attempts are recorded in the failed_jobs table (when UseDB was
// called) and in memory.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/electrostore/pkg/logger"
	"github.com/shashiranjanraj/electrostore/pkg/metrics"
)

// Job is a unit of background work.
type Job interface {
	// Name must match the name passed to Register.
	Name() string
	Handle(ctx context.Context) error
}

// Driver stores encoded jobs. Pop blocks until a job arrives or ctx ends and
// may return (nil, nil) when it times out with nothing to do.
type Driver interface {
	Push(ctx context.Context, payload []byte) error
	Pop(ctx context.Context) ([]byte, error)
}

// ErrUnknownJob is returned for envelopes whose name was never registered.
var ErrUnknownJob = errors.New("queue: unknown job")

type envelope struct {
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload"`
	Queued  time.Time       `json:"queued_at"`
}

// Manager owns a driver, the job registry and the retry policy.
type Manager struct {
	mu       sync.RWMutex
	driver   Driver
	registry map[string]func() Job
	failed   []FailedJob
	db       *gorm.DB

	MaxRetry int
	Backoff  time.Duration
}

func NewManager(d Driver) *Manager {
	return &Manager{
		driver:   d,
		registry: map[string]func() Job{},
		MaxRetry: 3,
		Backoff:  time.Second,
	}
}

// Default is the process-wide manager used by the package functions.
var Default = NewManager(NewMemoryDriver(1024))

func Register(name string, factory func() Job)      { Default.Register(name, factory) }
func Dispatch(ctx context.Context, job Job) error   { return Default.Dispatch(ctx, job) }
func Start(ctx context.Context, workers int) func() { return Default.Start(ctx, workers) }
func SetDriver(d Driver)                            { Default.SetDriver(d) }
func UseDB(db *gorm.DB)                             { Default.UseDB(db) }

func (m *Manager) SetDriver(d Driver) {
	m.mu.Lock()
	m.driver = d
	m.mu.Unlock()
}

// UseDB persists exhausted jobs into failed_jobs.
func (m *Manager) UseDB(db *gorm.DB) {
	m.mu.Lock()
	m.db = db
	m.mu.Unlock()
}

// Register makes a job type decodable by name.
func (m *Manager) Register(name string, factory func() Job) {
	m.mu.Lock()
	m.registry[name] = factory
	m.mu.Unlock()
}

func (m *Manager) currentDriver() Driver {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.driver
}

// Dispatch encodes job and pushes it onto the driver.
func (m *Manager) Dispatch(ctx context.Context, job Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("queue: marshal %s: %w", job.Name(), err)
	}
	raw, err := json.Marshal(envelope{Name: job.Name(), Payload: payload, Queued: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("queue: marshal envelope: %w", err)
	}
	if err := m.currentDriver().Push(ctx, raw); err != nil {
		return err
	}
	logger.WithCtx(ctx).Debug("queue: dispatched", "job", job.Name())
	return nil
}

// Start launches workers that process jobs until ctx is cancelled. The
// returned func blocks until every worker has exited.
func (m *Manager) Start(ctx context.Context, workers int) func() {
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.work(ctx)
		}()
	}
	logger.Info("queue: workers started", "count", workers)
	return wg.Wait
}

func (m *Manager) work(ctx context.Context) {
	for ctx.Err() == nil {
		if _, err := m.RunNext(ctx); err != nil && ctx.Err() == nil {
			logger.Warn("queue: pop failed", "error", err)
			sleep(ctx, 500*time.Millisecond)
		}
	}
}

// RunNext pops and processes a single job. It reports whether a job was
// found; job failures are handled by the retry policy, not returned.
func (m *Manager) RunNext(ctx context.Context) (bool, error) {
	raw, err := m.currentDriver().Pop(ctx)
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}
	m.process(ctx, raw)
	return true, nil
}

func (m *Manager) process(ctx context.Context, raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logger.Error("queue: bad envelope", "error", err)
		return
	}

	m.mu.RLock()
	factory, ok := m.registry[env.Name]
	m.mu.RUnlock()
	if !ok {
		m.fail(ctx, env, ErrUnknownJob, 0)
		return
	}

	job := factory()
	if err := json.Unmarshal(env.Payload, job); err != nil {
		m.fail(ctx, env, fmt.Errorf("queue: decode payload: %w", err), 0)
		return
	}

	attempts := m.MaxRetry
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if lastErr = m.handle(ctx, job); lastErr == nil {
			metrics.JobsProcessed.WithLabelValues(env.Name, "ok").Inc()
			logger.Info("queue: job processed", "job", env.Name, "attempt", attempt)
			return
		}
		logger.Warn("queue: job failed", "job", env.Name, "attempt", attempt, "error", lastErr)
		if attempt < attempts {
			sleep(ctx, time.Duration(attempt)*m.Backoff)
		}
	}
	m.fail(ctx, env, lastErr, attempts)
}

func (m *Manager) handle(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("queue: job panicked: %v", r)
		}
	}()
	return job.Handle(ctx)
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
