// Package schedule runs periodic maintenance tasks inside the serve process.
//
//	schedule.Every(time.Minute).Name("rate-limit-sweep").Run(sweep)
//	schedule.Every(time.Hour).Name("low-stock").WithoutOverlapping().Run(report)
//	wait := schedule.Start(ctx)
//
// A task runs on the first tick after Start and then whenever its interval
// has elapsed since the previous run.
package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shashiranjanraj/electrostore/pkg/logger"
)

// Task is the body of a scheduled job. ctx is cancelled on shutdown.
type Task func(ctx context.Context)

type entry struct {
	name      string
	interval  time.Duration
	task      Task
	noOverlap bool

	mu      sync.Mutex
	lastRun time.Time
	running bool
}

// Scheduler owns a set of entries and the loop dispatching them.
type Scheduler struct {
	mu      sync.Mutex
	entries []*entry
	wg      sync.WaitGroup
	tick    time.Duration
}

func New() *Scheduler { return &Scheduler{tick: time.Second} }

// Default is the scheduler used by the package functions.
var Default = New()

func Every(d time.Duration) *Schedule  { return Default.Every(d) }
func Start(ctx context.Context) func() { return Default.Start(ctx) }
func List() []string                   { return Default.List() }

// Schedule is a fluent builder for one entry.
type Schedule struct {
	s *Scheduler
	e *entry
}

func (s *Scheduler) Every(d time.Duration) *Schedule {
	return &Schedule{s: s, e: &entry{interval: d}}
}

func (sc *Schedule) Name(name string) *Schedule {
	sc.e.name = name
	return sc
}

// WithoutOverlapping skips a run while the previous one is still going.
func (sc *Schedule) WithoutOverlapping() *Schedule {
	sc.e.noOverlap = true
	return sc
}

// Run registers the entry.
func (sc *Schedule) Run(task Task) {
	sc.e.task = task
	sc.s.mu.Lock()
	defer sc.s.mu.Unlock()
	if sc.e.name == "" {
		sc.e.name = fmt.Sprintf("task-%d", len(sc.s.entries)+1)
	}
	sc.s.entries = append(sc.s.entries, sc.e)
}

// Start runs the dispatch loop until ctx is cancelled. The returned func
// waits for the loop and any in-flight task to finish.
func (s *Scheduler) Start(ctx context.Context) func() {
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(s.tick)
		defer ticker.Stop()
		s.RunDue(ctx, time.Now())
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				s.RunDue(ctx, now)
			}
		}
	}()
	logger.Info("schedule: started", "tasks", len(s.List()))
	return func() {
		<-done
		s.wg.Wait()
	}
}

// RunDue dispatches every entry due at now and returns how many started.
func (s *Scheduler) RunDue(ctx context.Context, now time.Time) int {
	s.mu.Lock()
	current := append([]*entry(nil), s.entries...)
	s.mu.Unlock()

	started := 0
	for _, e := range current {
		if s.dispatch(ctx, e, now) {
			started++
		}
	}
	return started
}

func (s *Scheduler) dispatch(ctx context.Context, e *entry, now time.Time) bool {
	e.mu.Lock()
	if !e.lastRun.IsZero() && now.Sub(e.lastRun) < e.interval {
		e.mu.Unlock()
		return false
	}
	if e.noOverlap && e.running {
		e.mu.Unlock()
		logger.Warn("schedule: skipping overlapping run", "task", e.name)
		return false
	}
	e.running = true
	e.lastRun = now
	e.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			e.mu.Lock()
			e.running = false
			e.mu.Unlock()
			if r := recover(); r != nil {
				logger.Error("schedule: task panicked", "task", e.name, "panic", r)
			}
		}()
		logger.Debug("schedule: running", "task", e.name)
		e.task(ctx)
	}()
	return true
}

// Wait blocks until every dispatched run has returned.
func (s *Scheduler) Wait() { s.wg.Wait() }

// List describes every entry as "name [interval]".
func (s *Scheduler) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, fmt.Sprintf("%s  [%s]", e.name, e.interval))
	}
	return out
}
