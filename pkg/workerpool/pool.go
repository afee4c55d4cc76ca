// Package workerpool runs tasks with bounded concurrency and collects their
// errors. The product image importer uses it to upload many files at once
// without opening one connection per file.
//
//	pool := workerpool.New(4)
//	for _, f := range files {
//	    if err := pool.Go(ctx, func(ctx context.Context) error { return upload(ctx, f) }); err != nil {
//	        break // ctx cancelled
//	    }
//	}
//	err := pool.Wait() // errors.Join of every failed task
package workerpool

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrPoolFull is returned by TryGo when every slot is busy.
var ErrPoolFull = errors.New("workerpool: pool is full")

// Task is one unit of work.
type Task func(ctx context.Context) error

// Pool limits how many tasks run at the same time.
type Pool struct {
	slots chan struct{}
	wg    sync.WaitGroup

	mu   sync.Mutex
	errs []error
}

// New creates a pool running at most size tasks at once.
func New(size int) *Pool {
	if size <= 0 {
		size = 1
	}
	return &Pool{slots: make(chan struct{}, size)}
}

// Go blocks until a slot is free, then runs task in its own goroutine. It
// returns ctx.Err() without running task if ctx ends first.
func (p *Pool) Go(ctx context.Context, task Task) error {
	select {
	case p.slots <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	p.start(ctx, task)
	return nil
}

// TryGo runs task only if a slot is free right now.
func (p *Pool) TryGo(ctx context.Context, task Task) error {
	select {
	case p.slots <- struct{}{}:
	default:
		return ErrPoolFull
	}
	p.start(ctx, task)
	return nil
}

func (p *Pool) start(ctx context.Context, task Task) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer func() { <-p.slots }()
		if err := run(ctx, task); err != nil {
			p.mu.Lock()
			p.errs = append(p.errs, err)
			p.mu.Unlock()
		}
	}()
}

func run(ctx context.Context, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("workerpool: task panicked: %v", r)
		}
	}()
	return task(ctx)
}

// Wait blocks until every started task returns and joins their errors.
func (p *Pool) Wait() error {
	p.wg.Wait()
	p.mu.Lock()
	defer p.mu.Unlock()
	return errors.Join(p.errs...)
}
