package worker

import (
	"context"
	"sync"
)

// Task is a unit of work executed by the pool
type Task[T any] func(ctx context.Context) T

type indexed[T any] struct {
	index int
	value T
}

// Pool runs tasks on a fixed number of workers and returns their results
// in submission order
type Pool[T any] struct {
	workers    int
	jobQueue   chan indexed[Task[T]]
	results    chan indexed[T]
	collected  []T
	collectWG  sync.WaitGroup
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc
	closeOnce  sync.Once
	submitted  int
}

// NewPool creates a pool bound to ctx. Cancelling ctx stops the workers.
func NewPool[T any](ctx context.Context, workers int) *Pool[T] {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool[T]{
		workers:    workers,
		jobQueue:   make(chan indexed[Task[T]], workers*2),
		results:    make(chan indexed[T], workers*2),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Start launches the workers and the result collector
func (p *Pool[T]) Start() {
	p.collectWG.Add(1)
	go p.collect()

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool[T]) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			p.results <- indexed[T]{index: job.index, value: job.value(p.ctx)}
		}
	}
}

func (p *Pool[T]) collect() {
	defer p.collectWG.Done()

	for r := range p.results {
		for len(p.collected) <= r.index {
			var zero T
			p.collected = append(p.collected, zero)
		}
		p.collected[r.index] = r.value
	}
}

// Submit queues a task. It must not be called concurrently with itself or
// after Wait. Tasks submitted after Shutdown are dropped.
func (p *Pool[T]) Submit(task Task[T]) {
	job := indexed[Task[T]]{index: p.submitted, value: task}
	p.submitted++

	select {
	case <-p.ctx.Done():
	case p.jobQueue <- job:
	}
}

// Wait waits for all submitted tasks and returns their results in
// submission order. Dropped tasks leave a zero value.
func (p *Pool[T]) Wait() []T {
	close(p.jobQueue)
	p.wg.Wait()
	p.closeResults()
	p.collectWG.Wait()
	p.cancelFunc()

	for len(p.collected) < p.submitted {
		var zero T
		p.collected = append(p.collected, zero)
	}
	return p.collected
}

// Shutdown stops the workers without waiting for queued tasks
func (p *Pool[T]) Shutdown() {
	p.cancelFunc()
	p.wg.Wait()
	p.closeResults()
	p.collectWG.Wait()
}

func (p *Pool[T]) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}
