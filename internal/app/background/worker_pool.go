package background

import (
	"context"
	"sync"
)

// workerPool is a fixed-size goroutine pool with a bounded input queue.
type workerPool[T any] struct {
	queue    chan T
	process  func(ctx context.Context, t T) error
	onResult func(t T, err error)
	wg       sync.WaitGroup
}

// newWorkerPool starts n goroutines reading from a queue of capacity cap.
// onResult, when set, is called from the worker after each job.
func newWorkerPool[T any](ctx context.Context, n, cap int, fn func(context.Context, T) error, onResult func(T, error)) *workerPool[T] {
	if n <= 0 {
		n = 1
	}
	p := &workerPool[T]{
		queue:    make(chan T, cap),
		process:  fn,
		onResult: onResult,
	}
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			p.run(ctx)
		}()
	}
	return p
}

func (p *workerPool[T]) run(ctx context.Context) {
	for {
		select {
		case t, ok := <-p.queue:
			if !ok {
				return
			}
			err := p.process(ctx, t)
			if p.onResult != nil {
				p.onResult(t, err)
			}
		case <-ctx.Done():
			return
		}
	}
}

// Submit enqueues a job, waiting for queue space. It returns false when ctx
// is done first.
func (p *workerPool[T]) Submit(ctx context.Context, t T) bool {
	select {
	case p.queue <- t:
		return true
	case <-ctx.Done():
		return false
	}
}

// TrySubmit enqueues a job without blocking (returns false if full).
func (p *workerPool[T]) TrySubmit(t T) bool {
	select {
	case p.queue <- t:
		return true
	default:
		return false
	}
}

// Drain closes the queue and waits for all workers to finish.
func (p *workerPool[T]) Drain() {
	close(p.queue)
	p.wg.Wait()
}
