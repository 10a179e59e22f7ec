package frame

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by Do once the queue has stopped draining.
var ErrClosed = errors.New("frame: queue closed")

// Scheduler runs functions on the thread that owns the scene graph.
type Scheduler interface {
	// Do runs fn on the owning thread and waits for it to finish.
	Do(ctx context.Context, fn func()) error
	// Post enqueues fn without waiting.
	Post(fn func())
}

// Queue is a Scheduler drained by the render loop. Funcs run in the order
// they were enqueued. Do must not be called from the draining thread.
type Queue struct {
	mu     sync.Mutex
	tasks  []func()
	closed bool
	done   chan struct{}
}

func NewQueue() *Queue {
	return &Queue{done: make(chan struct{})}
}

func (q *Queue) Post(fn func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.tasks = append(q.tasks, fn)
}

func (q *Queue) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}
	q.tasks = append(q.tasks, func() {
		defer close(finished)
		fn()
	})
	q.mu.Unlock()

	select {
	case <-finished:
		return nil
	case <-q.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Drain runs the funcs queued so far and returns how many ran. Funcs they
// enqueue run on the next Drain.
func (q *Queue) Drain() int {
	q.mu.Lock()
	tasks := q.tasks
	q.tasks = nil
	q.mu.Unlock()
	for _, fn := range tasks {
		fn()
	}
	return len(tasks)
}

// Close drops pending funcs and releases every waiting Do.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.tasks = nil
	close(q.done)
}

// Immediate runs funcs synchronously on the caller's goroutine. It is the
// scheduler for tests and for code that already owns the scene.
type Immediate struct{}

func (Immediate) Do(ctx context.Context, fn func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fn()
	return nil
}

func (Immediate) Post(fn func()) { fn() }
