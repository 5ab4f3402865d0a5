package triscan

import "sync"

// WorkQueue is a FIFO queue of work items shared between a leader that pushes
// and workers that pop. Finish tells workers that no more items will arrive:
// a worker blocked in Pop wakes up, drains whatever is still pending, and then
// observes closure.
//
// Items pushed after Finish are still delivered to workers that have not
// exited yet, but may never be observed once all consumers are gone.
type WorkQueue[T any] struct {
	mu      sync.Mutex
	cond    *sync.Cond
	pending []T
	done    bool
}

// NewWorkQueue returns an empty, open queue.
func NewWorkQueue[T any]() *WorkQueue[T] {
	q := &WorkQueue[T]{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push appends item at the tail and wakes one blocked consumer. It never
// blocks the caller.
func (q *WorkQueue[T]) Push(item T) {
	q.mu.Lock()
	q.pending = append(q.pending, item)
	q.mu.Unlock()
	q.cond.Signal()
}

// Pop blocks until an item is available or the queue is finished and drained.
// It returns the head item in push order, or ok=false once the queue is
// closed and empty.
func (q *WorkQueue[T]) Pop() (item T, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.pending) == 0 && !q.done {
		q.cond.Wait()
	}

	if len(q.pending) == 0 {
		var zero T
		return zero, false
	}

	item = q.pending[0]
	q.pending = q.pending[1:]
	return item, true
}

// Finish marks that no more items will arrive and wakes every blocked
// consumer, since several workers may be waiting at once. Once set, done
// never reverts. Finish is safe to call more than once.
func (q *WorkQueue[T]) Finish() {
	q.mu.Lock()
	q.done = true
	q.mu.Unlock()
	q.cond.Broadcast()
}

// Len reports the number of items currently pending.
func (q *WorkQueue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
