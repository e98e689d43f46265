package pipeline

import "sync"

// Queue is an unbounded FIFO. Push never blocks; Pop blocks until an item
// is available or the queue is closed.
type Queue[T any] struct {
	mu     sync.Mutex
	items  []T
	notify chan struct{}
	done   chan struct{}
	once   sync.Once
}

func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Push appends v. It reports false once the queue is closed.
func (q *Queue[T]) Push(v T) bool {
	select {
	case <-q.done:
		return false
	default:
	}

	q.mu.Lock()
	q.items = append(q.items, v)
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
	return true
}

// Pop removes the oldest item, waiting for one if the queue is empty.
// ok is false when the queue has been closed.
func (q *Queue[T]) Pop() (v T, ok bool) {
	for {
		select {
		case <-q.done:
			return v, false
		default:
		}

		q.mu.Lock()
		if len(q.items) > 0 {
			v = q.items[0]
			var zero T
			q.items[0] = zero
			q.items = q.items[1:]
			q.mu.Unlock()
			return v, true
		}
		q.mu.Unlock()

		select {
		case <-q.notify:
		case <-q.done:
			return v, false
		}
	}
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close wakes every blocked Pop and rejects further pushes.
func (q *Queue[T]) Close() {
	q.once.Do(func() {
		close(q.done)
	})
}
