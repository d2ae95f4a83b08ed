package assistant

import (
	"sync"
	"time"
)

// responseSentinel signals the consumer loop to exit after draining.
const responseSentinel = "\x00natasha:stop"

// ResponseQueue is an unbounded producer/consumer queue of response
// strings. Enqueue never blocks, so producing a response never waits on
// delivery latency.
type ResponseQueue struct {
	mu     sync.Mutex
	items  []string
	signal chan struct{}
}

// NewResponseQueue creates an empty queue.
func NewResponseQueue() *ResponseQueue {
	return &ResponseQueue{signal: make(chan struct{}, 1)}
}

// Enqueue appends an item without blocking.
func (q *ResponseQueue) Enqueue(item string) {
	q.mu.Lock()
	q.items = append(q.items, item)
	q.mu.Unlock()
	select {
	case q.signal <- struct{}{}:
	default:
	}
}

// Close enqueues the shutdown sentinel. Items enqueued before Close are
// drained by the consumer first.
func (q *ResponseQueue) Close() {
	q.Enqueue(responseSentinel)
}

// Len returns the number of queued items.
func (q *ResponseQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// PopWait dequeues the oldest item, waiting up to timeout for one to
// arrive. Returns false on timeout.
func (q *ResponseQueue) PopWait(timeout time.Duration) (string, bool) {
	deadline := time.Now().Add(timeout)
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			item := q.items[0]
			q.items = q.items[1:]
			q.mu.Unlock()
			return item, true
		}
		q.mu.Unlock()

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return "", false
		}
		select {
		case <-q.signal:
		case <-time.After(remaining):
		}
	}
}
