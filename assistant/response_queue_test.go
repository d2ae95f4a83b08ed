package assistant

import (
	"sync"
	"testing"
	"time"
)

func TestResponseQueue_FIFO(t *testing.T) {
	q := NewResponseQueue()
	q.Enqueue("first")
	q.Enqueue("second")
	q.Enqueue("third")

	for _, want := range []string{"first", "second", "third"} {
		got, ok := q.PopWait(time.Second)
		if !ok || got != want {
			t.Fatalf("PopWait = %q, %v; want %q", got, ok, want)
		}
	}
	if q.Len() != 0 {
		t.Errorf("expected empty queue, len=%d", q.Len())
	}
}

func TestResponseQueue_PopWaitTimesOut(t *testing.T) {
	q := NewResponseQueue()

	start := time.Now()
	_, ok := q.PopWait(20 * time.Millisecond)
	if ok {
		t.Fatal("expected timeout on empty queue")
	}
	if time.Since(start) < 20*time.Millisecond {
		t.Error("PopWait returned before the timeout elapsed")
	}
}

func TestResponseQueue_PopWaitWakesOnEnqueue(t *testing.T) {
	q := NewResponseQueue()

	go func() {
		time.Sleep(10 * time.Millisecond)
		q.Enqueue("late arrival")
	}()

	got, ok := q.PopWait(time.Second)
	if !ok || got != "late arrival" {
		t.Fatalf("PopWait = %q, %v; want the enqueued item", got, ok)
	}
}

func TestResponseQueue_CloseDrainsBeforeSentinel(t *testing.T) {
	q := NewResponseQueue()
	q.Enqueue("pending")
	q.Close()

	got, ok := q.PopWait(time.Second)
	if !ok || got != "pending" {
		t.Fatalf("expected queued item before sentinel, got %q, %v", got, ok)
	}
	got, ok = q.PopWait(time.Second)
	if !ok || got != responseSentinel {
		t.Fatalf("expected sentinel, got %q, %v", got, ok)
	}
}

func TestResponseQueue_ConcurrentProducers(t *testing.T) {
	q := NewResponseQueue()
	const producers = 8
	const perProducer = 50

	var wg sync.WaitGroup
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perProducer; j++ {
				q.Enqueue("item")
			}
		}()
	}
	wg.Wait()

	count := 0
	for {
		_, ok := q.PopWait(10 * time.Millisecond)
		if !ok {
			break
		}
		count++
	}
	if count != producers*perProducer {
		t.Errorf("expected %d items, drained %d", producers*perProducer, count)
	}
}
