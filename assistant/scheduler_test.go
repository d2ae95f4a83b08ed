package assistant

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// recordingDeliverer records every delivered message; optionally fails.
type recordingDeliverer struct {
	mu        sync.Mutex
	delivered []string
	err       error
}

func (d *recordingDeliverer) Deliver(_ context.Context, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.delivered = append(d.delivered, text)
	return nil
}

func (d *recordingDeliverer) messages() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.delivered...)
}

// fakeClock is a settable time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestScheduler_TimerFiresExactlyOnce(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)}
	deliverer := &recordingDeliverer{}
	s := NewScheduler(deliverer, WithClock(clock.Now))

	resp := s.SetTimer(1.0 / 60.0) // one second
	if resp == "" {
		t.Fatal("expected confirmation response")
	}
	if s.PendingCount() != 1 {
		t.Fatalf("expected 1 pending entry, got %d", s.PendingCount())
	}

	// Not yet due.
	s.Poll(context.Background())
	if got := len(deliverer.messages()); got != 0 {
		t.Fatalf("entry fired early: %d deliveries", got)
	}

	clock.Advance(2 * time.Second)
	s.Poll(context.Background())
	if got := deliverer.messages(); len(got) != 1 {
		t.Fatalf("expected exactly 1 delivery, got %d", len(got))
	}
	if s.PendingCount() != 0 {
		t.Fatalf("expected entry removed, %d still pending", s.PendingCount())
	}

	// A second poll must not re-deliver.
	s.Poll(context.Background())
	if got := len(deliverer.messages()); got != 1 {
		t.Fatalf("entry fired twice: %d deliveries", got)
	}
}

func TestScheduler_FireTimeNotBeforeCreation(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)}
	s := NewScheduler(&recordingDeliverer{}, WithClock(clock.Now))

	s.SetTimer(5)
	s.mu.Lock()
	entry := s.pending[0]
	s.mu.Unlock()
	if entry.FireAt.Before(entry.CreatedAt) {
		t.Errorf("fire time %v before creation time %v", entry.FireAt, entry.CreatedAt)
	}
}

func TestScheduler_IdenticalFireTimesUnderConcurrentCreation(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)}
	deliverer := &recordingDeliverer{}
	s := NewScheduler(deliverer, WithClock(clock.Now))

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.SetReminder("drink water", 1)
		}()
	}
	wg.Wait()

	if s.PendingCount() != 2 {
		t.Fatalf("expected 2 pending entries, got %d", s.PendingCount())
	}

	clock.Advance(2 * time.Hour)
	s.Poll(context.Background())

	if got := deliverer.messages(); len(got) != 2 {
		t.Fatalf("expected both entries to fire exactly once, got %d deliveries", len(got))
	}
	if s.PendingCount() != 0 {
		t.Fatalf("expected empty pending set, got %d", s.PendingCount())
	}
}

func TestScheduler_CreationDuringScanNotLost(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)}
	deliverer := &recordingDeliverer{}
	s := NewScheduler(deliverer, WithClock(clock.Now))

	s.SetTimer(1.0 / 60.0)
	clock.Advance(time.Minute)

	// Create a new entry while the due one fires; the new one must
	// survive the scan.
	done := make(chan struct{})
	go func() {
		s.SetTimer(10)
		close(done)
	}()
	s.Poll(context.Background())
	<-done

	if s.PendingCount() != 1 {
		t.Fatalf("concurrently created entry lost: %d pending", s.PendingCount())
	}
	if got := len(deliverer.messages()); got != 1 {
		t.Fatalf("expected 1 delivery, got %d", got)
	}
}

func TestScheduler_DeliveryFailureStillRemovesEntry(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)}
	deliverer := &recordingDeliverer{err: errors.New("speaker offline")}
	s := NewScheduler(deliverer, WithClock(clock.Now))

	s.SetTimer(1.0 / 60.0)
	clock.Advance(time.Minute)
	s.Poll(context.Background())

	// At-most-once: the failed entry is not retried.
	if s.PendingCount() != 0 {
		t.Fatalf("expected failed entry removed, %d still pending", s.PendingCount())
	}
}

func TestScheduler_RunStopsOnCancel(t *testing.T) {
	s := NewScheduler(&recordingDeliverer{}, WithPollInterval(5*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())

	stopped := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(stopped)
	}()

	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("scheduler loop did not stop on cancellation")
	}
}

func TestScheduler_ConfirmationMessages(t *testing.T) {
	s := NewScheduler(&recordingDeliverer{})

	if got := s.SetTimer(5); got != "Timer set for 5 minutes" {
		t.Errorf("unexpected timer confirmation: %q", got)
	}
	if got := s.SetReminder("call john", 2); got != "Reminder set for 2 hours from now" {
		t.Errorf("unexpected reminder confirmation: %q", got)
	}
}
