package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultPollInterval is the scheduler wake-up interval. The polling
// granularity bounds how late a reminder can fire.
const DefaultPollInterval = 30 * time.Second

// ReminderEntry is a pending timed notification. An entry is removed
// from the pending set in the same pass that delivers it, so it fires
// at most once and is never silently dropped before firing.
type ReminderEntry struct {
	UID       string
	FireAt    time.Time
	CreatedAt time.Time
	Message   string
}

// Scheduler manages pending reminders and timers. Entries are created
// by the dispatcher path and removed only by the polling loop; both
// sides go through the mutex, so concurrent creation during a scan is
// neither lost nor double-fired.
type Scheduler struct {
	deliverer Deliverer
	clock     func() time.Time
	interval  time.Duration
	onFired   func()

	mu      sync.Mutex
	pending []ReminderEntry
}

// SchedulerOption customizes a Scheduler.
type SchedulerOption func(*Scheduler)

// WithPollInterval overrides the polling interval.
func WithPollInterval(interval time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(clock func() time.Time) SchedulerOption {
	return func(s *Scheduler) { s.clock = clock }
}

// WithFiredCallback registers a callback invoked once per fired entry.
func WithFiredCallback(fn func()) SchedulerOption {
	return func(s *Scheduler) { s.onFired = fn }
}

// NewScheduler creates a scheduler delivering through deliverer.
func NewScheduler(deliverer Deliverer, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		deliverer: deliverer,
		clock:     time.Now,
		interval:  DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetTimer schedules a timer for the given number of minutes and
// returns the confirmation response.
func (s *Scheduler) SetTimer(minutes float64) string {
	amount := formatAmount(minutes)
	s.add(time.Duration(minutes*float64(time.Minute)),
		fmt.Sprintf("Timer for %s minutes is up!", amount))
	return fmt.Sprintf("Timer set for %s minutes", amount)
}

// SetReminder schedules a reminder message the given number of hours
// from now and returns the confirmation response.
func (s *Scheduler) SetReminder(message string, hours float64) string {
	s.add(time.Duration(hours*float64(time.Hour)), fmt.Sprintf("Reminder: %s", message))
	return fmt.Sprintf("Reminder set for %s hours from now", formatAmount(hours))
}

func (s *Scheduler) add(in time.Duration, message string) {
	now := s.clock()
	if in < 0 {
		in = 0
	}
	entry := ReminderEntry{
		UID:       uuid.NewString(),
		FireAt:    now.Add(in),
		CreatedAt: now,
		Message:   message,
	}
	s.mu.Lock()
	s.pending = append(s.pending, entry)
	s.mu.Unlock()
	slog.Debug("scheduled entry", "uid", entry.UID, "fire_at", entry.FireAt)
}

// PendingCount returns the number of entries not yet fired.
func (s *Scheduler) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Run polls at the configured interval until ctx is canceled, firing
// every entry whose time has elapsed.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Poll(ctx)
		}
	}
}

// Poll fires all elapsed entries. Due entries are removed from the
// pending set under the lock before delivery, so a concurrent poll or
// creation can never fire the same entry twice. Delivery failures are
// logged; the entry stays removed (at-most-once, not at-least-once).
func (s *Scheduler) Poll(ctx context.Context) {
	now := s.clock()

	s.mu.Lock()
	var due []ReminderEntry
	remaining := s.pending[:0]
	for _, entry := range s.pending {
		if !entry.FireAt.After(now) {
			due = append(due, entry)
		} else {
			remaining = append(remaining, entry)
		}
	}
	s.pending = remaining
	s.mu.Unlock()

	for _, entry := range due {
		if err := s.deliverer.Deliver(ctx, entry.Message); err != nil {
			slog.Error("failed to deliver reminder", "uid", entry.UID, "error", err)
		}
		if s.onFired != nil {
			s.onFired()
		}
	}
}

// formatAmount renders a possibly fractional amount without trailing
// zeros, e.g. 5 -> "5", 0.5 -> "0.5".
func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
