// Package store provides persistence for assistant preferences and
// usage telemetry behind a database-driver abstraction.
package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"natasha/internal/profile"
)

// preferenceCacheTTL bounds how stale a cached preference may be. The
// quiet-hours check runs on every delivered response, so preferences
// are not read from the database each time.
const preferenceCacheTTL = time.Minute

// Reserved usage-stat name for overall interaction counting.
const interactionStatName = "_interactions"

type cachedPreference struct {
	value    string
	found    bool
	cachedAt time.Time
}

// Store provides database access to all persisted objects.
type Store struct {
	profile *profile.Profile
	driver  Driver

	mu        sync.Mutex
	prefCache map[string]cachedPreference
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:    driver,
		profile:   profile,
		prefCache: make(map[string]cachedPreference),
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

// Migrate creates the schema if it does not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	return s.driver.Migrate(ctx)
}

func (s *Store) Close() error {
	return s.driver.Close()
}

// GetPreference returns the value for key and whether it was set.
// Values are cached briefly.
func (s *Store) GetPreference(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	if cached, ok := s.prefCache[key]; ok && time.Since(cached.cachedAt) < preferenceCacheTTL {
		s.mu.Unlock()
		return cached.value, cached.found, nil
	}
	s.mu.Unlock()

	pref, err := s.driver.GetPreference(ctx, &FindPreference{Key: &key})
	if err != nil {
		return "", false, err
	}

	entry := cachedPreference{cachedAt: time.Now()}
	if pref != nil {
		entry.value = pref.Value
		entry.found = true
	}
	s.mu.Lock()
	s.prefCache[key] = entry
	s.mu.Unlock()
	return entry.value, entry.found, nil
}

// SetPreference stores a key/value pair and refreshes the cache.
func (s *Store) SetPreference(ctx context.Context, key, value string) error {
	pref, err := s.driver.UpsertPreference(ctx, &UpsertPreference{Key: key, Value: value})
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.prefCache[key] = cachedPreference{value: pref.Value, found: true, cachedAt: time.Now()}
	s.mu.Unlock()
	return nil
}

// IsQuietHours reports whether now falls inside the configured quiet
// window. The window is the "quiet_hours" preference in "HH:MM-HH:MM"
// form; an absent or malformed value disables suppression.
func (s *Store) IsQuietHours(now time.Time) bool {
	value, found, err := s.GetPreference(context.Background(), PreferenceQuietHours)
	if err != nil {
		slog.Debug("failed to read quiet hours preference", "error", err)
		return false
	}
	if !found || value == "" {
		return false
	}

	window, err := ParseQuietWindow(value)
	if err != nil {
		slog.Warn("malformed quiet hours preference", "value", value, "error", err)
		return false
	}
	return window.Contains(now)
}

// TrackInteraction counts one delivered response for today.
func (s *Store) TrackInteraction(ctx context.Context) {
	if err := s.driver.IncrementUsage(ctx, interactionStatName, today()); err != nil {
		slog.Debug("failed to track interaction", "error", err)
	}
}

// TrackCommandUsage counts one use of the named command for today.
func (s *Store) TrackCommandUsage(ctx context.Context, command string) {
	if err := s.driver.IncrementUsage(ctx, command, today()); err != nil {
		slog.Debug("failed to track command usage", "command", command, "error", err)
	}
}

// ListUsage returns usage counters matching find.
func (s *Store) ListUsage(ctx context.Context, find *FindUsage) ([]*UsageStat, error) {
	return s.driver.ListUsage(ctx, find)
}

func today() string {
	return time.Now().Format("2006-01-02")
}
