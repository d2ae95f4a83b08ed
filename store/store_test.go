package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"natasha/internal/profile"
	"natasha/store"
	"natasha/store/db/sqlite"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	p := &profile.Profile{
		Mode:   "dev",
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "natasha_test.db"),
	}
	driver, err := sqlite.NewDB(p)
	require.NoError(t, err)
	s := store.New(driver, p)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestPreferenceCaching(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, found, err := s.GetPreference(ctx, store.PreferenceWakeWord)
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, s.SetPreference(ctx, store.PreferenceWakeWord, "natasha"))

	value, found, err := s.GetPreference(ctx, store.PreferenceWakeWord)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "natasha", value)
}

func TestIsQuietHours(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	// No preference set: never quiet.
	require.False(t, s.IsQuietHours(time.Date(2026, 8, 30, 23, 0, 0, 0, time.Local)))

	require.NoError(t, s.SetPreference(ctx, store.PreferenceQuietHours, "22:00-07:00"))
	require.True(t, s.IsQuietHours(time.Date(2026, 8, 30, 23, 0, 0, 0, time.Local)))
	require.True(t, s.IsQuietHours(time.Date(2026, 8, 30, 3, 0, 0, 0, time.Local)))
	require.False(t, s.IsQuietHours(time.Date(2026, 8, 30, 12, 0, 0, 0, time.Local)))
}

func TestIsQuietHours_MalformedValueDisables(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.SetPreference(ctx, store.PreferenceQuietHours, "whenever"))
	require.False(t, s.IsQuietHours(time.Now()))
}

func TestUsageTracking(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.TrackCommandUsage(ctx, "joke")
	s.TrackCommandUsage(ctx, "joke")
	s.TrackInteraction(ctx)

	name := "joke"
	stats, err := s.ListUsage(ctx, &store.FindUsage{Name: &name})
	require.NoError(t, err)
	require.Len(t, stats, 1)
	require.Equal(t, int64(2), stats[0].Count)
}
