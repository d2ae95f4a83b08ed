package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for database drivers.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	// Migrate creates the schema if needed.
	Migrate(ctx context.Context) error

	GetPreference(ctx context.Context, find *FindPreference) (*Preference, error)
	ListPreferences(ctx context.Context) ([]*Preference, error)
	UpsertPreference(ctx context.Context, upsert *UpsertPreference) (*Preference, error)

	IncrementUsage(ctx context.Context, name, day string) error
	ListUsage(ctx context.Context, find *FindUsage) ([]*UsageStat, error)
}
