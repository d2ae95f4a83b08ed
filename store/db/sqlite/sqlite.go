package sqlite

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	// Import the SQLite driver.
	_ "modernc.org/sqlite"

	"natasha/internal/profile"
	"natasha/store"
)

// SQLite is the default driver: the assistant is a single-user local
// process, so one WAL-mode connection covers every workload.

const schema = `
CREATE TABLE IF NOT EXISTS user_preference (
	key TEXT NOT NULL PRIMARY KEY,
	value TEXT NOT NULL DEFAULT '',
	updated_ts BIGINT NOT NULL DEFAULT (strftime('%s', 'now'))
);

CREATE TABLE IF NOT EXISTS usage_stat (
	name TEXT NOT NULL,
	day TEXT NOT NULL,
	count BIGINT NOT NULL DEFAULT 0,
	PRIMARY KEY (name, day)
);
`

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens the SQLite database named by the profile DSN.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile.DSN == "" {
		return nil, errors.New("dsn required")
	}

	// With the modernc.org/sqlite driver each pragma is passed as a
	// `_pragma=` query parameter. WAL journal mode avoids locking
	// issues and busy_timeout covers the scheduler and consumer loops
	// touching the database concurrently.
	sqliteDB, err := sql.Open("sqlite", profile.DSN+"?_pragma=foreign_keys(0)&_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open db with dsn: %s", profile.DSN)
	}

	// Single connection is optimal for SQLite with WAL; the file is
	// local so no lifetime limits apply.
	sqliteDB.SetMaxOpenConns(1)
	sqliteDB.SetMaxIdleConns(1)
	sqliteDB.SetConnMaxLifetime(0)
	sqliteDB.SetConnMaxIdleTime(0)

	driver := DB{db: sqliteDB, profile: profile}
	return &driver, nil
}

func (d *DB) GetDB() *sql.DB {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "failed to migrate schema")
	}
	return nil
}

func (d *DB) GetPreference(ctx context.Context, find *store.FindPreference) (*store.Preference, error) {
	if find.Key == nil {
		return nil, errors.New("key required")
	}

	pref := &store.Preference{}
	err := d.db.QueryRowContext(ctx,
		"SELECT key, value, updated_ts FROM user_preference WHERE key = ?", *find.Key,
	).Scan(&pref.Key, &pref.Value, &pref.UpdatedTs)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get preference")
	}
	return pref, nil
}

func (d *DB) ListPreferences(ctx context.Context) ([]*store.Preference, error) {
	rows, err := d.db.QueryContext(ctx,
		"SELECT key, value, updated_ts FROM user_preference ORDER BY key")
	if err != nil {
		return nil, errors.Wrap(err, "failed to list preferences")
	}
	defer rows.Close()

	var prefs []*store.Preference
	for rows.Next() {
		pref := &store.Preference{}
		if err := rows.Scan(&pref.Key, &pref.Value, &pref.UpdatedTs); err != nil {
			return nil, errors.Wrap(err, "failed to scan preference")
		}
		prefs = append(prefs, pref)
	}
	return prefs, rows.Err()
}

func (d *DB) UpsertPreference(ctx context.Context, upsert *store.UpsertPreference) (*store.Preference, error) {
	pref := &store.Preference{}
	err := d.db.QueryRowContext(ctx, `
		INSERT INTO user_preference (key, value, updated_ts)
		VALUES (?, ?, strftime('%s', 'now'))
		ON CONFLICT (key) DO UPDATE
		SET value = excluded.value, updated_ts = excluded.updated_ts
		RETURNING key, value, updated_ts`,
		upsert.Key, upsert.Value,
	).Scan(&pref.Key, &pref.Value, &pref.UpdatedTs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to upsert preference")
	}
	return pref, nil
}

func (d *DB) IncrementUsage(ctx context.Context, name, day string) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO usage_stat (name, day, count)
		VALUES (?, ?, 1)
		ON CONFLICT (name, day) DO UPDATE
		SET count = usage_stat.count + 1`,
		name, day,
	)
	if err != nil {
		return errors.Wrap(err, "failed to increment usage")
	}
	return nil
}

func (d *DB) ListUsage(ctx context.Context, find *store.FindUsage) ([]*store.UsageStat, error) {
	where, args := []string{"1 = 1"}, []any{}
	if find.Name != nil {
		where = append(where, "name = ?")
		args = append(args, *find.Name)
	}
	if find.SinceDay != nil {
		where = append(where, "day >= ?")
		args = append(args, *find.SinceDay)
	}

	query := "SELECT name, day, count FROM usage_stat WHERE " +
		joinAnd(where) + " ORDER BY day DESC, name"
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list usage")
	}
	defer rows.Close()

	var stats []*store.UsageStat
	for rows.Next() {
		stat := &store.UsageStat{}
		if err := rows.Scan(&stat.Name, &stat.Day, &stat.Count); err != nil {
			return nil, errors.Wrap(err, "failed to scan usage stat")
		}
		stats = append(stats, stat)
	}
	return stats, rows.Err()
}

func joinAnd(conds []string) string {
	out := conds[0]
	for _, c := range conds[1:] {
		out += " AND " + c
	}
	return out
}
