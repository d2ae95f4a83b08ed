package postgres

import (
	"context"
	"database/sql"
	"strconv"

	// Import the Postgres driver.
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"natasha/internal/profile"
	"natasha/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS user_preference (
	key TEXT NOT NULL PRIMARY KEY,
	value TEXT NOT NULL DEFAULT '',
	updated_ts BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())
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

// NewDB opens a Postgres connection from the profile DSN.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile.DSN == "" {
		return nil, errors.New("dsn required")
	}

	pgDB, err := sql.Open("postgres", profile.DSN)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open db with dsn: %s", profile.DSN)
	}

	driver := DB{db: pgDB, profile: profile}
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
		"SELECT key, value, updated_ts FROM user_preference WHERE key = $1", *find.Key,
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
		VALUES ($1, $2, EXTRACT(EPOCH FROM NOW()))
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_ts = EXCLUDED.updated_ts
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
		VALUES ($1, $2, 1)
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
		args = append(args, *find.Name)
		where = append(where, "name = $"+strconv.Itoa(len(args)))
	}
	if find.SinceDay != nil {
		args = append(args, *find.SinceDay)
		where = append(where, "day >= $"+strconv.Itoa(len(args)))
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
