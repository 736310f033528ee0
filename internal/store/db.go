package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a pgx connection pool for Postgres.
type DB struct {
	Pool *pgxpool.Pool
}

// NewDB creates a Postgres pool and verifies connectivity.
func NewDB(ctx context.Context, connString string) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, err
	}
	cfg.MaxConns = 10
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &DB{Pool: pool}, pool.Ping(ctx)
}

// Migrate creates the schema when it does not exist yet.
func (d *DB) Migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id                 TEXT PRIMARY KEY,
		email              TEXT UNIQUE NOT NULL,
		password_hash      TEXT NOT NULL,
		name               TEXT NOT NULL,
		user_type          TEXT NOT NULL,
		profile_image      TEXT NOT NULL DEFAULT '',
		department         TEXT NOT NULL DEFAULT '',
		year_of_study      TEXT NOT NULL DEFAULT '',
		program            TEXT NOT NULL DEFAULT '',
		position           TEXT NOT NULL DEFAULT '',
		lab_info           TEXT NOT NULL DEFAULT '',
		office_hours       TEXT NOT NULL DEFAULT '',
		research_interests TEXT[] NOT NULL DEFAULT '{}',
		bio                TEXT NOT NULL DEFAULT '',
		publications       TEXT[] NOT NULL DEFAULT '{}',
		current_projects   TEXT[] NOT NULL DEFAULT '{}',
		skills             TEXT[] NOT NULL DEFAULT '{}',
		availability       TEXT NOT NULL DEFAULT '',
		contact_info       TEXT NOT NULL DEFAULT '',
		created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_users_type      ON users(user_type);
	CREATE INDEX IF NOT EXISTS idx_users_interests ON users USING GIN (research_interests);

	CREATE TABLE IF NOT EXISTS collaboration_requests (
		id             TEXT PRIMARY KEY,
		student_id     TEXT NOT NULL REFERENCES users(id),
		faculty_id     TEXT NOT NULL REFERENCES users(id),
		message        TEXT NOT NULL,
		research_topic TEXT NOT NULL DEFAULT '',
		status         TEXT NOT NULL DEFAULT 'pending',
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_collab_student ON collaboration_requests(student_id);
	CREATE INDEX IF NOT EXISTS idx_collab_faculty ON collaboration_requests(faculty_id);

	CREATE TABLE IF NOT EXISTS notifications (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL REFERENCES users(id),
		kind       TEXT NOT NULL,
		request_id TEXT NOT NULL,
		body       TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id, created_at DESC);
	`
	_, err := d.Pool.Exec(ctx, schema)
	return err
}

// Close closes the underlying pool.
func (d *DB) Close() {
	if d != nil && d.Pool != nil {
		d.Pool.Close()
	}
}
