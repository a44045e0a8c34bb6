package blob

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// PostgresStore persists the state blob as a single row keyed by name.
type PostgresStore struct {
	db  *sqlx.DB
	key string
}

// NewPostgresStore ensures the backing table exists and returns a handle.
func NewPostgresStore(db *sqlx.DB, key string) (*PostgresStore, error) {
	const ddl = `CREATE TABLE IF NOT EXISTS app_blobs (
		key TEXT PRIMARY KEY,
		data BYTEA NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`
	if _, err := db.Exec(ddl); err != nil {
		return nil, fmt.Errorf("ensure app_blobs table: %w", err)
	}
	return &PostgresStore{db: db, key: key}, nil
}

// Get reads the blob row, returning ErrNotFound when the row is absent.
func (s *PostgresStore) Get(ctx context.Context) ([]byte, error) {
	const query = `SELECT data FROM app_blobs WHERE key = $1`
	var data []byte
	if err := s.db.GetContext(ctx, &data, query, s.key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select blob %s: %w", s.key, err)
	}
	return data, nil
}

// Set upserts the blob row.
func (s *PostgresStore) Set(ctx context.Context, data []byte) error {
	const query = `INSERT INTO app_blobs (key, data, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`
	if _, err := s.db.ExecContext(ctx, query, s.key, data); err != nil {
		return fmt.Errorf("upsert blob %s: %w", s.key, err)
	}
	return nil
}
