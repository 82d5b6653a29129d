package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/pocket/internal/database"
	"github.com/MrJamesThe3rd/pocket/internal/ledger"
)

// Store keeps ledger snapshots in the snapshots table, one row per key.
type Store struct {
	db     *sql.DB
	driver string
}

func New(db *sql.DB, driver string) *Store {
	return &Store{db: db, driver: driver}
}

func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	query := database.Rebind(s.driver, `
		SELECT data
		FROM snapshots
		WHERE key = $1
	`)

	var data []byte

	err := s.db.QueryRowContext(ctx, query, key).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}

		return nil, fmt.Errorf("loading snapshot %q: %w", key, err)
	}

	return data, nil
}

func (s *Store) Save(ctx context.Context, key string, data []byte) error {
	query := database.Rebind(s.driver, `
		INSERT INTO snapshots (key, data, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE
		SET data = excluded.data, updated_at = excluded.updated_at
	`)

	_, err := s.db.ExecContext(ctx, query, key, string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("saving snapshot %q: %w", key, err)
	}

	return nil
}
