package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/pocket/internal/database"
	"github.com/MrJamesThe3rd/pocket/internal/matching"
)

type Store struct {
	db     *sql.DB
	driver string
}

func New(db *sql.DB, driver string) *Store {
	return &Store{db: db, driver: driver}
}

// FindMatch returns the category of the longest pattern contained in
// rawDescription. Patterns match literally; % and _ are not wildcards.
func (s *Store) FindMatch(ctx context.Context, rawDescription string) (string, error) {
	query := database.Rebind(s.driver, `
		SELECT category
		FROM category_rules
		WHERE LOWER($1) LIKE '%' || REPLACE(REPLACE(REPLACE(LOWER(pattern), '\', '\\'), '%', '\%'), '_', '\_') || '%' ESCAPE '\'
		ORDER BY LENGTH(pattern) DESC, created_at DESC
		LIMIT 1
	`)

	var category string

	err := s.db.QueryRowContext(ctx, query, rawDescription).Scan(&category)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}

		return "", fmt.Errorf("finding match: %w", err)
	}

	return category, nil
}

func (s *Store) SaveRule(ctx context.Context, pattern, category string) (*matching.Rule, error) {
	query := database.Rebind(s.driver, `
		INSERT INTO category_rules (pattern, category, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (pattern) DO UPDATE
		SET category = excluded.category
		RETURNING id, pattern, category, created_at
	`)

	var r matching.Rule

	err := s.db.QueryRowContext(ctx, query, pattern, category, time.Now().UTC()).
		Scan(&r.ID, &r.Pattern, &r.Category, &r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("saving rule: %w", err)
	}

	return &r, nil
}

func (s *Store) ListRules(ctx context.Context) ([]matching.Rule, error) {
	query := `
		SELECT id, pattern, category, created_at
		FROM category_rules
		ORDER BY pattern
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing rules: %w", err)
	}
	defer rows.Close()

	var rules []matching.Rule

	for rows.Next() {
		var r matching.Rule
		if err := rows.Scan(&r.ID, &r.Pattern, &r.Category, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning rule: %w", err)
		}

		rules = append(rules, r)
	}

	return rules, rows.Err()
}

func (s *Store) DeleteRule(ctx context.Context, id int64) error {
	query := database.Rebind(s.driver, `DELETE FROM category_rules WHERE id = $1`)

	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting rule: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting rule: %w", err)
	}

	if n == 0 {
		return matching.ErrNotFound
	}

	return nil
}
