package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/garage/internal/auth"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetByUsername(ctx context.Context, username string) (*auth.Admin, error) {
	var a auth.Admin

	query := `SELECT id, username, password_hash, created_at FROM admin WHERE username = $1`

	err := s.db.QueryRowContext(ctx, query, username).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrNotFound
		}

		return nil, fmt.Errorf("getting admin: %w", err)
	}

	return &a, nil
}

func (s *Store) Create(ctx context.Context, a *auth.Admin) error {
	query := `
		INSERT INTO admin (username, password_hash)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	if err := s.db.QueryRowContext(ctx, query, a.Username, a.PasswordHash).Scan(&a.ID, &a.CreatedAt); err != nil {
		return fmt.Errorf("creating admin: %w", err)
	}

	return nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admin`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting admins: %w", err)
	}

	return n, nil
}
