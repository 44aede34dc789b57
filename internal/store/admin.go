package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/parlor/internal/model"
)

// AdminStore reads administrator credentials. Rows are written by parlorctl.
type AdminStore struct {
	db *sql.DB
}

func NewAdminStore(db *sql.DB) *AdminStore {
	return &AdminStore{db: db}
}

// Upsert creates the admin or replaces its password hash.
func (s *AdminStore) Upsert(ctx context.Context, username, passwordHash string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO admins (username, password_hash) VALUES (?, ?)
		ON CONFLICT (username) DO UPDATE SET password_hash = excluded.password_hash`,
		username, passwordHash,
	)
	if err != nil {
		return fmt.Errorf("upsert admin: %w", err)
	}
	return nil
}

// GetByUsername returns the admin, or nil if the username is unknown.
func (s *AdminStore) GetByUsername(ctx context.Context, username string) (*model.Admin, error) {
	a := model.Admin{Username: username}
	err := s.db.QueryRowContext(ctx,
		`SELECT password_hash FROM admins WHERE username = ?`, username,
	).Scan(&a.PasswordHash)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get admin: %w", err)
	}
	return &a, nil
}
