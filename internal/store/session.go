package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/parlor/internal/model"
)

type SessionStore struct {
	db *sql.DB
}

func NewSessionStore(db *sql.DB) *SessionStore {
	return &SessionStore{db: db}
}

func scanSession(scanner interface{ Scan(...any) error }) (*model.Session, error) {
	var s model.Session
	err := scanner.Scan(&s.ID, &s.LastActivity, &s.IsAdmin)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

const sessionCols = `id, last_activity, is_admin`

// Create inserts a non-admin session. A duplicate id fails on the primary key.
func (s *SessionStore) Create(ctx context.Context, id string, now int64) (*model.Session, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, last_activity, is_admin) VALUES (?, ?, 0)`,
		id, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	return &model.Session{ID: id, LastActivity: now}, nil
}

// GetByID returns the session with the given id, or nil if there is none.
func (s *SessionStore) GetByID(ctx context.Context, id string) (*model.Session, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sessionCols+` FROM sessions WHERE id = ?`, id)
	sess, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

func (s *SessionStore) Touch(ctx context.Context, id string, now int64) error {
	_, err := s.db.ExecContext(ctx, `UPDATE sessions SET last_activity = ? WHERE id = ?`, now, id)
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return nil
}

// SetAdmin flags the session as admin and reports how many rows changed.
func (s *SessionStore) SetAdmin(ctx context.Context, id string) (int64, error) {
	result, err := s.db.ExecContext(ctx, `UPDATE sessions SET is_admin = 1 WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("set session admin: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return count, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteInactive removes sessions whose last activity is strictly before
// cutoff. Attempts and checkpoints go with them through ON DELETE CASCADE.
func (s *SessionStore) DeleteInactive(ctx context.Context, cutoff int64) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE last_activity < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete inactive sessions: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return count, nil
}

func (s *SessionStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return n, nil
}
