package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/parlor/internal/model"
)

type AttemptStore struct {
	db *sql.DB
}

func NewAttemptStore(db *sql.DB) *AttemptStore {
	return &AttemptStore{db: db}
}

// Save records the password hash a session submitted for a room, replacing
// any earlier attempt for the same pair.
func (s *AttemptStore) Save(ctx context.Context, sessionID, roomName, passwordHash string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO room_attempts (session_id, room_name, password_hash) VALUES (?, ?, ?)
		ON CONFLICT (session_id, room_name) DO UPDATE SET password_hash = excluded.password_hash`,
		sessionID, roomName, passwordHash,
	)
	if err != nil {
		return fmt.Errorf("save room attempt: %w", err)
	}
	return nil
}

// Get returns the stored attempt, or nil if the session never tried the room.
func (s *AttemptStore) Get(ctx context.Context, sessionID, roomName string) (*model.RoomAttempt, error) {
	a := model.RoomAttempt{SessionID: sessionID, RoomName: roomName}
	err := s.db.QueryRowContext(ctx,
		`SELECT password_hash FROM room_attempts WHERE session_id = ? AND room_name = ?`,
		sessionID, roomName,
	).Scan(&a.PasswordHash)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get room attempt: %w", err)
	}
	return &a, nil
}
