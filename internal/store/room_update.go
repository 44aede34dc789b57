package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/parlor/internal/model"
)

type CheckpointStore struct {
	db *sql.DB
}

func NewCheckpointStore(db *sql.DB) *CheckpointStore {
	return &CheckpointStore{db: db}
}

// Get returns the session's checkpoint for a room, or nil before its first poll.
func (s *CheckpointStore) Get(ctx context.Context, sessionID, roomName string) (*model.RoomCheckpoint, error) {
	c := model.RoomCheckpoint{SessionID: sessionID, RoomName: roomName}
	err := s.db.QueryRowContext(ctx,
		`SELECT timestamp FROM room_updates WHERE session_id = ? AND room_name = ?`,
		sessionID, roomName,
	).Scan(&c.Timestamp)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get room checkpoint: %w", err)
	}
	return &c, nil
}

// Save moves the checkpoint forward to timestamp. An older timestamp never
// replaces a newer one, so racing polls cannot move a checkpoint back.
func (s *CheckpointStore) Save(ctx context.Context, sessionID, roomName string, timestamp int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO room_updates (session_id, room_name, timestamp) VALUES (?, ?, ?)
		ON CONFLICT (session_id, room_name) DO UPDATE SET timestamp = excluded.timestamp
		WHERE excluded.timestamp > room_updates.timestamp`,
		sessionID, roomName, timestamp,
	)
	if err != nil {
		return fmt.Errorf("save room checkpoint: %w", err)
	}
	return nil
}
