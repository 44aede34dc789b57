package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dukerupert/parlor/internal/model"
)

var ErrDuplicateRoom = errors.New("room already exists")

type RoomStore struct {
	db *sql.DB
}

func NewRoomStore(db *sql.DB) *RoomStore {
	return &RoomStore{db: db}
}

func scanRoom(scanner interface{ Scan(...any) error }) (*model.Room, error) {
	var r model.Room
	err := scanner.Scan(&r.ID, &r.Name, &r.PasswordHash, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

const roomCols = `id, name, password_hash, created_at`

// Create inserts a room, or returns ErrDuplicateRoom if the name is taken.
func (s *RoomStore) Create(ctx context.Context, name, passwordHash string, createdAt int64) (*model.Room, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO rooms (name, password_hash, created_at) VALUES (?, ?, ?)
		ON CONFLICT (name) DO NOTHING`,
		name, passwordHash, createdAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert room: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return nil, ErrDuplicateRoom
	}
	return s.GetByName(ctx, name)
}

// GetByName returns the room, or nil if no room has that name.
func (s *RoomStore) GetByName(ctx context.Context, name string) (*model.Room, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+roomCols+` FROM rooms WHERE name = ?`, name)
	r, err := scanRoom(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get room: %w", err)
	}
	return r, nil
}

func (s *RoomStore) List(ctx context.Context) ([]model.Room, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+roomCols+` FROM rooms ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close()

	var rooms []model.Room
	for rows.Next() {
		r, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		rooms = append(rooms, *r)
	}
	return rooms, rows.Err()
}

// UpdatePassword reports whether a room with that name existed.
func (s *RoomStore) UpdatePassword(ctx context.Context, name, passwordHash string) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE rooms SET password_hash = ? WHERE name = ?`,
		passwordHash, name,
	)
	if err != nil {
		return false, fmt.Errorf("update room password: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n == 1, nil
}

// Delete removes the room and, by cascade, its messages. It reports whether
// a room with that name existed.
func (s *RoomStore) Delete(ctx context.Context, name string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM rooms WHERE name = ?`, name)
	if err != nil {
		return false, fmt.Errorf("delete room: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n == 1, nil
}

func (s *RoomStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rooms`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count rooms: %w", err)
	}
	return n, nil
}
