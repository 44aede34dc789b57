package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/parlor/internal/model"
)

type MessageStore struct {
	db *sql.DB
}

func NewMessageStore(db *sql.DB) *MessageStore {
	return &MessageStore{db: db}
}

func scanMessage(scanner interface{ Scan(...any) error }) (*model.Message, error) {
	var m model.Message
	var author sql.NullString
	var replyTo sql.NullInt64

	err := scanner.Scan(&m.ID, &m.RoomID, &m.Content, &m.Timestamp, &author, &replyTo)
	if err != nil {
		return nil, err
	}

	if author.Valid {
		m.Author = &author.String
	}
	if replyTo.Valid {
		m.ReplyTo = &replyTo.Int64
	}
	return &m, nil
}

const messageCols = `id, room_id, content, timestamp, author, reply_to`

func (s *MessageStore) Create(ctx context.Context, roomID int64, content string, timestamp int64, author *string, replyTo *int64) (*model.Message, error) {
	var a sql.NullString
	if author != nil {
		a = sql.NullString{String: *author, Valid: true}
	}
	var rt sql.NullInt64
	if replyTo != nil {
		rt = sql.NullInt64{Int64: *replyTo, Valid: true}
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (room_id, content, timestamp, author, reply_to) VALUES (?, ?, ?, ?, ?)`,
		roomID, content, timestamp, a, rt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// GetByID returns the message, or nil if it does not exist.
func (s *MessageStore) GetByID(ctx context.Context, id int64) (*model.Message, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+messageCols+` FROM messages WHERE id = ?`, id)
	m, err := scanMessage(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get message: %w", err)
	}
	return m, nil
}

// ListBetween returns the room's messages with after < timestamp <= until,
// oldest first.
func (s *MessageStore) ListBetween(ctx context.Context, roomID, after, until int64) ([]model.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+messageCols+` FROM messages
		WHERE room_id = ? AND timestamp > ? AND timestamp <= ?
		ORDER BY timestamp, id`,
		roomID, after, until,
	)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var messages []model.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, *m)
	}
	return messages, rows.Err()
}
