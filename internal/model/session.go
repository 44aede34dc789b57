package model

// Session is the server-side record behind a session_id cookie.
// LastActivity is Unix milliseconds.
type Session struct {
	ID           string `json:"-"`
	LastActivity int64  `json:"last_activity"`
	IsAdmin      bool   `json:"is_admin"`
}

// RoomAttempt is the last password hash a session submitted for a room.
type RoomAttempt struct {
	SessionID    string
	RoomName     string
	PasswordHash string
}

// RoomCheckpoint marks how far a session has received a room's messages.
type RoomCheckpoint struct {
	SessionID string
	RoomName  string
	Timestamp int64
}
