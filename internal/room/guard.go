// Package room decides who may enter a room and what each session has yet
// to see in it.
package room

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"

	"github.com/dukerupert/parlor/internal/metrics"
	"github.com/dukerupert/parlor/internal/model"
	"github.com/dukerupert/parlor/internal/store"
)

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrUnauthorized = errors.New("no valid password attempt for room")
)

// HashPassword returns the hex SHA-256 digest stored for room passwords
// and room attempts.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

type Guard struct {
	rooms    *store.RoomStore
	attempts *store.AttemptStore
}

func NewGuard(rooms *store.RoomStore, attempts *store.AttemptStore) *Guard {
	return &Guard{rooms: rooms, attempts: attempts}
}

// Authorize returns the room if the session's last attempt for it matches
// the room's current password. It is checked on every request, so a
// password change locks out sessions until they submit the new one.
func (g *Guard) Authorize(ctx context.Context, sessionID, roomName string) (*model.Room, error) {
	r, err := g.rooms.GetByName(ctx, roomName)
	if err != nil {
		return nil, err
	}
	if r == nil {
		metrics.RoomAuthorizations.WithLabelValues("not_found").Inc()
		return nil, ErrRoomNotFound
	}

	attempt, err := g.attempts.Get(ctx, sessionID, roomName)
	if err != nil {
		return nil, err
	}
	if attempt == nil || subtle.ConstantTimeCompare([]byte(attempt.PasswordHash), []byte(r.PasswordHash)) != 1 {
		metrics.RoomAuthorizations.WithLabelValues("unauthorized").Inc()
		return nil, ErrUnauthorized
	}

	metrics.RoomAuthorizations.WithLabelValues("authorized").Inc()
	return r, nil
}

// SubmitAttempt stores the hash of password as the session's attempt for
// roomName, replacing the previous one.
func (g *Guard) SubmitAttempt(ctx context.Context, sessionID, roomName, password string) error {
	return g.attempts.Save(ctx, sessionID, roomName, HashPassword(password))
}
