// Package session issues, resolves and reclaims anonymous sessions.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/dukerupert/parlor/internal/clock"
	"github.com/dukerupert/parlor/internal/metrics"
	"github.com/dukerupert/parlor/internal/model"
	"github.com/dukerupert/parlor/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// ErrSessionNotFound means the presented token is malformed or no longer
// names a session, usually because the reclaimer removed it.
var ErrSessionNotFound = errors.New("session not found")

type Manager struct {
	sessions *store.SessionStore
	admins   *store.AdminStore
	clock    clock.Clock
	newToken func() (string, error)
}

func NewManager(sessions *store.SessionStore, admins *store.AdminStore, clk clock.Clock) *Manager {
	return &Manager{
		sessions: sessions,
		admins:   admins,
		clock:    clk,
		newToken: NewToken,
	}
}

// Resolve looks up the session behind token.
func (m *Manager) Resolve(ctx context.Context, token string) (*model.Session, error) {
	if !wellFormed(token) {
		return nil, ErrSessionNotFound
	}
	sess, err := m.sessions.GetByID(ctx, token)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// IssueNew creates a fresh non-admin session.
func (m *Manager) IssueNew(ctx context.Context) (*model.Session, error) {
	token, err := m.newToken()
	if err != nil {
		return nil, err
	}
	sess, err := m.sessions.Create(ctx, token, clock.Millis(m.clock))
	if err != nil {
		return nil, err
	}
	metrics.SessionsIssued.Inc()
	return sess, nil
}

// KeepAlive bumps the session's last activity to now.
func (m *Manager) KeepAlive(ctx context.Context, sess *model.Session) error {
	now := clock.Millis(m.clock)
	if err := m.sessions.Touch(ctx, sess.ID, now); err != nil {
		return err
	}
	sess.LastActivity = now
	return nil
}

// ElevateToAdmin marks sess as an admin session. It must only be called
// after the admin's credentials were verified. It returns false when the
// session disappeared in the meantime.
func (m *Manager) ElevateToAdmin(ctx context.Context, sess *model.Session) (bool, error) {
	n, err := m.sessions.SetAdmin(ctx, sess.ID)
	if err != nil {
		return false, err
	}
	if n != 1 {
		return false, nil
	}
	sess.IsAdmin = true
	return true, nil
}

// VerifyAdmin checks a username and password against the admins table.
func (m *Manager) VerifyAdmin(ctx context.Context, username, password string) (bool, error) {
	admin, err := m.admins.GetByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	if admin == nil {
		return false, nil
	}
	err = bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("compare admin password: %w", err)
	}
	return true, nil
}

// Count returns the number of live sessions.
func (m *Manager) Count(ctx context.Context) (int64, error) {
	return m.sessions.Count(ctx)
}

// HashAdminPassword produces the hash stored in the admins table.
func HashAdminPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash admin password: %w", err)
	}
	return string(hash), nil
}
